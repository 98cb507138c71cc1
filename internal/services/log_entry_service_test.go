package services

import (
	"errors"
	"testing"
	"workshop_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntry_DeductsStock(t *testing.T) {
	e := newEnv(t)
	mechanic := e.fx.Mechanic(nil)
	order := e.fx.Order(&mechanic.ID)
	filter := e.fx.Part(10, 2, "8500")
	pads := e.fx.Part(3, 2, "25000")

	svc := NewLogEntryService(e.store, e.engine)
	entry, err := svc.AddEntry(e.mechanicPrincipal(mechanic), order.ID, LogEntryInput{
		Procedures: "Replaced filter and pads",
		Parts: []PartUsageInput{
			{PartID: filter.ID, Quantity: 1},
			{PartID: pads.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, mechanic.ID, entry.MechanicID)
	assert.Len(t, entry.PartUsages, 2)
	assert.Equal(t, testNow, entry.Date.UTC())

	assert.Equal(t, 9, e.fx.Reload(filter).CurrentStock)
	assert.Equal(t, 1, e.fx.Reload(pads).CurrentStock)

	var stockAlerts []models.Alert
	for _, alert := range e.fx.Alerts() {
		if alert.Type == models.AlertStock {
			stockAlerts = append(stockAlerts, alert)
		}
	}
	require.Len(t, stockAlerts, 1)
	require.NotNil(t, stockAlerts[0].PartID)
	assert.Equal(t, pads.ID, *stockAlerts[0].PartID)
}

func TestAddEntry_ShortfallRollsBack(t *testing.T) {
	e := newEnv(t)
	mechanic := e.fx.Mechanic(nil)
	order := e.fx.Order(&mechanic.ID)
	plenty := e.fx.Part(10, 0, "1000")
	scarce := e.fx.Part(1, 0, "1000")

	svc := NewLogEntryService(e.store, e.engine)
	_, err := svc.AddEntry(e.manager, order.ID, LogEntryInput{
		Procedures: "Oil change",
		Parts: []PartUsageInput{
			{PartID: plenty.ID, Quantity: 2},
			{PartID: scarce.ID, Quantity: 5},
		},
	})

	var shortfall *ShortfallError
	require.True(t, errors.As(err, &shortfall))
	assert.Equal(t, scarce.ID, shortfall.PartID)

	assert.Equal(t, 10, e.fx.Reload(plenty).CurrentStock)
	assert.Equal(t, 1, e.fx.Reload(scarce).CurrentStock)
	assert.Empty(t, e.fx.Alerts())

	entries, err := e.store.LogEntries.ListByOrder(order.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddEntry_StockNeverNegative(t *testing.T) {
	e := newEnv(t)
	mechanic := e.fx.Mechanic(nil)
	order := e.fx.Order(&mechanic.ID)
	part := e.fx.Part(5, 0, "1000")
	svc := NewLogEntryService(e.store, e.engine)
	actor := e.mechanicPrincipal(mechanic)

	for _, quantity := range []int{2, 2, 2, 1, 3} {
		_, _ = svc.AddEntry(actor, order.ID, LogEntryInput{
			Procedures: "Step",
			Parts:      []PartUsageInput{{PartID: part.ID, Quantity: quantity}},
		})
		assert.GreaterOrEqual(t, e.fx.Reload(part).CurrentStock, 0)
	}
	assert.Equal(t, 0, e.fx.Reload(part).CurrentStock)
}

func TestAddEntry_Validation(t *testing.T) {
	e := newEnv(t)
	mechanic := e.fx.Mechanic(nil)
	order := e.fx.Order(&mechanic.ID)
	part := e.fx.Part(5, 0, "1000")
	svc := NewLogEntryService(e.store, e.engine)

	tests := []struct {
		name  string
		input LogEntryInput
	}{
		{"missing procedures", LogEntryInput{Procedures: "  "}},
		{"zero quantity", LogEntryInput{Procedures: "x", Parts: []PartUsageInput{{PartID: part.ID, Quantity: 0}}}},
		{"duplicate part", LogEntryInput{Procedures: "x", Parts: []PartUsageInput{{PartID: part.ID, Quantity: 1}, {PartID: part.ID, Quantity: 1}}}},
		{"unknown part", LogEntryInput{Procedures: "x", Parts: []PartUsageInput{{PartID: 999, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddEntry(e.manager, order.ID, tt.input)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
	assert.Equal(t, 5, e.fx.Reload(part).CurrentStock)
}

func TestAddEntry_Permissions(t *testing.T) {
	e := newEnv(t)
	own := e.fx.Mechanic(nil)
	other := e.fx.Mechanic(nil)
	order := e.fx.Order(&other.ID)
	svc := NewLogEntryService(e.store, e.engine)

	_, err := svc.AddEntry(e.frontDesk, order.ID, LogEntryInput{Procedures: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddEntry(e.mechanicPrincipal(own), order.ID, LogEntryInput{Procedures: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddEntry(e.manager, 4242, LogEntryInput{Procedures: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
