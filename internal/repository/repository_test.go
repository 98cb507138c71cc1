package repository

import (
	"errors"
	"strings"
	"testing"
	"workshop_manager/internal/models"
	"workshop_manager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartRepository_DecrementIfSufficient(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewPartRepository(db)
	part := fx.Part(5, 2, "100")

	ok, err := repo.DecrementIfSufficient(part.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, fx.Reload(part).CurrentStock)

	ok, err = repo.DecrementIfSufficient(part.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, fx.Reload(part).CurrentStock)

	ok, err = repo.DecrementIfSufficient(part.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, fx.Reload(part).CurrentStock)
}

func TestPartRepository_IncrementAndList(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewPartRepository(db)
	low := fx.Part(2, 2, "100")
	fx.Part(10, 2, "100")

	assert.ErrorIs(t, repo.Increment(9999, 1), ErrNotFound)

	parts, err := repo.List("", true)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, low.ID, parts[0].ID)

	require.NoError(t, repo.Increment(low.ID, 1))
	parts, err = repo.List("", true)
	require.NoError(t, err)
	assert.Empty(t, parts)

	parts, err = repo.List(*low.Code, false)
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestWorkOrderRepository_ListScopes(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewWorkOrderRepository(db)
	mechanic := fx.Mechanic(nil)
	mine := fx.Order(&mechanic.ID)
	other := fx.Order(nil)

	orders, err := repo.List(WorkOrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.List(WorkOrderFilter{Scope: OrderScope{MechanicID: &mechanic.ID}})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	orders, err = repo.List(WorkOrderFilter{Unassigned: true})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, other.ID, orders[0].ID)

	orders, err = repo.List(WorkOrderFilter{Scope: OrderScope{None: true}})
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = repo.List(WorkOrderFilter{Search: other.Vehicle.Plate})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, other.ID, orders[0].ID)

	counts, err := repo.CountByStatus(OrderScope{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusReceived])
	assert.Equal(t, int64(0), counts[models.StatusDelivered])

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAlertRepository_ExistsUnresolved(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewAlertRepository(db)
	order := fx.Order(nil)

	key := AlertKey{WorkOrderID: &order.ID, Type: models.AlertInfo, Reason: models.ReasonReadyForPickup}
	exists, err := repo.ExistsUnresolved(key)
	require.NoError(t, err)
	assert.False(t, exists)

	alert := &models.Alert{WorkOrderID: &order.ID, Type: models.AlertInfo, Reason: models.ReasonReadyForPickup, Message: "ready"}
	require.NoError(t, repo.Create(alert))
	exists, err = repo.ExistsUnresolved(key)
	require.NoError(t, err)
	assert.True(t, exists)

	alert.Resolved = true
	require.NoError(t, repo.Update(alert))
	exists, err = repo.ExistsUnresolved(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	store := NewStore(db)
	part := fx.Part(5, 0, "100")
	boom := errors.New("boom")

	err := store.Transaction(func(tx *Store) error {
		if _, err := tx.Parts.DecrementIfSufficient(part.ID, 5); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, fx.Reload(part).CurrentStock)
}

func TestUserRepository_GetOrCreateGroup(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	fold := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	first, created, err := repo.GetOrCreateGroup("Encargado", fold)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.GetOrCreateGroup(" ENCARGADO", fold)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Encargado", again.Name)

	other, created, err := repo.GetOrCreateGroup("Recepcionista", fold)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}
