package access

import (
	"testing"
	"workshop_manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestPrincipal_Can(t *testing.T) {
	manager := Principal{Role: models.RoleManager}
	mechanic := Principal{Role: models.RoleMechanic, MechanicID: uintPtr(3)}
	frontDesk := Principal{Role: models.RoleFrontDesk}
	unknown := Principal{Role: models.RoleUnknown}
	superuser := Principal{Role: models.RoleUnknown, Superuser: true}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		want      bool
	}{
		{"manager edits budgets", manager, EditBudget, true},
		{"manager assigns", manager, AssignOrder, true},
		{"front desk creates orders", frontDesk, CreateOrder, true},
		{"front desk manages customers", frontDesk, ManageCustomers, true},
		{"front desk creates budgets", frontDesk, CreateBudget, true},
		{"front desk cannot edit budgets", frontDesk, EditBudget, false},
		{"front desk cannot add log entries", frontDesk, AddLogEntry, false},
		{"mechanic adds log entries", mechanic, AddLogEntry, true},
		{"mechanic updates status", mechanic, UpdateOrderStatus, true},
		{"mechanic cannot assign", mechanic, AssignOrder, false},
		{"mechanic cannot create customers", mechanic, ManageCustomers, false},
		{"unknown sees nothing", unknown, ViewOrders, false},
		{"superuser bypasses", superuser, ManageStaff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.Can(tt.action))
		})
	}
}

func TestPrincipal_OrderScope(t *testing.T) {
	assert.Equal(t, false, Principal{Role: models.RoleManager}.OrderScope().None)
	assert.Nil(t, Principal{Role: models.RoleFrontDesk}.OrderScope().MechanicID)

	scope := Principal{Role: models.RoleMechanic, MechanicID: uintPtr(4)}.OrderScope()
	if assert.NotNil(t, scope.MechanicID) {
		assert.Equal(t, uint(4), *scope.MechanicID)
	}

	assert.True(t, Principal{Role: models.RoleMechanic}.OrderScope().None)
	assert.True(t, Principal{Role: models.RoleUnknown}.OrderScope().None)
}

func TestPrincipal_CanSeeOrder(t *testing.T) {
	own := &models.WorkOrder{ID: 1, MechanicID: uintPtr(4)}
	other := &models.WorkOrder{ID: 2, MechanicID: uintPtr(5)}
	unassigned := &models.WorkOrder{ID: 3}

	mechanic := Principal{Role: models.RoleMechanic, MechanicID: uintPtr(4)}
	assert.True(t, mechanic.CanSeeOrder(own))
	assert.False(t, mechanic.CanSeeOrder(other))
	assert.False(t, mechanic.CanSeeOrder(unassigned))
	assert.False(t, mechanic.CanOnOrder(UpdateOrderStatus, other))

	manager := Principal{Role: models.RoleManager}
	assert.True(t, manager.CanSeeOrder(other))
	assert.True(t, manager.CanOnOrder(UpdateOrderStatus, unassigned))
}

func TestNewPrincipal(t *testing.T) {
	user := &models.User{
		ID:       9,
		Username: "mecanico",
		IsActive: true,
		Groups:   []models.Group{{Name: "Mecánico"}},
		Mechanic: &models.Mechanic{ID: 12},
	}

	p := NewPrincipal(user)
	assert.Equal(t, uint(9), p.UserID)
	assert.Equal(t, models.RoleMechanic, p.Role)
	assert.False(t, p.Superuser)
	if assert.NotNil(t, p.MechanicID) {
		assert.Equal(t, uint(12), *p.MechanicID)
	}
}
