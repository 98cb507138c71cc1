package access

import (
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID     uint        `json:"user_id"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	Superuser  bool        `json:"superuser"`
	MechanicID *uint       `json:"mechanic_id,omitempty"`
}

// NewPrincipal builds the principal for an account loaded with its groups,
// profile and mechanic record.
func NewPrincipal(user *models.User) Principal {
	p := Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      ResolveRole(user),
		Superuser: user.IsSuperuser && user.IsActive,
	}
	if user.Mechanic != nil {
		id := user.Mechanic.ID
		p.MechanicID = &id
	}
	return p
}

type Action string

const (
	ViewOrders        Action = "view_orders"
	CreateOrder       Action = "create_order"
	EditOrder         Action = "edit_order"
	AssignOrder       Action = "assign_order"
	UpdateOrderStatus Action = "update_order_status"
	ViewCustomers     Action = "view_customers"
	ManageCustomers   Action = "manage_customers"
	CreateBudget      Action = "create_budget"
	EditBudget        Action = "edit_budget"
	AddLogEntry       Action = "add_log_entry"
	ViewInventory     Action = "view_inventory"
	ManageInventory   Action = "manage_inventory"
	ManageStaff       Action = "manage_staff"
	ViewInvoice       Action = "view_invoice"
	ViewAlerts        Action = "view_alerts"
	ResolveAlert      Action = "resolve_alert"
	ViewAvailability  Action = "view_availability"
)

var permissions = map[models.Role]map[Action]bool{
	models.RoleManager: {
		ViewOrders: true, CreateOrder: true, EditOrder: true, AssignOrder: true,
		UpdateOrderStatus: true, ViewCustomers: true, ManageCustomers: true,
		CreateBudget: true, EditBudget: true, AddLogEntry: true, ViewInventory: true,
		ManageInventory: true, ManageStaff: true, ViewInvoice: true, ViewAlerts: true,
		ResolveAlert: true, ViewAvailability: true,
	},
	models.RoleMechanic: {
		ViewOrders: true, UpdateOrderStatus: true, AddLogEntry: true,
		ViewCustomers: true, ViewInventory: true, ViewAlerts: true,
	},
	models.RoleFrontDesk: {
		ViewOrders: true, CreateOrder: true, EditOrder: true, ViewCustomers: true,
		ManageCustomers: true, CreateBudget: true, ViewInventory: true,
		ViewInvoice: true, ViewAlerts: true, ResolveAlert: true,
	},
}

// Can reports whether the principal may perform action at all. Per-order
// checks still apply on top of this for mechanics.
func (p Principal) Can(action Action) bool {
	if p.Superuser {
		return true
	}
	return permissions[p.Role][action]
}

// SeesAllOrders reports whether no per-mechanic restriction applies.
func (p Principal) SeesAllOrders() bool {
	return p.Superuser || p.Role == models.RoleManager || p.Role == models.RoleFrontDesk
}

// OrderScope returns the listing restriction for the principal. A mechanic
// account without a mechanic record sees nothing.
func (p Principal) OrderScope() repository.OrderScope {
	if p.SeesAllOrders() {
		return repository.OrderScope{}
	}
	if p.Role == models.RoleMechanic && p.MechanicID != nil {
		id := *p.MechanicID
		return repository.OrderScope{MechanicID: &id}
	}
	return repository.OrderScope{None: true}
}

// CanSeeOrder applies the listing scope to a single order.
func (p Principal) CanSeeOrder(order *models.WorkOrder) bool {
	if !p.Can(ViewOrders) {
		return false
	}
	scope := p.OrderScope()
	if scope.None {
		return false
	}
	if scope.MechanicID != nil {
		return order.IsAssignedTo(*scope.MechanicID)
	}
	return true
}

// CanOnOrder combines an action permission with order visibility.
func (p Principal) CanOnOrder(action Action, order *models.WorkOrder) bool {
	return p.Can(action) && p.CanSeeOrder(order)
}
