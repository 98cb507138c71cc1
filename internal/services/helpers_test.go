package services

import (
	"sync"
	"testing"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/rules"
	"workshop_manager/internal/testutil"

	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	orders []uint
}

func (n *recordingNotifier) NotifyReadyForPickup(order *models.WorkOrder) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.ID)
}

type env struct {
	db       *gorm.DB
	store    *repository.Store
	engine   *rules.Engine
	fx       *testutil.Fixtures
	notifier *recordingNotifier

	manager   access.Principal
	frontDesk access.Principal
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	return &env{
		db:        db,
		store:     repository.NewStore(db),
		engine:    rules.NewEngine(func() time.Time { return testNow }),
		fx:        testutil.NewFixtures(t, db),
		notifier:  &recordingNotifier{},
		manager:   access.Principal{UserID: 1, Username: "encargado", Role: models.RoleManager},
		frontDesk: access.Principal{UserID: 2, Username: "recepcionista", Role: models.RoleFrontDesk},
	}
}

func (e *env) workOrders() WorkOrderService {
	return NewWorkOrderService(e.store, e.engine, e.notifier)
}

func (e *env) mechanicPrincipal(mechanic *models.Mechanic) access.Principal {
	id := mechanic.ID
	return access.Principal{UserID: 100 + mechanic.ID, Username: mechanic.Name, Role: models.RoleMechanic, MechanicID: &id}
}

func (e *env) alertsFor(t *testing.T, orderID uint, reason models.AlertReason) []models.Alert {
	t.Helper()
	var matched []models.Alert
	for _, alert := range e.fx.Alerts() {
		if alert.WorkOrderID != nil && *alert.WorkOrderID == orderID && alert.Reason == reason {
			matched = append(matched, alert)
		}
	}
	return matched
}

func uintPtr(v uint) *uint { return &v }
