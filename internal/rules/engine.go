// Package rules holds the side effects that accompany workshop writes:
// alerts and stock deductions. Rules run synchronously against the caller's
// transaction, in the order they are registered, and the first failure aborts
// the whole unit of work.
package rules

import (
	"fmt"
	"time"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
)

type EventKind string

const (
	OrderCreated     EventKind = "order_created"
	OrderUpdating    EventKind = "order_updating"
	OrderUpdated     EventKind = "order_updated"
	PartUsageCreated EventKind = "part_usage_created"
)

type Event interface {
	Kind() EventKind
}

// OrderCreatedEvent fires after a new order row exists.
type OrderCreatedEvent struct {
	Order *models.WorkOrder
}

// OrderUpdatingEvent fires before a changed order is written. Stored is the
// row as currently persisted, Next the values about to be saved.
type OrderUpdatingEvent struct {
	Stored *models.WorkOrder
	Next   *models.WorkOrder
}

// OrderUpdatedEvent fires after a changed order is written.
type OrderUpdatedEvent struct {
	Previous *models.WorkOrder
	Order    *models.WorkOrder
}

// PartUsageCreatedEvent fires after a part usage row exists.
type PartUsageCreatedEvent struct {
	Usage *models.PartUsage
}

func (OrderCreatedEvent) Kind() EventKind     { return OrderCreated }
func (OrderUpdatingEvent) Kind() EventKind    { return OrderUpdating }
func (OrderUpdatedEvent) Kind() EventKind     { return OrderUpdated }
func (PartUsageCreatedEvent) Kind() EventKind { return PartUsageCreated }

// Rule is one named reaction to an event kind.
type Rule struct {
	Name string
	On   EventKind
	Fire func(tx *repository.Store, event Event) error
}

type Engine struct {
	rules []Rule
	now   func() time.Time
}

// NewEngine returns an engine with the workshop rules in their fixed order.
// now is the clock used for delay detection; nil means time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{now: now}
	e.rules = []Rule{
		{Name: "alert_new_order", On: OrderCreated, Fire: e.alertNewOrder},
		{Name: "detect_delay", On: OrderUpdating, Fire: e.detectDelay},
		{Name: "alert_ready_for_pickup", On: OrderUpdated, Fire: e.alertReadyForPickup},
		{Name: "deduct_stock", On: PartUsageCreated, Fire: e.deductStock},
		{Name: "alert_low_stock", On: PartUsageCreated, Fire: e.alertLowStock},
	}
	return e
}

// Rules returns the registered rules in firing order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Now is the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Dispatch fires every rule registered for the event's kind. It must be
// called with the Store of the transaction that produced the event.
func (e *Engine) Dispatch(tx *repository.Store, event Event) error {
	for _, rule := range e.rules {
		if rule.On != event.Kind() {
			continue
		}
		if err := rule.Fire(tx, event); err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name, err)
		}
	}
	return nil
}
