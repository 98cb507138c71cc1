package rules

import (
	"fmt"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ShortfallError reports a part usage that asks for more units than are in
// stock. Nothing is deducted when it is returned.
type ShortfallError struct {
	PartID    uint
	PartName  string
	Requested int
	Available int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.PartName, e.Requested, e.Available)
}

func (e *Engine) alertNewOrder(tx *repository.Store, event Event) error {
	order := event.(OrderCreatedEvent).Order

	plate := order.Plate()
	if plate == "" {
		vehicle, err := tx.Vehicles.GetByID(order.VehicleID)
		if err != nil {
			return fmt.Errorf("load vehicle %d: %w", order.VehicleID, err)
		}
		plate = vehicle.Plate
	}

	return tx.Alerts.Create(&models.Alert{
		WorkOrderID: &order.ID,
		Type:        models.AlertInfo,
		Reason:      models.ReasonOrderCreated,
		Message:     fmt.Sprintf("New order #%d received - %s", order.ID, plate),
	})
}

// detectDelay looks at the persisted estimate, not the incoming one.
func (e *Engine) detectDelay(tx *repository.Store, event Event) error {
	ev := event.(OrderUpdatingEvent)
	stored := ev.Stored

	if stored.EstimatedAt == nil || !stored.EstimatedAt.Before(e.now()) {
		return nil
	}
	if ev.Next.Status.IsDone() {
		return nil
	}

	exists, err := tx.Alerts.ExistsUnresolved(repository.AlertKey{
		WorkOrderID: &stored.ID,
		Type:        models.AlertDelay,
		Reason:      models.ReasonOrderDelayed,
	})
	if err != nil || exists {
		return err
	}

	log.WithFields(log.Fields{
		"order_id":     stored.ID,
		"estimated_at": stored.EstimatedAt,
	}).Warn("Work order is delayed")

	return tx.Alerts.Create(&models.Alert{
		WorkOrderID: &stored.ID,
		Type:        models.AlertDelay,
		Reason:      models.ReasonOrderDelayed,
		Message:     fmt.Sprintf("Order #%d delayed - estimated: %s", stored.ID, stored.EstimatedAt.Format("02/01/2006")),
	})
}

func (e *Engine) alertReadyForPickup(tx *repository.Store, event Event) error {
	order := event.(OrderUpdatedEvent).Order
	if order.Status != models.StatusReadyForPickup {
		return nil
	}

	exists, err := tx.Alerts.ExistsUnresolved(repository.AlertKey{
		WorkOrderID: &order.ID,
		Type:        models.AlertInfo,
		Reason:      models.ReasonReadyForPickup,
	})
	if err != nil || exists {
		return err
	}

	customer := order.Customer
	if customer == nil {
		customer, err = tx.Customers.GetByID(order.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer %d: %w", order.CustomerID, err)
		}
	}

	return tx.Alerts.Create(&models.Alert{
		WorkOrderID: &order.ID,
		Type:        models.AlertInfo,
		Reason:      models.ReasonReadyForPickup,
		Message:     fmt.Sprintf("Order #%d ready for pickup - Customer: %s", order.ID, customer.FullName()),
	})
}

func (e *Engine) deductStock(tx *repository.Store, event Event) error {
	usage := event.(PartUsageCreatedEvent).Usage

	ok, err := tx.Parts.DecrementIfSufficient(usage.PartID, usage.Quantity)
	if err != nil {
		return fmt.Errorf("deduct part %d: %w", usage.PartID, err)
	}
	if ok {
		return nil
	}

	part, err := tx.Parts.GetByID(usage.PartID)
	if err != nil {
		return fmt.Errorf("load part %d: %w", usage.PartID, err)
	}
	shortfall := &ShortfallError{
		PartID:    part.ID,
		PartName:  part.Name,
		Requested: usage.Quantity,
		Available: part.CurrentStock,
	}
	log.WithFields(log.Fields{
		"part_id":   part.ID,
		"requested": usage.Quantity,
		"available": part.CurrentStock,
	}).Warn("Stock shortfall, deduction rejected")
	return shortfall
}

func (e *Engine) alertLowStock(tx *repository.Store, event Event) error {
	usage := event.(PartUsageCreatedEvent).Usage

	part, err := tx.Parts.GetByID(usage.PartID)
	if err != nil {
		return fmt.Errorf("load part %d: %w", usage.PartID, err)
	}
	if !part.IsLowStock() {
		return nil
	}

	log.WithFields(log.Fields{
		"part_id":       part.ID,
		"current_stock": part.CurrentStock,
		"minimum_stock": part.MinimumStock,
	}).Warn("Low stock")

	return tx.Alerts.Create(&models.Alert{
		PartID:  &part.ID,
		Type:    models.AlertStock,
		Reason:  models.ReasonLowStock,
		Message: fmt.Sprintf("Low stock: %s (%s) - %d units left", part.Name, part.CodeOrEmpty(), part.CurrentStock),
	})
}
