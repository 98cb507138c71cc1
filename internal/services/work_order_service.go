package services

import (
	"strings"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/rules"

	log "github.com/sirupsen/logrus"
)

type WorkOrderInput struct {
	CustomerID         uint            `json:"customer_id" binding:"required"`
	VehicleID          uint            `json:"vehicle_id" binding:"required"`
	ProblemDescription string          `json:"problem_description" binding:"required"`
	Priority           models.Priority `json:"priority"`
	EstimatedAt        *time.Time      `json:"estimated_at"`
	MechanicID         *uint           `json:"mechanic_id"`
	WorkZoneID         *uint           `json:"work_zone_id"`
}

// WorkOrderEdit changes an existing order. Nil fields are left alone.
type WorkOrderEdit struct {
	ProblemDescription *string                 `json:"problem_description"`
	Priority           *models.Priority        `json:"priority"`
	EstimatedAt        *time.Time              `json:"estimated_at"`
	ClearEstimate      bool                    `json:"clear_estimate"`
	Status             *models.WorkOrderStatus `json:"status"`
}

type AssignInput struct {
	MechanicID uint  `json:"mechanic_id" binding:"required"`
	WorkZoneID *uint `json:"work_zone_id"`
}

type WorkOrderListFilter struct {
	Status     models.WorkOrderStatus `form:"status"`
	Priority   models.Priority        `form:"priority"`
	MechanicID *uint                  `form:"mechanic"`
	Search     string                 `form:"q"`
}

type TimelineStep struct {
	Status  models.WorkOrderStatus `json:"status"`
	Label   string                 `json:"label"`
	Reached bool                   `json:"reached"`
	At      *time.Time             `json:"at,omitempty"`
}

type BudgetView struct {
	models.Budget
	Total string `json:"total"`
}

type WorkOrderDetail struct {
	Order      *models.WorkOrder `json:"order"`
	Timeline   []TimelineStep    `json:"timeline"`
	LogEntries []models.LogEntry `json:"log_entries"`
	Budgets    []BudgetView      `json:"budgets"`
	CanAssign  bool              `json:"can_assign"`
	CanEdit    bool              `json:"can_edit"`
}

type WorkOrderService interface {
	Create(actor access.Principal, input WorkOrderInput) (*models.WorkOrder, error)
	Update(actor access.Principal, id uint, edit WorkOrderEdit) (*models.WorkOrder, error)
	Assign(actor access.Principal, id uint, input AssignInput) (*models.WorkOrder, error)
	UpdateStatus(actor access.Principal, id uint, status models.WorkOrderStatus) (*models.WorkOrder, error)
	Get(actor access.Principal, id uint) (*models.WorkOrder, error)
	Detail(actor access.Principal, id uint) (*WorkOrderDetail, error)
	List(actor access.Principal, filter WorkOrderListFilter) ([]models.WorkOrder, error)
}

type workOrderService struct {
	store    *repository.Store
	engine   *rules.Engine
	notifier NotificationService
}

func NewWorkOrderService(store *repository.Store, engine *rules.Engine, notifier NotificationService) WorkOrderService {
	return &workOrderService{store: store, engine: engine, notifier: notifier}
}

func (s *workOrderService) Create(actor access.Principal, input WorkOrderInput) (*models.WorkOrder, error) {
	if !actor.Can(access.CreateOrder) {
		return nil, ErrForbidden
	}
	if (input.MechanicID != nil || input.WorkZoneID != nil) && !actor.Can(access.AssignOrder) {
		return nil, ErrForbidden
	}

	description := strings.TrimSpace(input.ProblemDescription)
	if description == "" {
		return nil, invalid("problem_description", "is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("priority", "must be one of low, medium, high")
	}

	order := &models.WorkOrder{
		CustomerID:         input.CustomerID,
		VehicleID:          input.VehicleID,
		MechanicID:         input.MechanicID,
		WorkZoneID:         input.WorkZoneID,
		ProblemDescription: description,
		Status:             models.StatusReceived,
		Priority:           priority,
		ReceivedAt:         s.engine.Now(),
		EstimatedAt:        input.EstimatedAt,
	}
	if order.HasAssignment() {
		order.Status = models.StatusDiagnosis
	}

	err := s.store.Transaction(func(tx *repository.Store) error {
		if err := s.checkReferences(tx, order); err != nil {
			return err
		}
		if err := tx.WorkOrders.Create(order); err != nil {
			return err
		}
		return s.engine.Dispatch(tx, rules.OrderCreatedEvent{Order: order})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"plate":    order.Plate(),
		"user":     actor.Username,
	}).Info("Work order created")

	return s.store.WorkOrders.GetByID(order.ID)
}

// checkReferences loads the order's customer, vehicle and any assignment,
// leaving them attached to order.
func (s *workOrderService) checkReferences(tx *repository.Store, order *models.WorkOrder) error {
	customer, err := tx.Customers.GetByID(order.CustomerID)
	if err != nil {
		return reference(err, "customer_id")
	}
	vehicle, err := tx.Vehicles.GetByID(order.VehicleID)
	if err != nil {
		return reference(err, "vehicle_id")
	}
	if vehicle.CustomerID != customer.ID {
		return invalid("vehicle_id", "does not belong to customer #%d", customer.ID)
	}
	customer.Vehicles = nil
	vehicle.Customer = nil
	order.Customer = customer
	order.Vehicle = vehicle

	if order.MechanicID != nil {
		if _, err := tx.Mechanics.GetByID(*order.MechanicID); err != nil {
			return reference(err, "mechanic_id")
		}
	}
	if order.WorkZoneID != nil {
		if _, err := tx.WorkZones.GetByID(*order.WorkZoneID); err != nil {
			return reference(err, "work_zone_id")
		}
	}
	return nil
}

func (s *workOrderService) Update(actor access.Principal, id uint, edit WorkOrderEdit) (*models.WorkOrder, error) {
	return s.change(id, func(stored, next *models.WorkOrder) error {
		if !actor.CanOnOrder(access.EditOrder, stored) {
			return ErrForbidden
		}
		if edit.ProblemDescription != nil {
			description := strings.TrimSpace(*edit.ProblemDescription)
			if description == "" {
				return invalid("problem_description", "is required")
			}
			next.ProblemDescription = description
		}
		if edit.Priority != nil {
			if !edit.Priority.Valid() {
				return invalid("priority", "must be one of low, medium, high")
			}
			next.Priority = *edit.Priority
		}
		if edit.ClearEstimate {
			next.EstimatedAt = nil
		} else if edit.EstimatedAt != nil {
			next.EstimatedAt = edit.EstimatedAt
		}
		if edit.Status != nil {
			next.Status = *edit.Status
		}
		return nil
	})
}

func (s *workOrderService) Assign(actor access.Principal, id uint, input AssignInput) (*models.WorkOrder, error) {
	return s.change(id, func(stored, next *models.WorkOrder) error {
		if !actor.Can(access.AssignOrder) {
			return ErrForbidden
		}
		if input.MechanicID == 0 {
			return invalid("mechanic_id", "is required")
		}
		mechanicID := input.MechanicID
		next.MechanicID = &mechanicID
		next.WorkZoneID = input.WorkZoneID
		return nil
	})
}

func (s *workOrderService) UpdateStatus(actor access.Principal, id uint, status models.WorkOrderStatus) (*models.WorkOrder, error) {
	return s.change(id, func(stored, next *models.WorkOrder) error {
		if !actor.CanOnOrder(access.UpdateOrderStatus, stored) {
			return ErrForbidden
		}
		next.Status = status
		return nil
	})
}

// change runs one order mutation inside a transaction: load, mutate a copy,
// enforce the lifecycle, fire the update rules and persist. The customer is
// notified only after the transaction has committed.
func (s *workOrderService) change(id uint, mutate func(stored, next *models.WorkOrder) error) (*models.WorkOrder, error) {
	var stored, next *models.WorkOrder

	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		stored, err = tx.WorkOrders.GetByID(id)
		if err != nil {
			return err
		}

		copied := *stored
		next = &copied
		if err := mutate(stored, next); err != nil {
			return err
		}
		if !next.Status.Valid() {
			return invalid("status", "%q is not a valid status", next.Status)
		}
		if err := s.checkReferences(tx, next); err != nil {
			return err
		}
		s.applyLifecycle(stored, next)

		if err := s.engine.Dispatch(tx, rules.OrderUpdatingEvent{Stored: stored, Next: next}); err != nil {
			return err
		}
		if err := tx.WorkOrders.Save(next); err != nil {
			return err
		}
		return s.engine.Dispatch(tx, rules.OrderUpdatedEvent{Previous: stored, Order: next})
	})
	if err != nil {
		return nil, err
	}

	if stored.Status != next.Status {
		log.WithFields(log.Fields{
			"order_id": next.ID,
			"from":     stored.Status,
			"to":       next.Status,
		}).Info("Work order status changed")
	}

	order, err := s.store.WorkOrders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if stored.Status != models.StatusReadyForPickup && order.Status == models.StatusReadyForPickup {
		s.notifier.NotifyReadyForPickup(order)
	}
	return order, nil
}

// applyLifecycle enforces the automatic parts of the status machine.
func (s *workOrderService) applyLifecycle(stored, next *models.WorkOrder) {
	if stored.Status == models.StatusReceived && next.Status == models.StatusReceived && next.HasAssignment() {
		next.Status = models.StatusDiagnosis
	}

	if next.Status == models.StatusDelivered {
		if stored.Status != models.StatusDelivered || stored.CompletedAt == nil {
			now := s.engine.Now()
			next.CompletedAt = &now
		}
	} else {
		next.CompletedAt = nil
	}
}

func (s *workOrderService) Get(actor access.Principal, id uint) (*models.WorkOrder, error) {
	order, err := s.store.WorkOrders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanSeeOrder(order) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *workOrderService) Detail(actor access.Principal, id uint) (*WorkOrderDetail, error) {
	order, err := s.store.WorkOrders.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanSeeOrder(order) {
		return nil, ErrForbidden
	}

	detail := &WorkOrderDetail{
		Order:      order,
		Timeline:   Timeline(order),
		LogEntries: order.LogEntries,
		Budgets:    budgetViews(order.Budgets),
		CanAssign:  actor.Can(access.AssignOrder),
		CanEdit:    actor.CanOnOrder(access.EditOrder, order),
	}
	order.LogEntries = nil
	order.Budgets = nil
	return detail, nil
}

func (s *workOrderService) List(actor access.Principal, filter WorkOrderListFilter) ([]models.WorkOrder, error) {
	if !actor.Can(access.ViewOrders) {
		return nil, ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "%q is not a valid status", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, invalid("priority", "must be one of low, medium, high")
	}

	return s.store.WorkOrders.List(repository.WorkOrderFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		MechanicID: filter.MechanicID,
		Search:     filter.Search,
		Scope:      actor.OrderScope(),
	})
}

var timelineSteps = []models.WorkOrderStatus{
	models.StatusReceived,
	models.StatusDiagnosis,
	models.StatusInRepair,
	models.StatusReadyForPickup,
	models.StatusDelivered,
}

// reachedBy lists, for each milestone, the statuses at which it counts as
// reached. Awaiting parts reaches nothing beyond intake.
var reachedBy = map[models.WorkOrderStatus][]models.WorkOrderStatus{
	models.StatusDiagnosis:      {models.StatusDiagnosis, models.StatusInRepair, models.StatusReadyForPickup, models.StatusDelivered},
	models.StatusInRepair:       {models.StatusInRepair, models.StatusReadyForPickup, models.StatusDelivered},
	models.StatusReadyForPickup: {models.StatusReadyForPickup, models.StatusDelivered},
	models.StatusDelivered:      {models.StatusDelivered},
}

// Timeline reports which milestones an order has reached. Intake is always
// reached.
func Timeline(order *models.WorkOrder) []TimelineStep {
	steps := make([]TimelineStep, 0, len(timelineSteps))
	for _, status := range timelineSteps {
		step := TimelineStep{
			Status:  status,
			Label:   status.Label(),
			Reached: milestoneReached(status, order.Status),
		}
		switch status {
		case models.StatusReceived:
			receivedAt := order.ReceivedAt
			step.At = &receivedAt
		case models.StatusDelivered:
			step.At = order.CompletedAt
		}
		steps = append(steps, step)
	}
	return steps
}

func milestoneReached(milestone, current models.WorkOrderStatus) bool {
	if milestone == models.StatusReceived {
		return true
	}
	for _, status := range reachedBy[milestone] {
		if status == current {
			return true
		}
	}
	return false
}

func budgetViews(budgets []models.Budget) []BudgetView {
	views := make([]BudgetView, 0, len(budgets))
	for _, budget := range budgets {
		views = append(views, BudgetView{Budget: budget, Total: budget.Total().StringFixed(2)})
	}
	return views
}
