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

type PartUsageInput struct {
	PartID   uint `json:"part_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type LogEntryInput struct {
	Date       *time.Time       `json:"date"`
	Procedures string           `json:"procedures" binding:"required"`
	Notes      string           `json:"notes"`
	MechanicID *uint            `json:"mechanic_id"`
	Parts      []PartUsageInput `json:"parts" binding:"dive"`
}

type LogEntryService interface {
	AddEntry(actor access.Principal, orderID uint, input LogEntryInput) (*models.LogEntry, error)
	ListEntries(actor access.Principal, orderID uint) ([]models.LogEntry, error)
}

type logEntryService struct {
	store  *repository.Store
	engine *rules.Engine
}

func NewLogEntryService(store *repository.Store, engine *rules.Engine) LogEntryService {
	return &logEntryService{store: store, engine: engine}
}

// AddEntry records work on an order together with the parts it consumed.
// Every usage deducts stock; a single shortfall rolls the whole entry back.
func (s *logEntryService) AddEntry(actor access.Principal, orderID uint, input LogEntryInput) (*models.LogEntry, error) {
	procedures := strings.TrimSpace(input.Procedures)
	if procedures == "" {
		return nil, invalid("procedures", "is required")
	}
	seen := make(map[uint]bool, len(input.Parts))
	for _, usage := range input.Parts {
		if usage.Quantity <= 0 {
			return nil, invalid("parts", "quantity for part #%d must be greater than zero", usage.PartID)
		}
		if seen[usage.PartID] {
			return nil, invalid("parts", "part #%d is listed more than once", usage.PartID)
		}
		seen[usage.PartID] = true
	}

	entry := &models.LogEntry{
		WorkOrderID: orderID,
		Procedures:  procedures,
		Notes:       strings.TrimSpace(input.Notes),
	}
	if input.Date != nil {
		entry.Date = *input.Date
	} else {
		entry.Date = s.engine.Now()
	}

	err := s.store.Transaction(func(tx *repository.Store) error {
		order, err := tx.WorkOrders.GetByID(orderID)
		if err != nil {
			return err
		}
		if !actor.CanOnOrder(access.AddLogEntry, order) {
			return ErrForbidden
		}

		mechanicID, err := s.resolveMechanic(tx, actor, order, input.MechanicID)
		if err != nil {
			return err
		}
		entry.MechanicID = mechanicID

		if err := tx.LogEntries.Create(entry); err != nil {
			return err
		}

		for _, in := range input.Parts {
			part, err := tx.Parts.GetByID(in.PartID)
			if err != nil {
				return reference(err, "parts")
			}
			usage := &models.PartUsage{LogEntryID: entry.ID, PartID: part.ID, Quantity: in.Quantity}
			if err := tx.LogEntries.CreateUsage(usage); err != nil {
				return err
			}
			if err := s.engine.Dispatch(tx, rules.PartUsageCreatedEvent{Usage: usage}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":     orderID,
		"log_entry_id": entry.ID,
		"parts":        len(input.Parts),
	}).Info("Log entry recorded")

	entries, err := s.store.LogEntries.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == entry.ID {
			return &entries[i], nil
		}
	}
	return entry, nil
}

// resolveMechanic picks who performed the work: a mechanic logs as
// themselves, anyone else names a mechanic or inherits the assigned one.
func (s *logEntryService) resolveMechanic(tx *repository.Store, actor access.Principal, order *models.WorkOrder, requested *uint) (uint, error) {
	if actor.Role == models.RoleMechanic && actor.MechanicID != nil {
		return *actor.MechanicID, nil
	}
	if requested != nil {
		if _, err := tx.Mechanics.GetByID(*requested); err != nil {
			return 0, reference(err, "mechanic_id")
		}
		return *requested, nil
	}
	if order.MechanicID != nil {
		return *order.MechanicID, nil
	}
	return 0, invalid("mechanic_id", "is required when the order has no assigned mechanic")
}

func (s *logEntryService) ListEntries(actor access.Principal, orderID uint) ([]models.LogEntry, error) {
	order, err := s.store.WorkOrders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSeeOrder(order) {
		return nil, ErrForbidden
	}
	return s.store.LogEntries.ListByOrder(orderID)
}
