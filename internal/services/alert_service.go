package services

import (
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	log "github.com/sirupsen/logrus"
)

// AlertService lets operators read and resolve alerts. Alerts themselves
// are only ever raised by the rules engine.
type AlertService interface {
	List(actor access.Principal, resolved *bool, limit int) ([]models.Alert, error)
	Resolve(actor access.Principal, id uint) (*models.Alert, error)
	CountUnresolved(actor access.Principal, alertType models.AlertType) (int64, error)
}

type alertService struct {
	store *repository.Store
}

func NewAlertService(store *repository.Store) AlertService {
	return &alertService{store: store}
}

func (s *alertService) List(actor access.Principal, resolved *bool, limit int) ([]models.Alert, error) {
	if !actor.Can(access.ViewAlerts) {
		return nil, ErrForbidden
	}
	return s.store.Alerts.List(resolved, limit)
}

func (s *alertService) Resolve(actor access.Principal, id uint) (*models.Alert, error) {
	if !actor.Can(access.ResolveAlert) {
		return nil, ErrForbidden
	}

	alert, err := s.store.Alerts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert.Resolved {
		return alert, nil
	}

	alert.Resolved = true
	if err := s.store.Alerts.Update(alert); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"alert_id": alert.ID, "user": actor.Username}).Info("Alert resolved")
	return alert, nil
}

func (s *alertService) CountUnresolved(actor access.Principal, alertType models.AlertType) (int64, error) {
	if !actor.Can(access.ViewAlerts) {
		return 0, ErrForbidden
	}
	if alertType != "" && !alertType.Valid() {
		return 0, invalid("type", "must be one of stock, delay, info")
	}
	return s.store.Alerts.CountUnresolved(alertType)
}
