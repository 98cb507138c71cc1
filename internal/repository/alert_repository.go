package repository

import (
	"workshop_manager/internal/models"

	"gorm.io/gorm"
)

// AlertKey identifies an alert by what it is about rather than by its text.
type AlertKey struct {
	WorkOrderID *uint
	PartID      *uint
	Type        models.AlertType
	Reason      models.AlertReason
}

type AlertRepository interface {
	Create(alert *models.Alert) error
	GetByID(id uint) (*models.Alert, error)
	Update(alert *models.Alert) error
	List(resolved *bool, limit int) ([]models.Alert, error)
	ListByOrder(orderID uint) ([]models.Alert, error)
	ExistsUnresolved(key AlertKey) (bool, error)
	CountUnresolved(alertType models.AlertType) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepository) GetByID(id uint) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.First(&alert, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}

func (r *alertRepository) Update(alert *models.Alert) error {
	return r.db.Save(alert).Error
}

func (r *alertRepository) List(resolved *bool, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	query := r.db.Model(&models.Alert{})
	if resolved != nil {
		query = query.Where("resolved = ?", *resolved)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC, id DESC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) ListByOrder(orderID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.Where("work_order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) ExistsUnresolved(key AlertKey) (bool, error) {
	query := r.db.Model(&models.Alert{}).
		Where("resolved = ? AND type = ? AND reason = ?", false, key.Type, key.Reason)
	if key.WorkOrderID != nil {
		query = query.Where("work_order_id = ?", *key.WorkOrderID)
	} else {
		query = query.Where("work_order_id IS NULL")
	}
	if key.PartID != nil {
		query = query.Where("part_id = ?", *key.PartID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUnresolved counts open alerts, optionally restricted to one type.
func (r *alertRepository) CountUnresolved(alertType models.AlertType) (int64, error) {
	query := r.db.Model(&models.Alert{}).Where("resolved = ?", false)
	if alertType != "" {
		query = query.Where("type = ?", alertType)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
