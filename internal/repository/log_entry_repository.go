package repository

import (
	"workshop_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogEntryRepository interface {
	Create(entry *models.LogEntry) error
	CreateUsage(usage *models.PartUsage) error
	ListByOrder(orderID uint) ([]models.LogEntry, error)
	UsagesByOrder(orderID uint) ([]models.PartUsage, error)
}

type logEntryRepository struct {
	db *gorm.DB
}

func NewLogEntryRepository(db *gorm.DB) LogEntryRepository {
	return &logEntryRepository{db: db}
}

// Create stores the entry alone; part usages go through CreateUsage so that
// each one can trigger its stock rules.
func (r *logEntryRepository) Create(entry *models.LogEntry) error {
	return r.db.Omit(clause.Associations).Create(entry).Error
}

func (r *logEntryRepository) CreateUsage(usage *models.PartUsage) error {
	return r.db.Omit(clause.Associations).Create(usage).Error
}

func (r *logEntryRepository) ListByOrder(orderID uint) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	err := r.db.Preload("Mechanic").
		Preload("PartUsages").
		Preload("PartUsages.Part").
		Where("work_order_id = ?", orderID).
		Order("date DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// UsagesByOrder returns every part usage logged against the order, oldest first.
func (r *logEntryRepository) UsagesByOrder(orderID uint) ([]models.PartUsage, error) {
	var usages []models.PartUsage
	err := r.db.Preload("Part").
		Joins("JOIN log_entries ON log_entries.id = part_usages.log_entry_id").
		Where("log_entries.work_order_id = ?", orderID).
		Order("part_usages.id ASC").
		Find(&usages).Error
	return usages, err
}
