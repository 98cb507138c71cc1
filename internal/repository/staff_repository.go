package repository

import (
	"strings"
	"workshop_manager/internal/models"

	"gorm.io/gorm"
)

type MechanicRepository interface {
	Create(mechanic *models.Mechanic) error
	GetByID(id uint) (*models.Mechanic, error)
	GetByUserID(userID uint) (*models.Mechanic, error)
	Update(mechanic *models.Mechanic) error
	List(availableOnly bool) ([]models.Mechanic, error)
	EmailTaken(email string, excludeID uint) (bool, error)
}

type mechanicRepository struct {
	db *gorm.DB
}

func NewMechanicRepository(db *gorm.DB) MechanicRepository {
	return &mechanicRepository{db: db}
}

func (r *mechanicRepository) Create(mechanic *models.Mechanic) error {
	return r.db.Create(mechanic).Error
}

func (r *mechanicRepository) GetByID(id uint) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.db.First(&mechanic, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &mechanic, nil
}

func (r *mechanicRepository) GetByUserID(userID uint) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.db.Where("user_id = ?", userID).First(&mechanic).Error
	if err != nil {
		return nil, translate(err)
	}
	return &mechanic, nil
}

func (r *mechanicRepository) Update(mechanic *models.Mechanic) error {
	return r.db.Save(mechanic).Error
}

func (r *mechanicRepository) List(availableOnly bool) ([]models.Mechanic, error) {
	var mechanics []models.Mechanic
	query := r.db.Model(&models.Mechanic{})
	if availableOnly {
		query = query.Where("available = ?", true)
	}
	err := query.Order("name ASC").Find(&mechanics).Error
	return mechanics, err
}

func (r *mechanicRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Mechanic{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

type WorkZoneRepository interface {
	Create(zone *models.WorkZone) error
	GetByID(id uint) (*models.WorkZone, error)
	List() ([]models.WorkZone, error)
}

type workZoneRepository struct {
	db *gorm.DB
}

func NewWorkZoneRepository(db *gorm.DB) WorkZoneRepository {
	return &workZoneRepository{db: db}
}

func (r *workZoneRepository) Create(zone *models.WorkZone) error {
	return r.db.Create(zone).Error
}

func (r *workZoneRepository) GetByID(id uint) (*models.WorkZone, error) {
	var zone models.WorkZone
	err := r.db.First(&zone, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &zone, nil
}

func (r *workZoneRepository) List() ([]models.WorkZone, error) {
	var zones []models.WorkZone
	err := r.db.Order("name ASC").Find(&zones).Error
	return zones, err
}
