package repository

import (
	"strings"
	"workshop_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	Update(customer *models.Customer) error
	List(search string) ([]models.Customer, error)
	EmailTaken(email string, excludeID uint) (bool, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Omit(clause.Associations).Create(customer).Error
}

func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Preload("Vehicles").First(&customer, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Omit(clause.Associations).Save(customer).Error
}

func (r *customerRepository) List(search string) ([]models.Customer, error) {
	var customers []models.Customer
	query := r.db.Model(&models.Customer{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	err := query.Order("surname ASC, name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

type VehicleRepository interface {
	Create(vehicle *models.Vehicle) error
	GetByID(id uint) (*models.Vehicle, error)
	Update(vehicle *models.Vehicle) error
	List(customerID *uint, search string) ([]models.Vehicle, error)
	PlateTaken(plate string, excludeID uint) (bool, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(vehicle *models.Vehicle) error {
	return r.db.Omit(clause.Associations).Create(vehicle).Error
}

func (r *vehicleRepository) GetByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Preload("Customer").First(&vehicle, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) Update(vehicle *models.Vehicle) error {
	return r.db.Omit(clause.Associations).Save(vehicle).Error
}

func (r *vehicleRepository) List(customerID *uint, search string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	query := r.db.Preload("Customer")
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where("LOWER(plate) LIKE ? OR LOWER(make) LIKE ? OR LOWER(model) LIKE ?", pattern, pattern, pattern)
	}
	err := query.Order("plate ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) PlateTaken(plate string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vehicle{}).
		Where("UPPER(plate) = ? AND id <> ?", strings.ToUpper(plate), excludeID).
		Count(&count).Error
	return count > 0, err
}
