package repository

import (
	"strings"
	"workshop_manager/internal/models"

	"gorm.io/gorm"
)

type PartRepository interface {
	Create(part *models.Part) error
	GetByID(id uint) (*models.Part, error)
	Update(part *models.Part) error
	List(search string, lowStockOnly bool) ([]models.Part, error)
	CodeTaken(code string, excludeID uint) (bool, error)
	DecrementIfSufficient(id uint, quantity int) (bool, error)
	Increment(id uint, quantity int) error
}

type partRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(part *models.Part) error {
	return r.db.Create(part).Error
}

func (r *partRepository) GetByID(id uint) (*models.Part, error) {
	var part models.Part
	err := r.db.First(&part, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &part, nil
}

func (r *partRepository) Update(part *models.Part) error {
	return r.db.Save(part).Error
}

func (r *partRepository) List(search string, lowStockOnly bool) ([]models.Part, error) {
	var parts []models.Part
	query := r.db.Model(&models.Part{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if lowStockOnly {
		query = query.Where("current_stock <= minimum_stock")
	}
	err := query.Order("name ASC").Find(&parts).Error
	return parts, err
}

func (r *partRepository) CodeTaken(code string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Part{}).Where("code = ? AND id <> ?", code, excludeID).Count(&count).Error
	return count > 0, err
}

// DecrementIfSufficient subtracts quantity from the part's stock in a single
// conditional UPDATE. It reports false, without writing, when the stock is
// lower than quantity, so concurrent deductions can never drive it negative.
func (r *partRepository) DecrementIfSufficient(id uint, quantity int) (bool, error) {
	result := r.db.Model(&models.Part{}).
		Where("id = ? AND current_stock >= ?", id, quantity).
		Update("current_stock", gorm.Expr("current_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *partRepository) Increment(id uint, quantity int) error {
	result := r.db.Model(&models.Part{}).
		Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
