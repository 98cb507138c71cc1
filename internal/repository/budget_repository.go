package repository

import (
	"workshop_manager/internal/models"

	"gorm.io/gorm"
)

type BudgetRepository interface {
	Create(budget *models.Budget) error
	GetByID(id uint) (*models.Budget, error)
	Update(budget *models.Budget) error
	ListByOrder(orderID uint) ([]models.Budget, error)
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(budget *models.Budget) error {
	return r.db.Create(budget).Error
}

func (r *budgetRepository) GetByID(id uint) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.First(&budget, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &budget, nil
}

func (r *budgetRepository) Update(budget *models.Budget) error {
	return r.db.Save(budget).Error
}

func (r *budgetRepository) ListByOrder(orderID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.Where("work_order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&budgets).Error
	return budgets, err
}
