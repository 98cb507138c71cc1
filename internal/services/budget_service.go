package services

import (
	"strings"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	"github.com/shopspring/decimal"
)

type BudgetInput struct {
	Description string              `json:"description" binding:"required"`
	LaborCost   decimal.Decimal     `json:"labor_cost"`
	PartsCost   decimal.Decimal     `json:"parts_cost"`
	Status      models.BudgetStatus `json:"status"`
}

var maxMoney = decimal.RequireFromString("99999999.99")

type BudgetService interface {
	Create(actor access.Principal, orderID uint, input BudgetInput) (*BudgetView, error)
	Update(actor access.Principal, id uint, input BudgetInput) (*BudgetView, error)
	ListByOrder(actor access.Principal, orderID uint) ([]BudgetView, error)
}

type budgetService struct {
	store *repository.Store
}

func NewBudgetService(store *repository.Store) BudgetService {
	return &budgetService{store: store}
}

// Create attaches a new budget to an order. Only callers who may edit
// budgets can choose a status other than pending.
func (s *budgetService) Create(actor access.Principal, orderID uint, input BudgetInput) (*BudgetView, error) {
	if !actor.Can(access.CreateBudget) {
		return nil, ErrForbidden
	}
	if _, err := s.store.WorkOrders.GetByID(orderID); err != nil {
		return nil, err
	}
	if input.Status == "" || !actor.Can(access.EditBudget) {
		input.Status = models.BudgetPending
	}

	budget := &models.Budget{WorkOrderID: orderID}
	if err := applyBudget(budget, input); err != nil {
		return nil, err
	}
	if err := s.store.Budgets.Create(budget); err != nil {
		return nil, err
	}
	view := budgetViews([]models.Budget{*budget})[0]
	return &view, nil
}

func (s *budgetService) Update(actor access.Principal, id uint, input BudgetInput) (*BudgetView, error) {
	if !actor.Can(access.EditBudget) {
		return nil, ErrForbidden
	}

	budget, err := s.store.Budgets.GetByID(id)
	if err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = budget.Status
	}
	if err := applyBudget(budget, input); err != nil {
		return nil, err
	}
	if err := s.store.Budgets.Update(budget); err != nil {
		return nil, err
	}
	view := budgetViews([]models.Budget{*budget})[0]
	return &view, nil
}

func applyBudget(budget *models.Budget, input BudgetInput) error {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return invalid("description", "is required")
	}
	if !input.Status.Valid() {
		return invalid("status", "must be one of pending, approved, rejected")
	}
	if err := checkMoney("labor_cost", input.LaborCost); err != nil {
		return err
	}
	if err := checkMoney("parts_cost", input.PartsCost); err != nil {
		return err
	}

	budget.Description = description
	budget.LaborCost = input.LaborCost.Round(2)
	budget.PartsCost = input.PartsCost.Round(2)
	budget.Status = input.Status
	return nil
}

// checkMoney enforces the decimal(10,2) column range.
func checkMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if amount.GreaterThan(maxMoney) {
		return invalid(field, "exceeds the maximum amount")
	}
	return nil
}

func (s *budgetService) ListByOrder(actor access.Principal, orderID uint) ([]BudgetView, error) {
	order, err := s.store.WorkOrders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSeeOrder(order) {
		return nil, ErrForbidden
	}
	budgets, err := s.store.Budgets.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	return budgetViews(budgets), nil
}
