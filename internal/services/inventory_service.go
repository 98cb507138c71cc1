package services

import (
	"strings"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type PartInput struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Brand        string          `json:"brand" binding:"max=50"`
	Code         string          `json:"code" binding:"max=50"`
	Description  string          `json:"description"`
	CurrentStock int             `json:"current_stock" binding:"min=0"`
	MinimumStock int             `json:"minimum_stock" binding:"min=0"`
	SalePrice    decimal.Decimal `json:"sale_price"`
}

type PartView struct {
	models.Part
	LowStock bool `json:"low_stock"`
}

type InventoryService interface {
	ListParts(actor access.Principal, search string, lowStockOnly bool) ([]PartView, error)
	GetPart(actor access.Principal, id uint) (*PartView, error)
	CreatePart(actor access.Principal, input PartInput) (*PartView, error)
	UpdatePart(actor access.Principal, id uint, input PartInput) (*PartView, error)
	Restock(actor access.Principal, id uint, quantity int) (*PartView, error)
}

type inventoryService struct {
	store *repository.Store
}

func NewInventoryService(store *repository.Store) InventoryService {
	return &inventoryService{store: store}
}

func partView(part *models.Part) *PartView {
	return &PartView{Part: *part, LowStock: part.IsLowStock()}
}

func (s *inventoryService) ListParts(actor access.Principal, search string, lowStockOnly bool) ([]PartView, error) {
	if !actor.Can(access.ViewInventory) {
		return nil, ErrForbidden
	}
	parts, err := s.store.Parts.List(search, lowStockOnly)
	if err != nil {
		return nil, err
	}
	views := make([]PartView, 0, len(parts))
	for i := range parts {
		views = append(views, *partView(&parts[i]))
	}
	return views, nil
}

func (s *inventoryService) GetPart(actor access.Principal, id uint) (*PartView, error) {
	if !actor.Can(access.ViewInventory) {
		return nil, ErrForbidden
	}
	part, err := s.store.Parts.GetByID(id)
	if err != nil {
		return nil, err
	}
	return partView(part), nil
}

func (s *inventoryService) CreatePart(actor access.Principal, input PartInput) (*PartView, error) {
	if !actor.Can(access.ManageInventory) {
		return nil, ErrForbidden
	}
	part := &models.Part{}
	if err := s.applyPart(part, input); err != nil {
		return nil, err
	}
	if err := s.store.Parts.Create(part); err != nil {
		return nil, err
	}
	return partView(part), nil
}

func (s *inventoryService) UpdatePart(actor access.Principal, id uint, input PartInput) (*PartView, error) {
	if !actor.Can(access.ManageInventory) {
		return nil, ErrForbidden
	}
	part, err := s.store.Parts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPart(part, input); err != nil {
		return nil, err
	}
	if err := s.store.Parts.Update(part); err != nil {
		return nil, err
	}
	return partView(part), nil
}

func (s *inventoryService) applyPart(part *models.Part, input PartInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	if input.CurrentStock < 0 {
		return invalid("current_stock", "must not be negative")
	}
	if input.MinimumStock < 0 {
		return invalid("minimum_stock", "must not be negative")
	}
	if err := checkMoney("sale_price", input.SalePrice); err != nil {
		return err
	}

	var code *string
	if trimmed := strings.TrimSpace(input.Code); trimmed != "" {
		taken, err := s.store.Parts.CodeTaken(trimmed, part.ID)
		if err != nil {
			return err
		}
		if taken {
			return invalid("code", "is already used by another part")
		}
		code = &trimmed
	}

	part.Name = name
	part.Brand = strings.TrimSpace(input.Brand)
	part.Code = code
	part.Description = strings.TrimSpace(input.Description)
	part.CurrentStock = input.CurrentStock
	part.MinimumStock = input.MinimumStock
	part.SalePrice = input.SalePrice.Round(2)
	return nil
}

func (s *inventoryService) Restock(actor access.Principal, id uint, quantity int) (*PartView, error) {
	if !actor.Can(access.ManageInventory) {
		return nil, ErrForbidden
	}
	if quantity <= 0 {
		return nil, invalid("quantity", "must be greater than zero")
	}
	if err := s.store.Parts.Increment(id, quantity); err != nil {
		return nil, err
	}

	part, err := s.store.Parts.GetByID(id)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"part_id":       part.ID,
		"added":         quantity,
		"current_stock": part.CurrentStock,
	}).Info("Part restocked")
	return partView(part), nil
}
