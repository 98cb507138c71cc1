package services

import (
	"errors"
	"strings"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
)

type MechanicInput struct {
	UserID    *uint  `json:"user_id"`
	Name      string `json:"name" binding:"required,max=100"`
	Specialty string `json:"specialty" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"max=15"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Available *bool  `json:"available"`
}

type WorkZoneInput struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

type StaffService interface {
	CreateMechanic(actor access.Principal, input MechanicInput) (*models.Mechanic, error)
	UpdateMechanic(actor access.Principal, id uint, input MechanicInput) (*models.Mechanic, error)
	ListMechanics(actor access.Principal, availableOnly bool) ([]models.Mechanic, error)
	CreateWorkZone(actor access.Principal, input WorkZoneInput) (*models.WorkZone, error)
	ListWorkZones(actor access.Principal) ([]models.WorkZone, error)
}

type staffService struct {
	store *repository.Store
}

func NewStaffService(store *repository.Store) StaffService {
	return &staffService{store: store}
}

func (s *staffService) CreateMechanic(actor access.Principal, input MechanicInput) (*models.Mechanic, error) {
	if !actor.Can(access.ManageStaff) {
		return nil, ErrForbidden
	}

	mechanic := &models.Mechanic{Available: true}
	if err := s.applyMechanic(mechanic, input); err != nil {
		return nil, err
	}
	if err := s.store.Mechanics.Create(mechanic); err != nil {
		return nil, err
	}
	return mechanic, nil
}

func (s *staffService) UpdateMechanic(actor access.Principal, id uint, input MechanicInput) (*models.Mechanic, error) {
	if !actor.Can(access.ManageStaff) {
		return nil, ErrForbidden
	}

	mechanic, err := s.store.Mechanics.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyMechanic(mechanic, input); err != nil {
		return nil, err
	}
	if err := s.store.Mechanics.Update(mechanic); err != nil {
		return nil, err
	}
	return mechanic, nil
}

func (s *staffService) applyMechanic(mechanic *models.Mechanic, input MechanicInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return invalid("name", "is required")
	}

	if input.UserID != nil {
		if _, err := s.store.Users.GetByID(*input.UserID); err != nil {
			return reference(err, "user_id")
		}
		linked, err := s.store.Mechanics.GetByUserID(*input.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if linked != nil && linked.ID != mechanic.ID {
			return invalid("user_id", "is already linked to mechanic #%d", linked.ID)
		}
	}

	var email *string
	if trimmed := strings.ToLower(strings.TrimSpace(input.Email)); trimmed != "" {
		taken, err := s.store.Mechanics.EmailTaken(trimmed, mechanic.ID)
		if err != nil {
			return err
		}
		if taken {
			return invalid("email", "is already used by another mechanic")
		}
		email = &trimmed
	}

	mechanic.UserID = input.UserID
	mechanic.Name = name
	mechanic.Specialty = strings.TrimSpace(input.Specialty)
	mechanic.Phone = strings.TrimSpace(input.Phone)
	mechanic.Email = email
	if input.Available != nil {
		mechanic.Available = *input.Available
	}
	return nil
}

func (s *staffService) ListMechanics(actor access.Principal, availableOnly bool) ([]models.Mechanic, error) {
	if !actor.Can(access.ViewOrders) {
		return nil, ErrForbidden
	}
	return s.store.Mechanics.List(availableOnly)
}

func (s *staffService) CreateWorkZone(actor access.Principal, input WorkZoneInput) (*models.WorkZone, error) {
	if !actor.Can(access.ManageStaff) {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	zone := &models.WorkZone{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.store.WorkZones.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *staffService) ListWorkZones(actor access.Principal) ([]models.WorkZone, error) {
	if !actor.Can(access.ViewOrders) {
		return nil, ErrForbidden
	}
	return s.store.WorkZones.List()
}
