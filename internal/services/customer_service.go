package services

import (
	"strings"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
)

type CustomerInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Surname string `json:"surname" binding:"required,max=100"`
	Phone   string `json:"phone" binding:"max=15"`
	Email   string `json:"email" binding:"omitempty,email,max=100"`
	Address string `json:"address" binding:"max=200"`
}

type VehicleInput struct {
	CustomerID   uint   `json:"customer_id" binding:"required"`
	Plate        string `json:"plate" binding:"required,max=10"`
	Make         string `json:"make" binding:"required,max=50"`
	Model        string `json:"model" binding:"required,max=50"`
	Year         int    `json:"year" binding:"required"`
	Color        string `json:"color" binding:"max=30"`
	EngineNumber string `json:"engine_number" binding:"max=50"`
}

type CustomerService interface {
	CreateCustomer(actor access.Principal, input CustomerInput) (*models.Customer, error)
	UpdateCustomer(actor access.Principal, id uint, input CustomerInput) (*models.Customer, error)
	GetCustomer(actor access.Principal, id uint) (*models.Customer, error)
	ListCustomers(actor access.Principal, search string) ([]models.Customer, error)

	CreateVehicle(actor access.Principal, input VehicleInput) (*models.Vehicle, error)
	UpdateVehicle(actor access.Principal, id uint, input VehicleInput) (*models.Vehicle, error)
	GetVehicle(actor access.Principal, id uint) (*models.Vehicle, error)
	ListVehicles(actor access.Principal, customerID *uint, search string) ([]models.Vehicle, error)
}

type customerService struct {
	store *repository.Store
}

func NewCustomerService(store *repository.Store) CustomerService {
	return &customerService{store: store}
}

func (s *customerService) CreateCustomer(actor access.Principal, input CustomerInput) (*models.Customer, error) {
	if !actor.Can(access.ManageCustomers) {
		return nil, ErrForbidden
	}

	customer := &models.Customer{}
	if err := s.applyCustomer(customer, input); err != nil {
		return nil, err
	}
	if err := s.store.Customers.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(actor access.Principal, id uint, input CustomerInput) (*models.Customer, error) {
	if !actor.Can(access.ManageCustomers) {
		return nil, ErrForbidden
	}

	customer, err := s.store.Customers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCustomer(customer, input); err != nil {
		return nil, err
	}
	customer.Vehicles = nil
	if err := s.store.Customers.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) applyCustomer(customer *models.Customer, input CustomerInput) error {
	name := strings.TrimSpace(input.Name)
	surname := strings.TrimSpace(input.Surname)
	if name == "" {
		return invalid("name", "is required")
	}
	if surname == "" {
		return invalid("surname", "is required")
	}

	var email *string
	if trimmed := strings.ToLower(strings.TrimSpace(input.Email)); trimmed != "" {
		taken, err := s.store.Customers.EmailTaken(trimmed, customer.ID)
		if err != nil {
			return err
		}
		if taken {
			return invalid("email", "is already registered to another customer")
		}
		email = &trimmed
	}

	customer.Name = name
	customer.Surname = surname
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = email
	customer.Address = strings.TrimSpace(input.Address)
	return nil
}

func (s *customerService) GetCustomer(actor access.Principal, id uint) (*models.Customer, error) {
	if !actor.Can(access.ViewCustomers) {
		return nil, ErrForbidden
	}
	return s.store.Customers.GetByID(id)
}

func (s *customerService) ListCustomers(actor access.Principal, search string) ([]models.Customer, error) {
	if !actor.Can(access.ViewCustomers) {
		return nil, ErrForbidden
	}
	return s.store.Customers.List(search)
}

func (s *customerService) CreateVehicle(actor access.Principal, input VehicleInput) (*models.Vehicle, error) {
	if !actor.Can(access.ManageCustomers) {
		return nil, ErrForbidden
	}

	vehicle := &models.Vehicle{}
	if err := s.applyVehicle(vehicle, input); err != nil {
		return nil, err
	}
	if err := s.store.Vehicles.Create(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *customerService) UpdateVehicle(actor access.Principal, id uint, input VehicleInput) (*models.Vehicle, error) {
	if !actor.Can(access.ManageCustomers) {
		return nil, ErrForbidden
	}

	vehicle, err := s.store.Vehicles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyVehicle(vehicle, input); err != nil {
		return nil, err
	}
	vehicle.Customer = nil
	if err := s.store.Vehicles.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *customerService) applyVehicle(vehicle *models.Vehicle, input VehicleInput) error {
	plate := strings.ToUpper(strings.TrimSpace(input.Plate))
	if plate == "" {
		return invalid("plate", "is required")
	}
	if maxYear := time.Now().Year() + 1; input.Year < 1900 || input.Year > maxYear {
		return invalid("year", "must be between 1900 and %d", maxYear)
	}
	if _, err := s.store.Customers.GetByID(input.CustomerID); err != nil {
		return reference(err, "customer_id")
	}

	taken, err := s.store.Vehicles.PlateTaken(plate, vehicle.ID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("plate", "is already registered")
	}

	vehicle.CustomerID = input.CustomerID
	vehicle.Plate = plate
	vehicle.Make = strings.TrimSpace(input.Make)
	vehicle.Model = strings.TrimSpace(input.Model)
	vehicle.Year = input.Year
	vehicle.Color = strings.TrimSpace(input.Color)
	vehicle.EngineNumber = strings.TrimSpace(input.EngineNumber)
	return nil
}

func (s *customerService) GetVehicle(actor access.Principal, id uint) (*models.Vehicle, error) {
	if !actor.Can(access.ViewCustomers) {
		return nil, ErrForbidden
	}
	return s.store.Vehicles.GetByID(id)
}

func (s *customerService) ListVehicles(actor access.Principal, customerID *uint, search string) ([]models.Vehicle, error) {
	if !actor.Can(access.ViewCustomers) {
		return nil, ErrForbidden
	}
	return s.store.Vehicles.List(customerID, search)
}
