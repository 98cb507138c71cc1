package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one database handle. A Store
// obtained inside Transaction sees only that transaction.
type Store struct {
	db *gorm.DB

	Users      UserRepository
	Customers  CustomerRepository
	Vehicles   VehicleRepository
	Mechanics  MechanicRepository
	WorkZones  WorkZoneRepository
	WorkOrders WorkOrderRepository
	Parts      PartRepository
	LogEntries LogEntryRepository
	Budgets    BudgetRepository
	Alerts     AlertRepository
	Reports    ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Customers:  NewCustomerRepository(db),
		Vehicles:   NewVehicleRepository(db),
		Mechanics:  NewMechanicRepository(db),
		WorkZones:  NewWorkZoneRepository(db),
		WorkOrders: NewWorkOrderRepository(db),
		Parts:      NewPartRepository(db),
		LogEntries: NewLogEntryRepository(db),
		Budgets:    NewBudgetRepository(db),
		Alerts:     NewAlertRepository(db),
		Reports:    NewReportRepository(db),
	}
}

// Transaction runs fn inside a single database transaction. Returning an
// error from fn rolls back every write made through the supplied Store.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func likePattern(search string) string {
	return "%" + search + "%"
}
