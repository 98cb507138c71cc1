// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
	"workshop_manager/internal/database"
	"workshop_manager/internal/models"
	"workshop_manager/internal/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:workshop_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// NewRedis starts an in-process Redis server and returns a client for it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redis.NewFromClient(rdb), server
}

// Fixtures creates rows directly, bypassing services and rules.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

func (f *Fixtures) Customer() *models.Customer {
	f.t.Helper()
	n := f.next()
	customer := &models.Customer{Name: fmt.Sprintf("Ana%d", n), Surname: "Rojas", Phone: "+56911112222"}
	require.NoError(f.t, f.db.Create(customer).Error)
	return customer
}

func (f *Fixtures) Vehicle(customer *models.Customer) *models.Vehicle {
	f.t.Helper()
	n := f.next()
	vehicle := &models.Vehicle{
		CustomerID: customer.ID,
		Plate:      fmt.Sprintf("AB%04d", n),
		Make:       "Toyota",
		Model:      "Corolla",
		Year:       2018,
	}
	require.NoError(f.t, f.db.Create(vehicle).Error)
	return vehicle
}

func (f *Fixtures) Mechanic(userID *uint) *models.Mechanic {
	f.t.Helper()
	n := f.next()
	mechanic := &models.Mechanic{UserID: userID, Name: fmt.Sprintf("Carlos%d", n), Specialty: "Engines", Available: true}
	require.NoError(f.t, f.db.Create(mechanic).Error)
	return mechanic
}

func (f *Fixtures) Zone() *models.WorkZone {
	f.t.Helper()
	zone := &models.WorkZone{Name: fmt.Sprintf("Bay %d", f.next())}
	require.NoError(f.t, f.db.Create(zone).Error)
	return zone
}

// Order creates a received order for a fresh customer and vehicle.
func (f *Fixtures) Order(mechanicID *uint) *models.WorkOrder {
	f.t.Helper()
	customer := f.Customer()
	vehicle := f.Vehicle(customer)
	order := &models.WorkOrder{
		CustomerID:         customer.ID,
		VehicleID:          vehicle.ID,
		MechanicID:         mechanicID,
		ProblemDescription: "Engine noise",
		Status:             models.StatusReceived,
		Priority:           models.PriorityMedium,
		ReceivedAt:         time.Now(),
	}
	require.NoError(f.t, f.db.Omit("Customer", "Vehicle", "Mechanic", "WorkZone").Create(order).Error)
	order.Customer = customer
	order.Vehicle = vehicle
	return order
}

func (f *Fixtures) Part(stock, minimum int, price string) *models.Part {
	f.t.Helper()
	n := f.next()
	code := fmt.Sprintf("P-%03d", n)
	part := &models.Part{
		Name:         fmt.Sprintf("Filter %d", n),
		Code:         &code,
		CurrentStock: stock,
		MinimumStock: minimum,
		SalePrice:    decimal.RequireFromString(price),
	}
	require.NoError(f.t, f.db.Create(part).Error)
	return part
}

// Alerts returns every alert row, oldest first.
func (f *Fixtures) Alerts() []models.Alert {
	f.t.Helper()
	var alerts []models.Alert
	require.NoError(f.t, f.db.Order("id ASC").Find(&alerts).Error)
	return alerts
}

// Reload reads a part's current row.
func (f *Fixtures) Reload(part *models.Part) *models.Part {
	f.t.Helper()
	var fresh models.Part
	require.NoError(f.t, f.db.First(&fresh, part.ID).Error)
	return &fresh
}
