package repository

import (
	"strings"
	"workshop_manager/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkOrderFilter narrows a work order listing. Zero values mean "any".
type WorkOrderFilter struct {
	Status        models.WorkOrderStatus
	Priority      models.Priority
	MechanicID    *uint
	Search        string
	ExcludeStatus models.WorkOrderStatus
	Unassigned    bool
	Limit         int
	Scope         OrderScope
}

// OrderScope restricts which orders a caller may see.
type OrderScope struct {
	// MechanicID limits results to orders assigned to this mechanic.
	MechanicID *uint
	// None hides every order.
	None bool
}

type WorkOrderRepository interface {
	Create(order *models.WorkOrder) error
	GetByID(id uint) (*models.WorkOrder, error)
	GetDetail(id uint) (*models.WorkOrder, error)
	Save(order *models.WorkOrder) error
	List(filter WorkOrderFilter) ([]models.WorkOrder, error)
	CountByStatus(scope OrderScope) (map[models.WorkOrderStatus]int64, error)
	ListByStatuses(statuses []models.WorkOrderStatus) ([]models.WorkOrder, error)
}

type workOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) Create(order *models.WorkOrder) error {
	return r.db.Omit(clause.Associations).Create(order).Error
}

func (r *workOrderRepository) GetByID(id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.withRelations(r.db).First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *workOrderRepository) GetDetail(id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.withRelations(r.db).
		Preload("LogEntries", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC, id DESC")
		}).
		Preload("LogEntries.Mechanic").
		Preload("LogEntries.PartUsages").
		Preload("LogEntries.PartUsages.Part").
		Preload("Budgets", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *workOrderRepository) Save(order *models.WorkOrder) error {
	return r.db.Omit(clause.Associations).Save(order).Error
}

func (r *workOrderRepository) List(filter WorkOrderFilter) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	if filter.Scope.None {
		return orders, nil
	}

	query := r.withRelations(r.db.Model(&models.WorkOrder{}))
	query = applyScope(query, filter.Scope)

	if filter.Status != "" {
		query = query.Where("work_orders.status = ?", filter.Status)
	}
	if filter.ExcludeStatus != "" {
		query = query.Where("work_orders.status <> ?", filter.ExcludeStatus)
	}
	if filter.Priority != "" {
		query = query.Where("work_orders.priority = ?", filter.Priority)
	}
	if filter.MechanicID != nil {
		query = query.Where("work_orders.mechanic_id = ?", *filter.MechanicID)
	}
	if filter.Unassigned {
		query = query.Where("work_orders.mechanic_id IS NULL")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.
			Joins("JOIN vehicles ON vehicles.id = work_orders.vehicle_id").
			Joins("JOIN customers ON customers.id = work_orders.customer_id").
			Where(
				"LOWER(vehicles.plate) LIKE ? OR LOWER(customers.name) LIKE ? OR LOWER(customers.surname) LIKE ? OR CAST(work_orders.id AS TEXT) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("work_orders.received_at DESC, work_orders.id DESC").Find(&orders).Error
	return orders, err
}

func (r *workOrderRepository) CountByStatus(scope OrderScope) (map[models.WorkOrderStatus]int64, error) {
	counts := make(map[models.WorkOrderStatus]int64, len(models.WorkOrderStatuses))
	for _, status := range models.WorkOrderStatuses {
		counts[status] = 0
	}
	if scope.None {
		return counts, nil
	}

	var rows []struct {
		Status models.WorkOrderStatus
		Count  int64
	}
	query := applyScope(r.db.Model(&models.WorkOrder{}), scope)
	err := query.Select("work_orders.status AS status, COUNT(*) AS count").
		Group("work_orders.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *workOrderRepository) ListByStatuses(statuses []models.WorkOrderStatus) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.withRelations(r.db).
		Where("status IN ?", statuses).
		Order("estimated_at IS NULL, estimated_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *workOrderRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Vehicle").Preload("Mechanic").Preload("WorkZone")
}

func applyScope(query *gorm.DB, scope OrderScope) *gorm.DB {
	if scope.MechanicID != nil {
		query = query.Where("work_orders.mechanic_id = ?", *scope.MechanicID)
	}
	return query
}
