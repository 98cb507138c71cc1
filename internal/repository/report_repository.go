package repository

import (
	"workshop_manager/internal/models"

	"gorm.io/gorm"
)

// MechanicLoad is one mechanic with counts of the orders assigned to them.
type MechanicLoad struct {
	MechanicID uint   `json:"mechanic_id"`
	Name       string `json:"name"`
	Specialty  string `json:"specialty"`
	Available  bool   `json:"available"`
	Active     int64  `json:"active_orders"`
	Diagnosis  int64  `json:"diagnosis_orders"`
	InRepair   int64  `json:"in_repair_orders"`
}

// ZoneOccupancy is one work zone with the number of non-delivered orders in it.
type ZoneOccupancy struct {
	ZoneID      uint   `json:"zone_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      int64  `json:"active_orders"`
}

type ReportRepository interface {
	MechanicLoads(availableOnly bool) ([]MechanicLoad, error)
	ZoneOccupancy() ([]ZoneOccupancy, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) MechanicLoads(availableOnly bool) ([]MechanicLoad, error) {
	var loads []MechanicLoad
	query := r.db.Table("mechanics").
		Select(`mechanics.id AS mechanic_id, mechanics.name AS name, mechanics.specialty AS specialty, mechanics.available AS available,
			COALESCE(SUM(CASE WHEN work_orders.id IS NOT NULL AND work_orders.status <> ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN work_orders.status = ? THEN 1 ELSE 0 END), 0) AS diagnosis,
			COALESCE(SUM(CASE WHEN work_orders.status = ? THEN 1 ELSE 0 END), 0) AS in_repair`,
			models.StatusDelivered, models.StatusDiagnosis, models.StatusInRepair).
		Joins("LEFT JOIN work_orders ON work_orders.mechanic_id = mechanics.id")
	if availableOnly {
		query = query.Where("mechanics.available = ?", true)
	}
	err := query.
		Group("mechanics.id, mechanics.name, mechanics.specialty, mechanics.available").
		Order("mechanics.name ASC").
		Scan(&loads).Error
	return loads, err
}

func (r *reportRepository) ZoneOccupancy() ([]ZoneOccupancy, error) {
	var zones []ZoneOccupancy
	err := r.db.Table("work_zones").
		Select(`work_zones.id AS zone_id, work_zones.name AS name, work_zones.description AS description,
			COALESCE(SUM(CASE WHEN work_orders.id IS NOT NULL AND work_orders.status <> ? THEN 1 ELSE 0 END), 0) AS active`,
			models.StatusDelivered).
		Joins("LEFT JOIN work_orders ON work_orders.work_zone_id = work_zones.id").
		Group("work_zones.id, work_zones.name, work_zones.description").
		Order("work_zones.name ASC").
		Scan(&zones).Error
	return zones, err
}
