package models

import (
	"time"
)

type WorkOrder struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	CustomerID         uint            `json:"customer_id" gorm:"not null;index"`
	Customer           *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	VehicleID          uint            `json:"vehicle_id" gorm:"not null;index"`
	Vehicle            *Vehicle        `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	MechanicID         *uint           `json:"mechanic_id" gorm:"index"`
	Mechanic           *Mechanic       `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
	WorkZoneID         *uint           `json:"work_zone_id" gorm:"index"`
	WorkZone           *WorkZone       `json:"work_zone,omitempty" gorm:"foreignKey:WorkZoneID"`
	ProblemDescription string          `json:"problem_description" gorm:"type:text;not null"`
	Status             WorkOrderStatus `json:"status" gorm:"size:20;not null;index"`
	Priority           Priority        `json:"priority" gorm:"size:10;not null"`
	ReceivedAt         time.Time       `json:"received_at" gorm:"not null;index"`
	EstimatedAt        *time.Time      `json:"estimated_at"`
	CompletedAt        *time.Time      `json:"completed_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	LogEntries         []LogEntry      `json:"log_entries,omitempty" gorm:"foreignKey:WorkOrderID"`
	Budgets            []Budget        `json:"budgets,omitempty" gorm:"foreignKey:WorkOrderID"`
}

// WorkOrderStatus is the lifecycle position of a work order. Any status may be
// set explicitly; only received -> diagnosis happens on its own.
type WorkOrderStatus string

const (
	StatusReceived       WorkOrderStatus = "received"
	StatusDiagnosis      WorkOrderStatus = "diagnosis"
	StatusAwaitingParts  WorkOrderStatus = "awaiting_parts"
	StatusInRepair       WorkOrderStatus = "in_repair"
	StatusReadyForPickup WorkOrderStatus = "ready_for_pickup"
	StatusDelivered      WorkOrderStatus = "delivered"
)

// WorkOrderStatuses lists every status in lifecycle order.
var WorkOrderStatuses = []WorkOrderStatus{
	StatusReceived,
	StatusDiagnosis,
	StatusAwaitingParts,
	StatusInRepair,
	StatusReadyForPickup,
	StatusDelivered,
}

var statusLabels = map[WorkOrderStatus]string{
	StatusReceived:       "Received",
	StatusDiagnosis:      "In diagnosis",
	StatusAwaitingParts:  "Awaiting parts",
	StatusInRepair:       "In repair",
	StatusReadyForPickup: "Ready for pickup",
	StatusDelivered:      "Delivered",
}

func (s WorkOrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s WorkOrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether the order has left the shop.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == StatusDelivered
}

// IsDone reports whether no further work is expected on the vehicle.
func (s WorkOrderStatus) IsDone() bool {
	return s == StatusReadyForPickup || s == StatusDelivered
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// HasAssignment reports whether a mechanic or a work zone is set.
func (o *WorkOrder) HasAssignment() bool {
	return o.MechanicID != nil || o.WorkZoneID != nil
}

// IsAssignedTo reports whether mechanicID is the assigned mechanic.
func (o *WorkOrder) IsAssignedTo(mechanicID uint) bool {
	return o.MechanicID != nil && *o.MechanicID == mechanicID
}

// Plate returns the vehicle plate when the vehicle is loaded.
func (o *WorkOrder) Plate() string {
	if o.Vehicle == nil {
		return ""
	}
	return o.Vehicle.Plate
}
