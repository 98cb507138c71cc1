package models

import (
	"time"
)

// Alert is a system generated notice. Alerts are only created by the rules
// engine; users may resolve them.
type Alert struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	WorkOrderID *uint       `json:"work_order_id" gorm:"index"`
	PartID      *uint       `json:"part_id" gorm:"index"`
	Type        AlertType   `json:"type" gorm:"size:10;not null;index"`
	Reason      AlertReason `json:"reason" gorm:"size:30;not null;index"`
	Message     string      `json:"message" gorm:"size:255;not null"`
	Resolved    bool        `json:"resolved" gorm:"not null;default:false;index"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AlertType string

const (
	AlertStock AlertType = "stock"
	AlertDelay AlertType = "delay"
	AlertInfo  AlertType = "info"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertStock, AlertDelay, AlertInfo:
		return true
	default:
		return false
	}
}

// AlertReason discriminates alerts of the same type so duplicates can be
// detected without inspecting the message text.
type AlertReason string

const (
	ReasonOrderCreated   AlertReason = "order_created"
	ReasonReadyForPickup AlertReason = "ready_for_pickup"
	ReasonOrderDelayed   AlertReason = "order_delayed"
	ReasonLowStock       AlertReason = "low_stock"
)
