package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Part struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	Brand        string          `json:"brand" gorm:"size:50"`
	Code         *string         `json:"code" gorm:"size:50;uniqueIndex"`
	Description  string          `json:"description" gorm:"type:text"`
	CurrentStock int             `json:"current_stock" gorm:"not null;check:chk_parts_current_stock,current_stock >= 0"`
	MinimumStock int             `json:"minimum_stock" gorm:"not null"`
	SalePrice    decimal.Decimal `json:"sale_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the part is at or below its restock threshold.
func (p *Part) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

func (p *Part) CodeOrEmpty() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

// LogEntry is a mechanic's record of work done on an order.
type LogEntry struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	WorkOrderID uint        `json:"work_order_id" gorm:"not null;index"`
	MechanicID  uint        `json:"mechanic_id" gorm:"not null;index"`
	Mechanic    *Mechanic   `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
	Date        time.Time   `json:"date" gorm:"not null"`
	Procedures  string      `json:"procedures" gorm:"type:text;not null"`
	Notes       string      `json:"notes" gorm:"type:text"`
	PartUsages  []PartUsage `json:"part_usages,omitempty" gorm:"foreignKey:LogEntryID"`
	CreatedAt   time.Time   `json:"created_at"`
}

type PartUsage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	LogEntryID uint      `json:"log_entry_id" gorm:"not null;uniqueIndex:idx_part_usage_entry_part"`
	PartID     uint      `json:"part_id" gorm:"not null;uniqueIndex:idx_part_usage_entry_part"`
	Part       *Part     `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Quantity   int       `json:"quantity" gorm:"not null;check:chk_part_usages_quantity,quantity > 0"`
	CreatedAt  time.Time `json:"created_at"`
}
