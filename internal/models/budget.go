package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	WorkOrderID uint            `json:"work_order_id" gorm:"not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	LaborCost   decimal.Decimal `json:"labor_cost" gorm:"type:decimal(10,2);not null"`
	PartsCost   decimal.Decimal `json:"parts_cost" gorm:"type:decimal(10,2);not null"`
	Status      BudgetStatus    `json:"status" gorm:"size:10;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Total is derived and never stored.
func (b *Budget) Total() decimal.Decimal {
	return b.LaborCost.Add(b.PartsCost)
}

type BudgetStatus string

const (
	BudgetPending  BudgetStatus = "pending"
	BudgetApproved BudgetStatus = "approved"
	BudgetRejected BudgetStatus = "rejected"
)

func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetPending, BudgetApproved, BudgetRejected:
		return true
	default:
		return false
	}
}
