package models

import (
	"time"
)

type Customer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Surname      string    `json:"surname" gorm:"size:100;not null"`
	Phone        string    `json:"phone" gorm:"size:15"`
	Email        *string   `json:"email" gorm:"size:100;uniqueIndex"`
	Address      string    `json:"address" gorm:"size:200"`
	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`
	Vehicles     []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:CustomerID"`
}

func (c *Customer) FullName() string {
	return c.Name + " " + c.Surname
}

type Vehicle struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CustomerID   uint      `json:"customer_id" gorm:"not null;index"`
	Customer     *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Plate        string    `json:"plate" gorm:"size:10;not null;uniqueIndex"`
	Make         string    `json:"make" gorm:"size:50;not null"`
	Model        string    `json:"model" gorm:"size:50;not null"`
	Year         int       `json:"year" gorm:"not null"`
	Color        string    `json:"color" gorm:"size:30"`
	EngineNumber string    `json:"engine_number" gorm:"size:50"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v *Vehicle) String() string {
	return v.Make + " " + v.Model + " (" + v.Plate + ")"
}

type Mechanic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"uniqueIndex"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Specialty string    `json:"specialty" gorm:"size:100;not null"`
	Phone     string    `json:"phone" gorm:"size:15"`
	Email     *string   `json:"email" gorm:"size:100;uniqueIndex"`
	Available bool      `json:"available" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WorkZone struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
}
