package models

import (
	"time"
)

type User struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string       `json:"email" gorm:"size:254"`
	FirstName    string       `json:"first_name" gorm:"size:150"`
	LastName     string       `json:"last_name" gorm:"size:150"`
	PasswordHash string       `json:"-" gorm:"not null"`
	IsActive     bool         `json:"is_active" gorm:"not null"`
	IsStaff      bool         `json:"is_staff" gorm:"not null"`
	IsSuperuser  bool         `json:"is_superuser" gorm:"not null"`
	LastLogin    *time.Time   `json:"last_login"`
	Groups       []Group      `json:"groups,omitempty" gorm:"many2many:user_groups"`
	Profile      *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Mechanic     *Mechanic    `json:"mechanic,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

type Group struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:150;uniqueIndex;not null"`
}

// UserProfile carries the workshop role of a non-superuser account.
type UserProfile struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Role          Role      `json:"role" gorm:"size:20"`
	DashboardPath string    `json:"dashboard_path" gorm:"size:200"`
	Phone         string    `json:"phone" gorm:"size:15"`
	Active        bool      `json:"active" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Role string

const (
	RoleManager   Role = "manager"
	RoleMechanic  Role = "mechanic"
	RoleFrontDesk Role = "front_desk"
	RoleUnknown   Role = "unknown"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleMechanic, RoleFrontDesk:
		return true
	default:
		return false
	}
}
