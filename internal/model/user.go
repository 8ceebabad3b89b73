package model

import (
	"time"
)

type UserRole string

const (
	Staff UserRole = "staff"
	Admin UserRole = "admin"
)

// User is a back-office account (test authors and administrators).
// Candidates taking the free test are Registrants, not Users.
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('staff','admin');default:'staff'" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
