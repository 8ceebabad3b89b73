package model

import "time"

// Registrant is a candidate who supplied contact details to unlock the
// free test. No account, no password; owns an append-only test history.
// swagger:model Registrant
type Registrant struct {
	BaseModel
	FullName     string       `gorm:"size:100;not null" json:"fullName"`
	Email        string       `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string       `gorm:"size:30;not null" json:"phone"`
	Address      string       `gorm:"size:255" json:"address"`
	RegisteredAt time.Time    `json:"registeredAt"`
	TestHistory  []TestResult `gorm:"foreignKey:RegistrantID" json:"testHistory,omitempty"`
}

func (Registrant) TableName() string {
	return "registrants"
}
