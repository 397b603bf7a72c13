package models

import "time"

// UserCredit is the per-user time-credit record, keyed by the identity
// provider's user ID. TimeCredits is a balance in minutes and never goes
// negative through exposed operations.
type UserCredit struct {
	UserID      string    `gorm:"type:varchar(255);primarykey" json:"user_id"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	TimeCredits int       `gorm:"not null" json:"time_credits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
