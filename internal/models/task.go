package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/minaharu/timebank-api/internal/constants"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusAvailable TaskStatus = "available"
	TaskStatusTaken     TaskStatus = "taken"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a unit of requested help. Its duration (hours) is both the
// expected effort and its price in time credits.
//
// PostedBy, PostedByID and PosterEmail are a snapshot of the creator's
// identity at creation time, not a live reference; they are never
// reconciled with later identity changes.
type Task struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(50);not null" json:"title"`
	Description string     `gorm:"type:varchar(200)" json:"description"`
	Duration    int        `gorm:"not null" json:"duration"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	PostedBy    string     `gorm:"type:varchar(255);not null" json:"posted_by"`
	PostedByID  string     `gorm:"type:varchar(255);not null" json:"posted_by_id"`
	PosterEmail string     `gorm:"type:varchar(255)" json:"poster_email"`
	TakenBy     *string    `gorm:"type:varchar(255)" json:"taken_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BeforeCreate assigns the opaque document ID the store would otherwise generate.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Cost is the task's price in minutes.
func (t *Task) Cost() int {
	return t.Duration * constants.MinutesPerHour
}
