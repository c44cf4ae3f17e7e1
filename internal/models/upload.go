package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload ledger lifecycle statuses. An entry starts Processing and is moved
// exactly once to one of the terminal statuses.
const (
	UploadStatusProcessing = "Processing"
	UploadStatusCompleted  = "Completed"
	UploadStatusFailed     = "Failed"
)

// Upload is an audit record of one ingestion attempt.
type Upload struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:100;not null" json:"type"`
	Records   int       `gorm:"not null" json:"records"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided.
func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
