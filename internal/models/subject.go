package models

import "time"

// Subject is a reference record identified by its course code. Credits are
// stored but not used when averaging GPAs.
type Subject struct {
	Code       string    `gorm:"primaryKey;size:20" json:"code"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Department string    `gorm:"size:255;not null" json:"department"`
	Credits    int       `gorm:"not null" json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
