package models

import "time"

// StudentStatusActive is the default status assigned to newly created students.
const StudentStatusActive = "Active"

// Student represents an enrolled student whose results and GPA are tracked.
// Password holds a bcrypt hash; students without one cannot log in.
type Student struct {
	ID           string    `gorm:"primaryKey;size:50" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department   string    `gorm:"size:255;not null" json:"department"`
	Year         int       `gorm:"not null" json:"year"`
	GPA          float64   `gorm:"column:gpa" json:"gpa"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	ProfileImage string    `gorm:"size:512" json:"profile_image"`
	Password     *string   `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
