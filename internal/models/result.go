package models

import "time"

// Result statuses and the passing threshold applied by the direct API path.
const (
	ResultStatusPass = "Pass"
	ResultStatusFail = "Fail"

	PassMarkThreshold = 40.0
)

// Result records a student's marks for one subject in one semester. The
// subject name is denormalised at write time.
type Result struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   string    `gorm:"size:50;not null;index" json:"student_id"`
	Semester    string    `gorm:"size:50;not null;index" json:"semester"`
	SubjectCode string    `gorm:"size:20;not null" json:"subject_code"`
	SubjectName string    `gorm:"size:255;not null" json:"subject_name"`
	Marks       float64   `gorm:"not null" json:"marks"`
	Grade       string    `gorm:"size:5;not null" json:"grade"`
	Status      string    `gorm:"size:10;not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusForMarks derives the pass/fail status applied to results written
// through the direct API. CSV ingestion trusts the status column instead.
func StatusForMarks(marks float64) string {
	if marks >= PassMarkThreshold {
		return ResultStatusPass
	}
	return ResultStatusFail
}
