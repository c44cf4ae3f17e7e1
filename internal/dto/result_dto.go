package dto

import (
	"time"

	"github.com/examcell/results-api/internal/models"
)

// ResultCreateRequest describes the payload for recording a single result.
// Status is not accepted from the client; it is derived from the marks.
type ResultCreateRequest struct {
	StudentID   string  `json:"student_id" validate:"required,min=1"`
	Semester    string  `json:"semester" validate:"required,min=1"`
	SubjectCode string  `json:"subject_code" validate:"required,min=1"`
	SubjectName string  `json:"subject_name" validate:"required,min=1"`
	Marks       float64 `json:"marks" validate:"gte=0,lte=100"`
	Grade       string  `json:"grade" validate:"required,min=1,max=5"`
}

// ResultUpdateRequest updates the mutable fields of a result.
type ResultUpdateRequest struct {
	Marks float64 `json:"marks" validate:"gte=0,lte=100"`
	Grade string  `json:"grade" validate:"required,min=1,max=5"`
}

// ResultResponse is the client-facing view of a result.
type ResultResponse struct {
	ID          uint      `json:"id"`
	StudentID   string    `json:"student_id"`
	Semester    string    `json:"semester"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	Marks       float64   `json:"marks"`
	Grade       string    `json:"grade"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewResultResponse converts a Result model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	return ResultResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		Semester:    model.Semester,
		SubjectCode: model.SubjectCode,
		SubjectName: model.SubjectName,
		Marks:       model.Marks,
		Grade:       model.Grade,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewResultResponses maps a slice of results.
func NewResultResponses(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}
