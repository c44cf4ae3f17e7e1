package dto

import (
	"time"

	"github.com/examcell/results-api/internal/models"
)

// SubjectCreateRequest describes the payload for registering a subject.
type SubjectCreateRequest struct {
	Code       string `json:"code" validate:"required,min=1,max=20"`
	Name       string `json:"name" validate:"required,min=1"`
	Department string `json:"department" validate:"required,min=1"`
	Credits    int    `json:"credits" validate:"required,gte=1,lte=10"`
}

// SubjectUpdateRequest carries partial updates; nil fields are left untouched.
type SubjectUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	Department *string `json:"department" validate:"omitempty,min=1"`
	Credits    *int    `json:"credits" validate:"omitempty,gte=1,lte=10"`
}

// SubjectResponse is the client-facing view of a subject.
type SubjectResponse struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Credits    int       `json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSubjectResponse converts a Subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{
		Code:       model.Code,
		Name:       model.Name,
		Department: model.Department,
		Credits:    model.Credits,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewSubjectResponses maps a slice of subjects.
func NewSubjectResponses(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}
