package dto

import (
	"time"

	"github.com/examcell/results-api/internal/models"
)

// StudentCreateRequest describes the payload for registering a student.
type StudentCreateRequest struct {
	ID           string `json:"id" validate:"required,min=1,max=50"`
	Name         string `json:"name" validate:"required,min=1"`
	Email        string `json:"email" validate:"required,email"`
	Department   string `json:"department" validate:"required,min=1"`
	Year         int    `json:"year" validate:"required,gte=1,lte=6"`
	ProfileImage string `json:"profile_image" validate:"omitempty,url"`
}

// StudentUpdateRequest carries partial updates; nil fields are left untouched.
type StudentUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Department   *string `json:"department" validate:"omitempty,min=1"`
	Year         *int    `json:"year" validate:"omitempty,gte=1,lte=6"`
	Status       *string `json:"status" validate:"omitempty,min=1"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// StudentResponse is the client-facing view of a student.
type StudentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Year         int       `json:"year"`
	GPA          float64   `json:"gpa"`
	Status       string    `json:"status"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Department:   model.Department,
		Year:         model.Year,
		GPA:          model.GPA,
		Status:       model.Status,
		ProfileImage: model.ProfileImage,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewStudentResponses maps a slice of students.
func NewStudentResponses(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
