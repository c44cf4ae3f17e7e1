package dto

import (
	"time"

	"github.com/examcell/results-api/internal/models"
)

// UploadResponse reports the outcome of a CSV ingestion attempt.
type UploadResponse struct {
	Success          bool   `json:"success"`
	RecordsProcessed *int   `json:"recordsProcessed"`
	Message          string `json:"message"`
}

// UploadEntryResponse is one ledger entry in the recent-uploads listing.
type UploadEntryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Records   int       `json:"records"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUploadEntryResponse converts an Upload model into a DTO.
func NewUploadEntryResponse(model models.Upload) UploadEntryResponse {
	return UploadEntryResponse{
		ID:        model.ID,
		Name:      model.Name,
		Type:      model.Type,
		Records:   model.Records,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewUploadEntryResponses maps a slice of ledger entries.
func NewUploadEntryResponses(uploads []models.Upload) []UploadEntryResponse {
	responses := make([]UploadEntryResponse, 0, len(uploads))
	for _, upload := range uploads {
		responses = append(responses, NewUploadEntryResponse(upload))
	}
	return responses
}
