package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/service"
	"github.com/examcell/results-api/internal/utils"
)

const defaultRecentUploads = 5

// UploadHandler exposes CSV ingestion and the upload ledger listing.
type UploadHandler struct {
	service service.UploadService
	logger  zerolog.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger.With().Str("component", "upload_handler").Logger(),
	}
}

// Register wires upload routes.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("/results/csv", h.ingestResults)
	router.Get("", h.recent)
}

func (h *UploadHandler) ingestResults(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	semester := strings.TrimSpace(c.FormValue("semester"))
	uploadType := strings.TrimSpace(c.FormValue("type"))
	if semester == "" || uploadType == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "semester and type are required")
	}

	response, err := h.service.IngestResultsCSV(c.Context(), file, semester, uploadType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadEmpty),
			errors.Is(err, service.ErrUploadNotCSV),
			errors.Is(err, service.ErrMalformedCSV),
			errors.Is(err, service.ErrUnknownSubject):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("csv ingestion failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to process CSV file")
		}
	}

	return c.JSON(response)
}

func (h *UploadHandler) recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentUploads)
	if limit < 1 {
		limit = 1
	}

	uploads, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list uploads")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list uploads")
	}

	return utils.SendSuccess(c, "uploads fetched", uploads)
}
