package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/service"
	"github.com/examcell/results-api/internal/utils"
)

// ReportHandler serves generated HTML reports.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/semester/:semester", h.semester)
}

func (h *ReportHandler) semester(c *fiber.Ctx) error {
	html, err := h.service.SemesterReport(c.Context(), c.Params("semester"))
	if err != nil {
		h.logger.Error().Err(err).Str("semester", c.Params("semester")).Msg("failed to generate report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate report")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}
