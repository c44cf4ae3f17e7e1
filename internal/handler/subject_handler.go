package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/service"
	"github.com/examcell/results-api/internal/utils"
)

// SubjectHandler exposes subject CRUD endpoints.
type SubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(service service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "subject_handler").Logger(),
	}
}

// Register wires subject routes.
func (h *SubjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:code", h.get)
	router.Put("/:code", h.update)
	router.Delete("/:code", h.remove)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	subjects, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}

	return utils.SendSuccess(c, "subjects fetched", subjects)
}

func (h *SubjectHandler) get(c *fiber.Ctx) error {
	subject, err := h.service.Get(c.Context(), c.Params("code"))
	if err != nil {
		return h.mapError(c, err, "failed to fetch subject")
	}

	return utils.SendSuccess(c, "subject fetched", subject)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	var req dto.SubjectCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "malformed request body")
	}

	subject, err := h.service.Create(c.Context(), req)
	if err != nil {
		return h.mapError(c, err, "failed to create subject")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *SubjectHandler) update(c *fiber.Ctx) error {
	var req dto.SubjectUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "malformed request body")
	}

	subject, err := h.service.Update(c.Context(), c.Params("code"), req)
	if err != nil {
		return h.mapError(c, err, "failed to update subject")
	}

	return utils.SendSuccess(c, "subject updated", subject)
}

func (h *SubjectHandler) remove(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("code")); err != nil {
		return h.mapError(c, err, "failed to delete subject")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SubjectHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSubjectExists):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendErrorWithFields(c, fiber.StatusBadRequest, "input validation failed", validationFields(err))
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
