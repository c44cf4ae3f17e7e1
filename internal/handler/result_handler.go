package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/service"
	"github.com/examcell/results-api/internal/utils"
)

// ResultHandler exposes result CRUD and listing endpoints.
type ResultHandler struct {
	service service.ResultService
	logger  zerolog.Logger
}

// NewResultHandler constructs a result handler.
func NewResultHandler(service service.ResultService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// Register wires result routes.
func (h *ResultHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/student/:id", h.listByStudent)
	router.Get("/semester/:semester", h.listBySemester)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *ResultHandler) list(c *fiber.Ctx) error {
	results, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list results")
	}

	return utils.SendSuccess(c, "results fetched", results)
}

func (h *ResultHandler) listByStudent(c *fiber.Ctx) error {
	results, err := h.service.ListByStudent(c.Context(), c.Params("id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list student results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list results")
	}

	return utils.SendSuccess(c, "results fetched", results)
}

func (h *ResultHandler) listBySemester(c *fiber.Ctx) error {
	results, err := h.service.ListBySemester(c.Context(), c.Params("semester"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list semester results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list results")
	}

	return utils.SendSuccess(c, "results fetched", results)
}

func (h *ResultHandler) create(c *fiber.Ctx) error {
	var req dto.ResultCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "malformed request body")
	}

	result, err := h.service.Create(c.Context(), req)
	if err != nil {
		return h.mapError(c, err, "failed to create result")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "result created", result)
}

func (h *ResultHandler) update(c *fiber.Ctx) error {
	id, err := parseResultID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid result id")
	}

	var req dto.ResultUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "malformed request body")
	}

	result, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return h.mapError(c, err, "failed to update result")
	}

	return utils.SendSuccess(c, "result updated", result)
}

func (h *ResultHandler) remove(c *fiber.Ctx) error {
	id, err := parseResultID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid result id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.mapError(c, err, "failed to delete result")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResultHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrSubjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case isValidationError(err):
		return utils.SendErrorWithFields(c, fiber.StatusBadRequest, "input validation failed", validationFields(err))
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func parseResultID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
