package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/middleware"
	"github.com/noah-isme/lastresort-api/internal/service"
	"github.com/noah-isme/lastresort-api/internal/utils"
)

// CompetitionHandler manages competition endpoints.
type CompetitionHandler struct {
	service service.CompetitionService
	logger  zerolog.Logger
}

// NewCompetitionHandler builds a competition handler instance.
func NewCompetitionHandler(service service.CompetitionService, logger zerolog.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		service: service,
		logger:  logger.With().Str("component", "competition_handler").Logger(),
	}
}

// Register attaches the read routes to the provided router group.
func (h *CompetitionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches the write routes to the admin router group.
func (h *CompetitionHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *CompetitionHandler) list(c *fiber.Ctx) error {
	competitions, err := h.service.List(c.Context(), c.Query("status"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "competitions retrieved", competitions)
}

func (h *CompetitionHandler) get(c *fiber.Ctx) error {
	competition, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "competition retrieved", competition)
}

func (h *CompetitionHandler) create(c *fiber.Ctx) error {
	var payload dto.CompetitionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	competition, err := h.service.Create(c.Context(), middleware.UserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "competition created", competition)
}

func (h *CompetitionHandler) update(c *fiber.Ctx) error {
	var payload dto.CompetitionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	competition, err := h.service.Update(c.Context(), middleware.UserID(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "competition updated", competition)
}

func (h *CompetitionHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "competition deleted", nil)
}

func (h *CompetitionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCompetitionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "competition not found")
	case errors.Is(err, service.ErrAdminRequired):
		return utils.SendError(c, fiber.StatusForbidden, "admin access required")
	case errors.Is(err, service.ErrInvalidDateRange):
		return utils.SendError(c, fiber.StatusBadRequest, "start date must be before end date")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
