package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lastresort-api/internal/middleware"
	"github.com/noah-isme/lastresort-api/internal/service"
	"github.com/noah-isme/lastresort-api/internal/utils"
)

// RegistrationHandler manages competition registration endpoints.
type RegistrationHandler struct {
	service service.RegistrationService
	logger  zerolog.Logger
}

// NewRegistrationHandler builds a registration handler instance.
func NewRegistrationHandler(service service.RegistrationService, logger zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		logger:  logger.With().Str("component", "registration_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RegistrationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:competitionId", h.register)
	router.Delete("/:competitionId", h.unregister)
}

func (h *RegistrationHandler) list(c *fiber.Ctx) error {
	registrations, err := h.service.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "registrations retrieved", registrations)
}

func (h *RegistrationHandler) register(c *fiber.Ctx) error {
	registration, err := h.service.Register(c.Context(), middleware.UserID(c), c.Params("competitionId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered for competition", registration)
}

func (h *RegistrationHandler) unregister(c *fiber.Ctx) error {
	if err := h.service.Unregister(c.Context(), middleware.UserID(c), c.Params("competitionId")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "registration withdrawn", nil)
}

func (h *RegistrationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCompetitionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "competition not found")
	case errors.Is(err, service.ErrAlreadyRegistered):
		return utils.SendError(c, fiber.StatusConflict, "already registered for this competition")
	case errors.Is(err, service.ErrRegistrationClosed):
		return utils.SendError(c, fiber.StatusForbidden, "cannot register for this competition")
	case errors.Is(err, service.ErrRegistrationLocked):
		return utils.SendError(c, fiber.StatusForbidden, "registration cannot be withdrawn")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
