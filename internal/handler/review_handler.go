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

// ReviewHandler manages the admin review queue endpoints.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler builds a review handler instance.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register attaches the routes to the provided admin router group.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("/submissions", h.listPending)
	router.Post("/submissions/:id/review", h.review)
	router.Get("/stats", h.stats)
}

func (h *ReviewHandler) listPending(c *fiber.Ctx) error {
	submissions, err := h.service.ListPending(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending submissions retrieved", submissions)
}

func (h *ReviewHandler) review(c *fiber.Ctx) error {
	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Review(c.Context(), middleware.UserID(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission reviewed", submission)
}

func (h *ReviewHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "platform stats retrieved", stats)
}

func (h *ReviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAdminRequired):
		return utils.SendError(c, fiber.StatusForbidden, "admin access required")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrAlreadyReviewed):
		return utils.SendError(c, fiber.StatusConflict, "submission already reviewed")
	case errors.Is(err, service.ErrReviewReasonRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "a reason is required to reject a submission")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
