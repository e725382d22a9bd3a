package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lastresort-api/internal/dto"
	"github.com/noah-isme/lastresort-api/internal/middleware"
	"github.com/noah-isme/lastresort-api/internal/service"
	"github.com/noah-isme/lastresort-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Get("/:id/download", h.download)
	router.Delete("/:id", h.delete)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	submissions, err := h.service.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Create(c.Context(), middleware.UserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	submission, err := h.service.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) download(c *fiber.Ctx) error {
	download, err := h.service.Download(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="submission-%s.json"`, c.Params("id")))

	return c.Status(fiber.StatusOK).JSON(download)
}

func (h *SubmissionHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission deleted", nil)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrCompetitionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "competition not found")
	case errors.Is(err, service.ErrSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrSubmissionNotAllowed):
		return utils.SendError(c, fiber.StatusForbidden, "cannot submit to this competition")
	case errors.Is(err, service.ErrDuplicateQuestionNumber):
		return utils.SendError(c, fiber.StatusBadRequest, "question numbers must be unique within a submission")
	case errors.Is(err, service.ErrDownloadNotReady):
		return utils.SendError(c, fiber.StatusBadRequest, "submission must be completed before download")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
