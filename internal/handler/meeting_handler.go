package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// MeetingHandler wires live class routes.
type MeetingHandler struct {
	service service.MeetingService
	logger  zerolog.Logger
}

// NewMeetingHandler constructs the handler.
func NewMeetingHandler(service service.MeetingService, logger zerolog.Logger) *MeetingHandler {
	return &MeetingHandler{
		service: service,
		logger:  logger.With().Str("component", "meeting_handler").Logger(),
	}
}

// Register attaches the meeting endpoints.
func (h *MeetingHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Patch("/:id/status", h.updateStatus)
	router.Post("/:id/join", h.join)
	router.Delete("/:id", h.delete)
}

func (h *MeetingHandler) create(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.MeetingCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	meeting, err := h.service.Create(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "meeting scheduled", meeting)
}

func (h *MeetingHandler) list(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	meetings, err := h.service.List(c.Context(), auth, parseQueryUint(c, "course_id"), c.Query("status"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meetings retrieved", meetings)
}

func (h *MeetingHandler) get(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	meeting, err := h.service.Get(c.Context(), auth, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meeting retrieved", meeting)
}

func (h *MeetingHandler) update(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MeetingUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	meeting, err := h.service.Update(c.Context(), auth, id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meeting updated", meeting)
}

func (h *MeetingHandler) updateStatus(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.MeetingStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	meeting, err := h.service.UpdateStatus(c.Context(), auth, id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meeting status updated", meeting)
}

func (h *MeetingHandler) join(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	join, err := h.service.Join(c.Context(), auth, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meeting joined", join)
}

func (h *MeetingHandler) delete(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), auth, id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "meeting removed", nil)
}
