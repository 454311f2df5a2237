package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// MarksHandler wires grading routes.
type MarksHandler struct {
	service service.MarksService
	logger  zerolog.Logger
}

// NewMarksHandler constructs the handler.
func NewMarksHandler(service service.MarksService, logger zerolog.Logger) *MarksHandler {
	return &MarksHandler{
		service: service,
		logger:  logger.With().Str("component", "marks_handler").Logger(),
	}
}

// Register attaches the marks endpoints.
func (h *MarksHandler) Register(router fiber.Router) {
	router.Post("", h.upsert)
	router.Get("/mine", h.listMine)
	router.Get("/course/:courseId", h.listByCourse)
	router.Get("/:itemType/:itemId", h.listByItem)
}

func (h *MarksHandler) upsert(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.MarksUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	marks, err := h.service.Upsert(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "marks recorded", marks)
}

func (h *MarksHandler) listMine(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	marks, err := h.service.ListMine(c.Context(), auth)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "marks retrieved", marks)
}

func (h *MarksHandler) listByCourse(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	marks, err := h.service.ListByCourse(c.Context(), auth, courseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "marks retrieved", marks)
}

func (h *MarksHandler) listByItem(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	marks, err := h.service.ListByItem(c.Context(), auth, c.Params("itemType"), itemID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "marks retrieved", marks)
}
