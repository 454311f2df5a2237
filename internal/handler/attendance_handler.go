package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// AttendanceHandler wires attendance routes.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the attendance endpoints.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("", h.mark)
	router.Get("/mine", h.mySummary)
	router.Get("/course/:courseId", h.listByCourse)
	router.Get("/course/:courseId/:date", h.getByDate)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.AttendanceMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	attendance, err := h.service.Mark(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "attendance recorded", attendance)
}

func (h *AttendanceHandler) mySummary(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	summary, err := h.service.MySummary(c.Context(), auth, parseQueryUint(c, "course_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "attendance summary retrieved", summary)
}

func (h *AttendanceHandler) listByCourse(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.ListByCourse(c.Context(), auth, courseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}

func (h *AttendanceHandler) getByDate(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	attendance, err := h.service.GetByDate(c.Context(), auth, courseID, c.Params("date"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", attendance)
}
