package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// DirectoryHandler wires teacher and student account routes.
type DirectoryHandler struct {
	service service.DirectoryService
	logger  zerolog.Logger
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service service.DirectoryService, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		logger:  logger.With().Str("component", "directory_handler").Logger(),
	}
}

// RegisterTeachers attaches teacher directory endpoints.
func (h *DirectoryHandler) RegisterTeachers(router fiber.Router) {
	router.Get("", h.listTeachers)
	router.Get("/:id", h.getTeacher)
	router.Post("", h.createTeacher)
	router.Delete("/:id", h.deleteTeacher)
}

// RegisterStudents attaches student directory endpoints.
func (h *DirectoryHandler) RegisterStudents(router fiber.Router) {
	router.Get("", h.listStudents)
	router.Get("/:id", h.getStudent)
	router.Post("", h.createStudent)
	router.Delete("/:id", h.deleteStudent)
}

func (h *DirectoryHandler) createTeacher(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.CreateTeacher(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher created", teacher)
}

func (h *DirectoryHandler) listTeachers(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	teachers, err := h.service.ListTeachers(c.Context(), auth)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *DirectoryHandler) getTeacher(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacher, err := h.service.GetTeacher(c.Context(), auth, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "teacher retrieved", teacher)
}

func (h *DirectoryHandler) deleteTeacher(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteTeacher(c.Context(), auth, id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "teacher removed", nil)
}

func (h *DirectoryHandler) createStudent(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.service.CreateStudent(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *DirectoryHandler) listStudents(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	students, err := h.service.ListStudents(c.Context(), auth)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *DirectoryHandler) getStudent(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.service.GetStudent(c.Context(), auth, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *DirectoryHandler) deleteStudent(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteStudent(c.Context(), auth, id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "student removed", nil)
}
