package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// StatsHandler wires dashboard statistics routes.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register attaches the stats endpoints.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/courses/:id", h.courseOverview)
}

func (h *StatsHandler) overview(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	stats, err := h.service.Overview(c.Context(), auth)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "overview retrieved", stats)
}

func (h *StatsHandler) courseOverview(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.CourseOverview(c.Context(), auth, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course stats retrieved", stats)
}
