package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/service"
	"github.com/noah-isme/campus-go-api/internal/utils"
)

// AuthHandler wires authentication HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated endpoints.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.registerAdmin)
	router.Post("/register/teacher", h.registerPrincipal(models.RoleTeacher))
	router.Post("/register/student", h.registerPrincipal(models.RoleStudent))
	router.Post("/login/admin", h.login(models.RoleAdmin))
	router.Post("/login/teacher", h.login(models.RoleTeacher))
	router.Post("/login/student", h.login(models.RoleStudent))
	router.Post("/refresh", h.refresh)
	router.Post("/forgot-password", h.forgotPassword)
	router.Post("/reset-password", h.resetPassword)
}

// RegisterProtected attaches the endpoints that need a valid session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.profile)
	router.Patch("/me", h.updateProfile)
	router.Post("/logout", h.logout)
	router.Post("/change-password", h.changePassword)
}

func (h *AuthHandler) registerAdmin(c *fiber.Ctx) error {
	var payload dto.AdminRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.RegisterAdmin(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", response)
}

func (h *AuthHandler) registerPrincipal(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload dto.PrincipalRegisterRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		response, err := h.service.RegisterPrincipal(c.Context(), role, payload)
		if err != nil {
			return respondError(c, h.logger, err)
		}

		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", response)
	}
}

func (h *AuthHandler) login(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload dto.LoginRequest
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}

		response, err := h.service.Login(c.Context(), role, payload)
		if err != nil {
			return respondError(c, h.logger, err)
		}

		return utils.SendSuccess(c, "login successful", response)
	}
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Refresh(c.Context(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "tokens rotated", response)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var payload dto.ForgotPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ForgotPassword(c.Context(), payload); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "reset instructions sent if the account exists", nil)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), payload); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "password reset", nil)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	response, err := h.service.Profile(c.Context(), auth)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile retrieved", response)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.UpdateProfile(c.Context(), auth, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "profile updated", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.service.Logout(c.Context(), auth); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	auth, ok := authContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePassword(c.Context(), auth, payload); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}
