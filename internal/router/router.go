package router

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/campus-go-api/internal/config"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	DirectoryHandler    *handler.DirectoryHandler
	CourseHandler       *handler.CourseHandler
	AssignmentHandler   *handler.AssignmentHandler
	TestHandler         *handler.TestHandler
	SubmissionHandler   *handler.SubmissionHandler
	MarksHandler        *handler.MarksHandler
	AttendanceHandler   *handler.AttendanceHandler
	MeetingHandler      *handler.MeetingHandler
	NoticeHandler       *handler.NoticeHandler
	NotificationHandler *handler.NotificationHandler
	ProgressHandler     *handler.ProgressHandler
	ResourceHandler     *handler.ResourceHandler
	TimetableHandler    *handler.TimetableHandler
	DiscussionHandler   *handler.DiscussionHandler
	StatsHandler        *handler.StatsHandler
	AuthMiddleware      fiber.Handler
	TenantMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	authGate := deps.AuthMiddleware
	if authGate == nil {
		authGate = func(c *fiber.Ctx) error { return c.Next() }
	}
	tenantGate := deps.TenantMiddleware
	if tenantGate == nil {
		tenantGate = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute)))
		deps.AuthHandler.RegisterProtected(api.Group("/auth", authGate, tenantGate))
	}

	protected := api.Group("", authGate, tenantGate)

	if deps.DirectoryHandler != nil {
		adminOnly := middleware.RequireRole(models.RoleAdmin)
		deps.DirectoryHandler.RegisterTeachers(protected.Group("/teachers", adminOnly))
		deps.DirectoryHandler.RegisterStudents(protected.Group("/students", adminOnly))
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(protected.Group("/courses"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(protected.Group("/assignments"))
	}
	if deps.TestHandler != nil {
		deps.TestHandler.Register(protected.Group("/tests"))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(protected.Group("/submissions"))
	}
	if deps.MarksHandler != nil {
		deps.MarksHandler.Register(protected.Group("/marks"))
	}
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(protected.Group("/attendance"))
	}
	if deps.MeetingHandler != nil {
		deps.MeetingHandler.Register(protected.Group("/meetings"))
	}
	if deps.NoticeHandler != nil {
		deps.NoticeHandler.Register(protected.Group("/notices"))
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(protected.Group("/notifications"))
	}
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(protected.Group("/progress"))
	}
	if deps.ResourceHandler != nil {
		deps.ResourceHandler.Register(protected.Group("/resources"))
	}
	if deps.TimetableHandler != nil {
		deps.TimetableHandler.Register(protected.Group("/timetable"))
	}
	if deps.DiscussionHandler != nil {
		deps.DiscussionHandler.Register(protected.Group("/discussions"))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(protected.Group("/stats", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)))
	}
}
