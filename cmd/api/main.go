package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/auth"
	"github.com/noah-isme/campus-go-api/internal/config"
	"github.com/noah-isme/campus-go-api/internal/database"
	"github.com/noah-isme/campus-go-api/internal/handler"
	"github.com/noah-isme/campus-go-api/internal/middleware"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
	"github.com/noah-isme/campus-go-api/internal/router"
	"github.com/noah-isme/campus-go-api/internal/service"
	cloud "github.com/noah-isme/campus-go-api/pkg/cloudinary"
	"github.com/noah-isme/campus-go-api/pkg/mail"
	"github.com/noah-isme/campus-go-api/pkg/meet"
)

const fanoutSubject = "campus.notifications"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Admin{}, &models.Teacher{}, &models.Student{},
		&models.Course{}, &models.Assignment{}, &models.Test{}, &models.TestQuestion{},
		&models.Submission{}, &models.Marks{},
		&models.Attendance{}, &models.AttendanceRecord{},
		&models.Meeting{}, &models.Notice{}, &models.Notification{},
		&models.Resource{}, &models.Timetable{}, &models.Discussion{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mailer := mail.NewConsoleSender(cfg.MailFrom, logger)
	provisioner := meet.NewJitsiProvisioner(cfg.MeetingBaseURL)
	validate := validator.New(validator.WithRequiredStructEnabled())

	adminRepo := repository.NewAdminRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	testRepo := repository.NewTestRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, natsConn, fanoutSubject, logger)
	tenantService := service.NewTenantService(teacherRepo, studentRepo)
	authService := service.NewAuthService(adminRepo, teacherRepo, studentRepo, tokens, mailer, validate, logger)
	directoryService := service.NewDirectoryService(teacherRepo, studentRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, teacherRepo, studentRepo, notificationService, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, notificationService, validate, logger)
	testService := service.NewTestService(testRepo, courseRepo, submissionRepo, marksRepo, notificationService, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, testRepo, courseRepo, notificationService, validate, logger)
	marksService := service.NewMarksService(marksRepo, assignmentRepo, testRepo, courseRepo, studentRepo, notificationService, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, courseRepo, validate, logger)
	meetingService := service.NewMeetingService(meetingRepo, courseRepo, studentRepo, provisioner, notificationService, validate, logger)
	noticeService := service.NewNoticeService(noticeRepo, teacherRepo, studentRepo, notificationService, validate, logger)
	progressService := service.NewProgressService(courseRepo, assignmentRepo, testRepo, marksRepo, studentRepo, redisClient, cfg.ProgressCacheTTL, logger)
	statsService := service.NewStatsService(teacherRepo, studentRepo, courseRepo, assignmentRepo, testRepo, marksRepo, meetingRepo, noticeRepo, attendanceRepo, logger)
	resourceService := service.NewResourceService(resourceRepo, courseRepo, uploader, notificationService, cfg.MaxUploadMB, validate, logger)
	timetableService := service.NewTimetableService(timetableRepo, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, courseRepo, teacherRepo, studentRepo, adminRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) << 20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		DirectoryHandler:    handler.NewDirectoryHandler(directoryService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		TestHandler:         handler.NewTestHandler(testService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, logger),
		MarksHandler:        handler.NewMarksHandler(marksService, logger),
		AttendanceHandler:   handler.NewAttendanceHandler(attendanceService, logger),
		MeetingHandler:      handler.NewMeetingHandler(meetingService, logger),
		NoticeHandler:       handler.NewNoticeHandler(noticeService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		ProgressHandler:     handler.NewProgressHandler(progressService, logger),
		ResourceHandler:     handler.NewResourceHandler(resourceService, logger),
		TimetableHandler:    handler.NewTimetableHandler(timetableService, logger),
		DiscussionHandler:   handler.NewDiscussionHandler(discussionService, logger),
		StatsHandler:        handler.NewStatsHandler(statsService, logger),
		AuthMiddleware:      middleware.Protected(tokens),
		TenantMiddleware:    middleware.TenantContext(tenantService),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
