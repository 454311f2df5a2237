package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// FileUploader abstracts uploading binary data and returning a URL. The
// scope is a slash-separated path that keeps tenants' uploads apart.
type FileUploader interface {
	Upload(ctx context.Context, scope, name string, reader io.Reader) (string, error)
}

// ResourceService exposes course study materials. Files are pushed to the
// configured uploader; the stored record keeps only metadata and the URL.
type ResourceService interface {
	Upload(ctx context.Context, auth AuthContext, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error)
	ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.ResourceResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
}

type resourceService struct {
	repo        repository.ResourceRepository
	courses     repository.CourseRepository
	uploader    FileUploader
	notifier    Notifier
	maxUploadMB int
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewResourceService builds the resource service.
func NewResourceService(repo repository.ResourceRepository, courses repository.CourseRepository, uploader FileUploader, notifier Notifier, maxUploadMB int, validate *validator.Validate, logger zerolog.Logger) ResourceService {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}

	return &resourceService{
		repo:        repo,
		courses:     courses,
		uploader:    uploader,
		notifier:    notifier,
		maxUploadMB: maxUploadMB,
		validator:   validate,
		logger:      logger.With().Str("component", "resource_service").Logger(),
		now:         time.Now,
	}
}

func (s *resourceService) Upload(ctx context.Context, auth AuthContext, payload dto.ResourceCreateRequest, file *multipart.FileHeader) (dto.ResourceResponse, error) {
	if auth.IsStudent() {
		return dto.ResourceResponse{}, fmt.Errorf("uploading resources is staff-only: %w", ErrForbidden)
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceResponse{}, err
	}
	if file == nil {
		return dto.ResourceResponse{}, fmt.Errorf("file is required: %w", ErrInvalid)
	}
	if file.Size > int64(s.maxUploadMB)<<20 {
		return dto.ResourceResponse{}, fmt.Errorf("file exceeds %d MB: %w", s.maxUploadMB, ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, payload.CourseID, auth.TenantID)
	if err != nil {
		return dto.ResourceResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.ResourceResponse{}, err
	}

	source, err := file.Open()
	if err != nil {
		return dto.ResourceResponse{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = source.Close() }()

	kind, err := mimetype.DetectReader(source)
	if err != nil {
		return dto.ResourceResponse{}, fmt.Errorf("failed to detect file type: %w", err)
	}
	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return dto.ResourceResponse{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	scope := fmt.Sprintf("tenants/%d/courses/%d", auth.TenantID, course.ID)
	url, err := s.uploader.Upload(ctx, scope, file.Filename, source)
	if err != nil {
		return dto.ResourceResponse{}, fmt.Errorf("failed to upload file: %w", err)
	}

	resource := models.Resource{
		Title:        payload.Title,
		Description:  payload.Description,
		FileName:     file.Filename,
		FileURL:      url,
		FileSize:     file.Size,
		FileType:     fileCategory(kind.String()),
		CourseID:     course.ID,
		AdminID:      auth.TenantID,
		UploaderID:   auth.PrincipalID,
		UploaderRole: auth.Role,
	}
	if err := s.repo.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.logger.Info().Uint("resource_id", resource.ID).Uint("course_id", course.ID).Str("type", resource.FileType).Msg("resource uploaded")

	s.notifier.Notify(ctx, auth.TenantID, enrolledRecipients(course), Event{
		Category:    models.CategoryGeneral,
		Title:       "New study material",
		Message:     fmt.Sprintf("%s was added to %s.", resource.Title, course.Name),
		RelatedID:   &resource.ID,
		RelatedName: resource.Title,
		Metadata:    map[string]any{"course_id": course.ID},
	})

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.ResourceResponse, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseRead(auth, course); err != nil {
		return nil, err
	}

	resources, err := s.repo.ListByCourse(ctx, auth.TenantID, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewResourceResponseSlice(resources), nil
}

func (s *resourceService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	resource, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "resource")
	}

	if !auth.IsAdmin() && resource.UploaderID != auth.PrincipalID {
		return fmt.Errorf("resource %d: %w", id, ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "resource")
	}

	s.logger.Info().Uint("resource_id", id).Msg("resource deleted")

	return nil
}

func fileCategory(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.Contains(mime, "pdf"):
		return "pdf"
	default:
		return "file"
	}
}
