package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// ProgressService aggregates grades into per-student and per-course views.
// Student aggregates are cached in Redis for a short TTL because they touch
// every gradeable item across every enrolled course.
type ProgressService interface {
	StudentProgress(ctx context.Context, auth AuthContext, studentID uint) (dto.StudentProgressResponse, error)
	CourseOverview(ctx context.Context, auth AuthContext, courseID uint) (dto.CourseProgressOverview, error)
}

type progressService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	tests       repository.TestRepository
	marks       repository.MarksRepository
	students    repository.StudentRepository
	redis       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProgressService builds the progress service. The Redis client is
// optional; when nil every call recomputes.
func NewProgressService(courses repository.CourseRepository, assignments repository.AssignmentRepository, tests repository.TestRepository, marks repository.MarksRepository, students repository.StudentRepository, redisClient *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ProgressService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &progressService{
		courses:     courses,
		assignments: assignments,
		tests:       tests,
		marks:       marks,
		students:    students,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "progress_service").Logger(),
		now:         time.Now,
	}
}

func (s *progressService) StudentProgress(ctx context.Context, auth AuthContext, studentID uint) (dto.StudentProgressResponse, error) {
	if auth.IsStudent() {
		if studentID != 0 && studentID != auth.PrincipalID {
			return dto.StudentProgressResponse{}, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
		}
		studentID = auth.PrincipalID
	}
	if studentID == 0 {
		return dto.StudentProgressResponse{}, fmt.Errorf("student id required: %w", ErrInvalid)
	}

	if _, err := s.students.GetByTenant(ctx, studentID, auth.TenantID); err != nil {
		return dto.StudentProgressResponse{}, notFoundOrInternal(err, "student")
	}

	cacheKey := fmt.Sprintf("campus:progress:%d:%d", auth.TenantID, studentID)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	courses, err := s.courses.ListByStudent(ctx, auth.TenantID, studentID)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	response := dto.StudentProgressResponse{StudentID: studentID, Courses: make([]dto.CourseProgress, 0, len(courses))}
	var overallObtained, overallPossible float64

	for _, course := range courses {
		progress, err := s.courseProgress(ctx, auth.TenantID, course, studentID)
		if err != nil {
			return dto.StudentProgressResponse{}, err
		}
		overallObtained += progress.TotalObtained
		overallPossible += progress.TotalPossible
		response.Courses = append(response.Courses, progress)
	}

	response.OverallPercentage = roundPercent(overallObtained, overallPossible)

	s.toCache(ctx, cacheKey, response)

	return response, nil
}

func (s *progressService) CourseOverview(ctx context.Context, auth AuthContext, courseID uint) (dto.CourseProgressOverview, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.CourseProgressOverview{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.CourseProgressOverview{}, err
	}

	overview := dto.CourseProgressOverview{
		CourseID:      course.ID,
		CourseName:    course.Name,
		EnrolledCount: len(course.Students),
		MinPercent:    math.MaxInt32,
	}

	var sum float64
	for _, student := range course.Students {
		progress, err := s.courseProgress(ctx, auth.TenantID, course, student.ID)
		if err != nil {
			return dto.CourseProgressOverview{}, err
		}
		if progress.Completed == 0 {
			continue
		}

		overview.GradedCount++
		percent := progress.Percentage
		sum += float64(percent)
		if percent < overview.MinPercent {
			overview.MinPercent = percent
		}
		if percent > overview.MaxPercent {
			overview.MaxPercent = percent
		}

		switch {
		case percent >= 90:
			overview.Distribution.Excellent++
		case percent >= 75:
			overview.Distribution.Good++
		case percent >= 60:
			overview.Distribution.Average++
		default:
			overview.Distribution.Poor++
		}
	}

	if overview.GradedCount > 0 {
		overview.AveragePercent = sum / float64(overview.GradedCount)
	} else {
		overview.MinPercent = 0
	}

	return overview, nil
}

// courseProgress walks every gradeable item in the course. Ungraded items
// still count toward the possible total, so the percentage reflects the
// whole course rather than only the graded part.
func (s *progressService) courseProgress(ctx context.Context, tenantID uint, course models.Course, studentID uint) (dto.CourseProgress, error) {
	progress := dto.CourseProgress{
		CourseID:   course.ID,
		CourseName: course.Name,
		CourseCode: course.Code,
		Items:      []dto.ItemProgress{},
	}

	grades, err := s.marks.List(ctx, tenantID, repository.MarksFilter{CourseID: course.ID, StudentID: studentID})
	if err != nil {
		return dto.CourseProgress{}, err
	}
	graded := make(map[string]models.Marks, len(grades))
	for _, grade := range grades {
		graded[fmt.Sprintf("%s:%d", grade.ItemType, grade.ItemID)] = grade
	}

	assignments, err := s.assignments.List(ctx, tenantID, repository.AssignmentFilter{CourseID: course.ID})
	if err != nil {
		return dto.CourseProgress{}, err
	}
	for _, assignment := range assignments {
		s.addItem(&progress, graded, models.ItemTypeAssignment, assignment.ID, assignment.Title, course.ID, assignment.TotalMarks)
	}

	tests, err := s.tests.List(ctx, tenantID, repository.TestFilter{CourseID: course.ID})
	if err != nil {
		return dto.CourseProgress{}, err
	}
	for _, test := range tests {
		s.addItem(&progress, graded, models.ItemTypeTest, test.ID, test.Title, course.ID, test.MaxScore())
	}

	progress.Percentage = roundPercent(progress.TotalObtained, progress.TotalPossible)

	return progress, nil
}

func (s *progressService) addItem(progress *dto.CourseProgress, graded map[string]models.Marks, itemType string, itemID uint, title string, courseID uint, possible float64) {
	item := dto.ItemProgress{
		ItemType: itemType,
		ItemID:   itemID,
		Title:    title,
		CourseID: courseID,
		MaxScore: possible,
	}

	progress.TotalItems++
	progress.TotalPossible += possible

	if grade, ok := graded[fmt.Sprintf("%s:%d", itemType, itemID)]; ok {
		item.Completed = true
		item.Score = grade.Score
		item.MaxScore = grade.MaxScore
		item.Percentage = grade.Percentage()
		progress.Completed++
		progress.TotalObtained += grade.Score
	}

	progress.Items = append(progress.Items, item)
}

func (s *progressService) fromCache(ctx context.Context, key string) (dto.StudentProgressResponse, bool) {
	if s.redis == nil {
		return dto.StudentProgressResponse{}, false
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("progress cache read failed")
		}
		return dto.StudentProgressResponse{}, false
	}

	var response dto.StudentProgressResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return dto.StudentProgressResponse{}, false
	}

	return response, true
}

func (s *progressService) toCache(ctx context.Context, key string, response dto.StudentProgressResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("progress cache write failed")
	}
}

func roundPercent(obtained, possible float64) int {
	if possible <= 0 {
		return 0
	}
	return int(math.Round(obtained / possible * 100))
}
