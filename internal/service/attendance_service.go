package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

const attendanceDateLayout = "2006-01-02"

// AttendanceService exposes the per-day course register. Marking the same
// course and calendar day twice replaces the earlier register.
type AttendanceService interface {
	Mark(ctx context.Context, auth AuthContext, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error)
	GetByDate(ctx context.Context, auth AuthContext, courseID uint, date string) (dto.AttendanceResponse, error)
	ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.AttendanceResponse, error)
	MySummary(ctx context.Context, auth AuthContext, courseID uint) (dto.StudentAttendanceSummary, error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAttendanceService builds the attendance service.
func NewAttendanceService(repo repository.AttendanceRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		repo:      repo,
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
		now:       time.Now,
	}
}

func (s *attendanceService) Mark(ctx context.Context, auth AuthContext, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	day, err := time.Parse(attendanceDateLayout, payload.Date)
	if err != nil {
		return dto.AttendanceResponse{}, fmt.Errorf("invalid date: %w", ErrInvalid)
	}
	date := models.NormalizeAttendanceDate(day)

	course, err := s.courses.GetWithStudents(ctx, payload.CourseID, auth.TenantID)
	if err != nil {
		return dto.AttendanceResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.AttendanceResponse{}, err
	}

	records := make([]models.AttendanceRecord, 0, len(payload.Records))
	seen := make(map[uint]bool, len(payload.Records))
	for _, entry := range payload.Records {
		if !course.HasStudent(entry.StudentID) {
			return dto.AttendanceResponse{}, fmt.Errorf("student %d not enrolled: %w", entry.StudentID, ErrInvalid)
		}
		if seen[entry.StudentID] {
			return dto.AttendanceResponse{}, fmt.Errorf("student %d listed twice: %w", entry.StudentID, ErrInvalid)
		}
		seen[entry.StudentID] = true
		records = append(records, models.AttendanceRecord{StudentID: entry.StudentID, Status: entry.Status})
	}

	attendance := models.Attendance{
		CourseID: course.ID,
		Date:     date,
		MarkedBy: auth.PrincipalID,
		AdminID:  auth.TenantID,
		Records:  records,
	}
	if err := s.repo.Upsert(ctx, &attendance); err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().
		Uint("course_id", course.ID).
		Str("date", payload.Date).
		Int("students", len(records)).
		Msg("attendance marked")

	return dto.NewAttendanceResponse(attendance), nil
}

func (s *attendanceService) GetByDate(ctx context.Context, auth AuthContext, courseID uint, date string) (dto.AttendanceResponse, error) {
	day, err := time.Parse(attendanceDateLayout, date)
	if err != nil {
		return dto.AttendanceResponse{}, fmt.Errorf("invalid date: %w", ErrInvalid)
	}

	course, err := s.courses.GetByID(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.AttendanceResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.AttendanceResponse{}, err
	}

	attendance, err := s.repo.GetByCourseAndDate(ctx, auth.TenantID, courseID, models.NormalizeAttendanceDate(day))
	if err != nil {
		return dto.AttendanceResponse{}, notFoundOrInternal(err, "attendance")
	}

	return dto.NewAttendanceResponse(attendance), nil
}

func (s *attendanceService) ListByCourse(ctx context.Context, auth AuthContext, courseID uint) ([]dto.AttendanceResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID, auth.TenantID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return nil, err
	}

	attendances, err := s.repo.ListByCourse(ctx, auth.TenantID, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAttendanceResponseSlice(attendances), nil
}

// MySummary aggregates the calling student's presence. With courseID zero
// the summary spans every course the student attends.
func (s *attendanceService) MySummary(ctx context.Context, auth AuthContext, courseID uint) (dto.StudentAttendanceSummary, error) {
	if !auth.IsStudent() {
		return dto.StudentAttendanceSummary{}, fmt.Errorf("attendance summary is student-only: %w", ErrForbidden)
	}

	if courseID != 0 {
		course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
		if err != nil {
			return dto.StudentAttendanceSummary{}, notFoundOrInternal(err, "course")
		}
		if !course.HasStudent(auth.PrincipalID) {
			return dto.StudentAttendanceSummary{}, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
	}

	attendances, err := s.repo.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
	if err != nil {
		return dto.StudentAttendanceSummary{}, err
	}

	summary := dto.StudentAttendanceSummary{CourseID: courseID}
	for _, attendance := range attendances {
		if courseID != 0 && attendance.CourseID != courseID {
			continue
		}
		for _, record := range attendance.Records {
			if record.StudentID != auth.PrincipalID {
				continue
			}
			summary.TotalDays++
			if record.Status == models.AttendancePresent {
				summary.Present++
			} else {
				summary.Absent++
			}
		}
	}
	if summary.TotalDays > 0 {
		summary.Percentage = float64(summary.Present) / float64(summary.TotalDays) * 100
	}

	return summary, nil
}
