package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// StatsService aggregates tenant-wide and per-course dashboard figures.
type StatsService interface {
	Overview(ctx context.Context, auth AuthContext) (dto.OverviewStats, error)
	CourseOverview(ctx context.Context, auth AuthContext, courseID uint) (dto.CourseStats, error)
}

type statsService struct {
	teachers    repository.TeacherRepository
	students    repository.StudentRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	tests       repository.TestRepository
	marks       repository.MarksRepository
	meetings    repository.MeetingRepository
	notices     repository.NoticeRepository
	attendance  repository.AttendanceRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStatsService builds the stats service.
func NewStatsService(teachers repository.TeacherRepository, students repository.StudentRepository, courses repository.CourseRepository, assignments repository.AssignmentRepository, tests repository.TestRepository, marks repository.MarksRepository, meetings repository.MeetingRepository, notices repository.NoticeRepository, attendance repository.AttendanceRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		teachers:    teachers,
		students:    students,
		courses:     courses,
		assignments: assignments,
		tests:       tests,
		marks:       marks,
		meetings:    meetings,
		notices:     notices,
		attendance:  attendance,
		logger:      logger.With().Str("component", "stats_service").Logger(),
		now:         time.Now,
	}
}

func (s *statsService) Overview(ctx context.Context, auth AuthContext) (dto.OverviewStats, error) {
	var stats dto.OverviewStats

	teacherCount, err := s.teachers.CountByTenant(ctx, auth.TenantID)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	stats.Teachers = teacherCount

	studentCount, err := s.students.CountByTenant(ctx, auth.TenantID)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	stats.Students = studentCount

	courseCount, err := s.courses.CountByTenant(ctx, auth.TenantID)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	stats.Courses = courseCount

	meetings, err := s.meetings.List(ctx, auth.TenantID, repository.MeetingFilter{Status: models.MeetingScheduled})
	if err != nil {
		return dto.OverviewStats{}, err
	}
	now := s.now()
	for _, meeting := range meetings {
		if meeting.ScheduledTime.After(now) {
			stats.UpcomingMeetings++
		}
	}

	notices, err := s.notices.List(ctx, auth.TenantID, nil, 0)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	stats.ActiveNotices = int64(len(notices))

	return stats, nil
}

func (s *statsService) CourseOverview(ctx context.Context, auth AuthContext, courseID uint) (dto.CourseStats, error) {
	course, err := s.courses.GetWithStudents(ctx, courseID, auth.TenantID)
	if err != nil {
		return dto.CourseStats{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.CourseStats{}, err
	}

	stats := dto.CourseStats{
		CourseID:      course.ID,
		EnrolledCount: len(course.Students),
	}

	assignments, err := s.assignments.List(ctx, auth.TenantID, repository.AssignmentFilter{CourseID: courseID})
	if err != nil {
		return dto.CourseStats{}, err
	}
	stats.AssignmentCount = len(assignments)

	tests, err := s.tests.List(ctx, auth.TenantID, repository.TestFilter{CourseID: courseID})
	if err != nil {
		return dto.CourseStats{}, err
	}
	stats.TestCount = len(tests)

	graded, err := s.marks.CountByCourse(ctx, auth.TenantID, courseID)
	if err != nil {
		return dto.CourseStats{}, err
	}
	stats.GradedCount = graded

	registers, err := s.attendance.ListByCourse(ctx, auth.TenantID, courseID)
	if err != nil {
		return dto.CourseStats{}, err
	}
	stats.AttendanceDays = len(registers)

	var present, total int
	for _, register := range registers {
		for _, record := range register.Records {
			total++
			if record.Status == models.AttendancePresent {
				present++
			}
		}
	}
	if total > 0 {
		stats.AttendanceRate = float64(present) / float64(total) * 100
	}

	return stats, nil
}
