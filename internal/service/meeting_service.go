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
	"github.com/noah-isme/campus-go-api/pkg/meet"
)

const defaultMeetingMinutes = 60

// MeetingService exposes scheduled video sessions. Rooms are provisioned
// on creation; attendees may join from fifteen minutes before the start
// until the scheduled end, and joining is recorded.
type MeetingService interface {
	Create(ctx context.Context, auth AuthContext, payload dto.MeetingCreateRequest) (dto.MeetingResponse, error)
	Get(ctx context.Context, auth AuthContext, id uint) (dto.MeetingResponse, error)
	List(ctx context.Context, auth AuthContext, courseID uint, status string) ([]dto.MeetingResponse, error)
	Update(ctx context.Context, auth AuthContext, id uint, payload dto.MeetingUpdateRequest) (dto.MeetingResponse, error)
	UpdateStatus(ctx context.Context, auth AuthContext, id uint, payload dto.MeetingStatusRequest) (dto.MeetingResponse, error)
	Join(ctx context.Context, auth AuthContext, id uint) (dto.MeetingJoinResponse, error)
	Delete(ctx context.Context, auth AuthContext, id uint) error
}

type meetingService struct {
	repo        repository.MeetingRepository
	courses     repository.CourseRepository
	students    repository.StudentRepository
	provisioner meet.Provisioner
	notifier    Notifier
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMeetingService builds the meeting service.
func NewMeetingService(repo repository.MeetingRepository, courses repository.CourseRepository, students repository.StudentRepository, provisioner meet.Provisioner, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) MeetingService {
	return &meetingService{
		repo:        repo,
		courses:     courses,
		students:    students,
		provisioner: provisioner,
		notifier:    notifier,
		validator:   validate,
		logger:      logger.With().Str("component", "meeting_service").Logger(),
		now:         time.Now,
	}
}

func (s *meetingService) Create(ctx context.Context, auth AuthContext, payload dto.MeetingCreateRequest) (dto.MeetingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MeetingResponse{}, err
	}

	scheduledTime, err := time.Parse(time.RFC3339, payload.ScheduledTime)
	if err != nil {
		return dto.MeetingResponse{}, fmt.Errorf("invalid schedule time: %w", ErrInvalid)
	}
	if !scheduledTime.After(s.now()) {
		return dto.MeetingResponse{}, fmt.Errorf("schedule time must be in the future: %w", ErrInvalid)
	}

	course, err := s.courses.GetWithStudents(ctx, payload.CourseID, auth.TenantID)
	if err != nil {
		return dto.MeetingResponse{}, notFoundOrInternal(err, "course")
	}
	if err := authorizeCourseWrite(auth, course); err != nil {
		return dto.MeetingResponse{}, err
	}

	room, err := s.provisioner.Provision(course.Code)
	if err != nil {
		return dto.MeetingResponse{}, fmt.Errorf("failed to provision meeting room: %w", err)
	}

	duration := payload.DurationMinutes
	if duration <= 0 {
		duration = defaultMeetingMinutes
	}

	meeting := models.Meeting{
		Title:           payload.Title,
		Description:     payload.Description,
		CourseID:        course.ID,
		TeacherID:       course.TeacherID,
		AdminID:         auth.TenantID,
		ScheduledTime:   scheduledTime,
		DurationMinutes: duration,
		MeetingLink:     room.Link,
		MeetingID:       room.ID,
		MeetingPassword: room.Password,
		Provider:        room.Provider,
		RoomName:        room.Name,
		Status:          models.MeetingScheduled,
	}
	if err := s.repo.Create(ctx, &meeting); err != nil {
		return dto.MeetingResponse{}, err
	}

	s.logger.Info().Uint("meeting_id", meeting.ID).Uint("course_id", course.ID).Str("room", room.Name).Msg("meeting scheduled")

	s.notifier.Notify(ctx, auth.TenantID, enrolledRecipients(course), Event{
		Category:    models.CategoryMeeting,
		Title:       "Class meeting scheduled",
		Message:     fmt.Sprintf("%s for %s starts %s.", meeting.Title, course.Name, scheduledTime.Format(time.RFC1123)),
		RelatedID:   &meeting.ID,
		RelatedName: meeting.Title,
		Metadata:    map[string]any{"course_id": course.ID, "scheduled_time": scheduledTime},
	})

	return dto.NewMeetingResponse(meeting), nil
}

func (s *meetingService) Get(ctx context.Context, auth AuthContext, id uint) (dto.MeetingResponse, error) {
	meeting, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.MeetingResponse{}, notFoundOrInternal(err, "meeting")
	}

	if err := s.authorizeRead(ctx, auth, meeting); err != nil {
		return dto.MeetingResponse{}, err
	}

	return dto.NewMeetingResponse(meeting), nil
}

func (s *meetingService) List(ctx context.Context, auth AuthContext, courseID uint, status string) ([]dto.MeetingResponse, error) {
	filter := repository.MeetingFilter{CourseID: courseID, Status: status}

	switch {
	case auth.IsTeacher() && courseID == 0:
		filter.TeacherID = auth.PrincipalID
	case auth.IsStudent():
		courses, err := s.courses.ListByStudent(ctx, auth.TenantID, auth.PrincipalID)
		if err != nil {
			return nil, err
		}
		enrolled := make(map[uint]bool, len(courses))
		for _, course := range courses {
			enrolled[course.ID] = true
		}
		if courseID != 0 && !enrolled[courseID] {
			return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
		}
		meetings, err := s.repo.List(ctx, auth.TenantID, filter)
		if err != nil {
			return nil, err
		}
		visible := meetings[:0]
		for _, meeting := range meetings {
			if enrolled[meeting.CourseID] {
				visible = append(visible, meeting)
			}
		}
		return dto.NewMeetingResponseSlice(visible), nil
	}

	meetings, err := s.repo.List(ctx, auth.TenantID, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewMeetingResponseSlice(meetings), nil
}

func (s *meetingService) Update(ctx context.Context, auth AuthContext, id uint, payload dto.MeetingUpdateRequest) (dto.MeetingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MeetingResponse{}, err
	}

	meeting, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.MeetingResponse{}, notFoundOrInternal(err, "meeting")
	}
	if err := s.authorizeWrite(ctx, auth, meeting); err != nil {
		return dto.MeetingResponse{}, err
	}
	if meeting.Status != models.MeetingScheduled {
		return dto.MeetingResponse{}, fmt.Errorf("only scheduled meetings can be edited: %w", ErrInvalid)
	}

	if payload.Title != nil {
		meeting.Title = *payload.Title
	}
	if payload.Description != nil {
		meeting.Description = *payload.Description
	}
	if payload.ScheduledTime != nil {
		scheduledTime, err := time.Parse(time.RFC3339, *payload.ScheduledTime)
		if err != nil {
			return dto.MeetingResponse{}, fmt.Errorf("invalid schedule time: %w", ErrInvalid)
		}
		meeting.ScheduledTime = scheduledTime
	}
	if payload.DurationMinutes != nil {
		meeting.DurationMinutes = *payload.DurationMinutes
	}

	if err := s.repo.Save(ctx, &meeting); err != nil {
		return dto.MeetingResponse{}, err
	}

	return dto.NewMeetingResponse(meeting), nil
}

func (s *meetingService) UpdateStatus(ctx context.Context, auth AuthContext, id uint, payload dto.MeetingStatusRequest) (dto.MeetingResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MeetingResponse{}, err
	}

	meeting, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.MeetingResponse{}, notFoundOrInternal(err, "meeting")
	}
	if err := s.authorizeWrite(ctx, auth, meeting); err != nil {
		return dto.MeetingResponse{}, err
	}

	if !meeting.CanTransitionTo(payload.Status) {
		return dto.MeetingResponse{}, fmt.Errorf("cannot move %s meeting to %s: %w", meeting.Status, payload.Status, ErrInvalid)
	}
	meeting.Status = payload.Status

	if err := s.repo.Save(ctx, &meeting); err != nil {
		return dto.MeetingResponse{}, err
	}

	s.logger.Info().Uint("meeting_id", meeting.ID).Str("status", meeting.Status).Msg("meeting status changed")

	return dto.NewMeetingResponse(meeting), nil
}

func (s *meetingService) Join(ctx context.Context, auth AuthContext, id uint) (dto.MeetingJoinResponse, error) {
	meeting, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return dto.MeetingJoinResponse{}, notFoundOrInternal(err, "meeting")
	}
	if err := s.authorizeRead(ctx, auth, meeting); err != nil {
		return dto.MeetingJoinResponse{}, err
	}

	if !meeting.CanJoin(s.now()) {
		return dto.MeetingJoinResponse{}, fmt.Errorf("meeting is not open for joining: %w", ErrInvalid)
	}

	if auth.IsStudent() {
		already := false
		for _, attendee := range meeting.Attendees {
			if attendee.ID == auth.PrincipalID {
				already = true
				break
			}
		}
		if !already {
			student, err := s.students.GetByTenant(ctx, auth.PrincipalID, auth.TenantID)
			if err != nil {
				return dto.MeetingJoinResponse{}, notFoundOrInternal(err, "student")
			}
			if err := s.repo.AddAttendee(ctx, &meeting, student); err != nil {
				return dto.MeetingJoinResponse{}, err
			}
		}
	}

	return dto.MeetingJoinResponse{
		MeetingLink:     meeting.MeetingLink,
		MeetingID:       meeting.MeetingID,
		MeetingPassword: meeting.MeetingPassword,
		RoomName:        meeting.RoomName,
	}, nil
}

func (s *meetingService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	meeting, err := s.repo.GetByID(ctx, id, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "meeting")
	}
	if err := s.authorizeWrite(ctx, auth, meeting); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, auth.TenantID); err != nil {
		return notFoundOrInternal(err, "meeting")
	}

	s.logger.Info().Uint("meeting_id", id).Msg("meeting deleted")

	return nil
}

func (s *meetingService) authorizeRead(ctx context.Context, auth AuthContext, meeting models.Meeting) error {
	course, err := s.courses.GetWithStudents(ctx, meeting.CourseID, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "course")
	}
	return authorizeCourseRead(auth, course)
}

func (s *meetingService) authorizeWrite(ctx context.Context, auth AuthContext, meeting models.Meeting) error {
	course, err := s.courses.GetByID(ctx, meeting.CourseID, auth.TenantID)
	if err != nil {
		return notFoundOrInternal(err, "course")
	}
	return authorizeCourseWrite(auth, course)
}
