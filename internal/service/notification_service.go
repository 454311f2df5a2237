package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/observability"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// Recipient identifies one notification target inside a tenant.
type Recipient struct {
	Kind string
	ID   uint
}

// Event is a domain occurrence fanned out to a set of recipients.
type Event struct {
	Category    string
	Title       string
	Message     string
	RelatedID   *uint
	RelatedName string
	Metadata    map[string]any
}

// Notifier fans an event out to recipients. Delivery is best effort: a
// failed fanout must never fail the operation that triggered it, so
// Notify reports nothing and logs internally.
type Notifier interface {
	Notify(ctx context.Context, tenantID uint, recipients []Recipient, event Event)
}

// NotificationService exposes the notification inbox plus the fanout side.
type NotificationService interface {
	Notifier
	List(ctx context.Context, auth AuthContext, unreadOnly bool, limit, offset int) (dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, auth AuthContext, id uint) error
	MarkAllRead(ctx context.Context, auth AuthContext) error
	Delete(ctx context.Context, auth AuthContext, id uint) error
	DeleteAll(ctx context.Context, auth AuthContext) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	nats        *nats.Conn
	natsSubject string
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

type fanoutEvent struct {
	TenantID   uint      `json:"tenant_id"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Recipients int       `json:"recipients"`
	SentAt     time.Time `json:"sent_at"`
}

// NewNotificationService constructs a notification service. The NATS
// connection is optional; when nil fanout stays database-only.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, natsSubject string, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		nats:        natsConn,
		natsSubject: natsSubject,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/campus-go-api/internal/service/notification"),
	}
}

func (s *notificationService) Notify(ctx context.Context, tenantID uint, recipients []Recipient, event Event) {
	if len(recipients) == 0 {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("notification.category", event.Category),
		attribute.Int("notification.recipients", len(recipients)),
	}
	spanCtx, span := s.tracer.Start(ctx, "notifications.fanout", trace.WithAttributes(attrs...))
	defer span.End()

	title := strings.TrimSpace(s.sanitizer.Sanitize(event.Title))
	message := strings.TrimSpace(s.sanitizer.Sanitize(event.Message))
	if title == "" || message == "" {
		s.logger.Warn().Str("category", event.Category).Msg("notification empty after sanitization, dropped")
		return
	}

	category := event.Category
	if category == "" {
		category = models.CategoryGeneral
	}

	batch := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		if !models.IsValidRecipientKind(recipient.Kind) || recipient.ID == 0 {
			continue
		}
		batch = append(batch, models.Notification{
			RecipientKind: recipient.Kind,
			RecipientID:   recipient.ID,
			Category:      category,
			Title:         title,
			Message:       message,
			RelatedID:     event.RelatedID,
			RelatedName:   event.RelatedName,
			Metadata:      datatypes.JSONMap(event.Metadata),
			AdminID:       tenantID,
		})
	}

	if err := s.repo.CreateBatch(spanCtx, batch); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Str("category", category).Int("recipients", len(batch)).Msg("notification fanout failed")
		return
	}

	observability.NotificationsFanout().WithLabelValues(category).Add(float64(len(batch)))

	if s.nats != nil && s.natsSubject != "" {
		payload, err := json.Marshal(fanoutEvent{
			TenantID:   tenantID,
			Category:   category,
			Title:      title,
			Recipients: len(batch),
			SentAt:     time.Now().UTC(),
		})
		if err == nil {
			err = s.nats.Publish(s.natsSubject, payload)
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish fanout event to nats")
		}
	}

	s.logger.Info().Str("category", category).Int("recipients", len(batch)).Msg("notifications fanned out")
}

func (s *notificationService) List(ctx context.Context, auth AuthContext, unreadOnly bool, limit, offset int) (dto.NotificationListResponse, error) {
	filter := repository.NotificationFilter{UnreadOnly: unreadOnly, Limit: limit, Offset: offset}
	notifications, err := s.repo.ListByRecipient(ctx, auth.TenantID, auth.Role, auth.PrincipalID, filter)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	unread, err := s.repo.CountUnread(ctx, auth.TenantID, auth.Role, auth.PrincipalID)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	return dto.NewNotificationListResponse(notifications, unread), nil
}

func (s *notificationService) MarkRead(ctx context.Context, auth AuthContext, id uint) error {
	err := s.repo.MarkRead(ctx, auth.TenantID, auth.Role, auth.PrincipalID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, auth AuthContext) error {
	return s.repo.MarkAllRead(ctx, auth.TenantID, auth.Role, auth.PrincipalID)
}

func (s *notificationService) Delete(ctx context.Context, auth AuthContext, id uint) error {
	err := s.repo.Delete(ctx, auth.TenantID, auth.Role, auth.PrincipalID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return err
}

func (s *notificationService) DeleteAll(ctx context.Context, auth AuthContext) error {
	return s.repo.DeleteAll(ctx, auth.TenantID, auth.Role, auth.PrincipalID)
}
