package dto

import (
	"time"

	"github.com/noah-isme/campus-go-api/internal/models"
)

// NotificationResponse is the serialized notification representation.
type NotificationResponse struct {
	ID          uint           `json:"id"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Read        bool           `json:"read"`
	RelatedID   *uint          `json:"related_id,omitempty"`
	RelatedName string         `json:"related_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          model.ID,
		Category:    model.Category,
		Title:       model.Title,
		Message:     model.Message,
		Read:        model.Read,
		RelatedID:   model.RelatedID,
		RelatedName: model.RelatedName,
		Metadata:    model.Metadata,
		CreatedAt:   model.CreatedAt,
	}
}

// NotificationListResponse bundles a page of notifications with the
// recipient's unread count.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// NewNotificationListResponse converts models plus the unread count.
func NewNotificationListResponse(notifications []models.Notification, unread int64) NotificationListResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return NotificationListResponse{Notifications: responses, UnreadCount: unread}
}
