package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeAppointment NotificationType = "APPOINTMENT"
	NotificationTypeChat        NotificationType = "CHAT"
	NotificationTypeSystem      NotificationType = "SYSTEM"
)

// Notification is a durable per-user record. Created only by internal
// collaborators; the only mutation is flipping IsRead.
type Notification struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	UserID          uuid.UUID        `db:"user_id" json:"user_id"`
	Type            NotificationType `db:"type" json:"type"`
	Title           string           `db:"title" json:"title"`
	Message         string           `db:"message" json:"message"`
	RelatedEntityID *uuid.UUID       `db:"related_entity_id" json:"related_entity_id,omitempty"`
	IsRead          bool             `db:"is_read" json:"is_read"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}
