package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is immutable once written except for the IsRead flag.
// Timestamp is server-assigned at creation and is the ordering key for
// history retrieval.
type ChatMessage struct {
	ID             uuid.UUID `db:"id" json:"id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	RecipientID    uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Content        string    `db:"content" json:"content"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	AttachmentURL  *string   `db:"attachment_url" json:"attachment_url,omitempty"`
	AttachmentType *string   `db:"attachment_type" json:"attachment_type,omitempty"`
}

type SendMessageRequest struct {
	RecipientID    string  `json:"recipient_id" binding:"required,uuid"`
	Content        string  `json:"content" binding:"required,max=4000"`
	AttachmentURL  *string `json:"attachment_url" binding:"omitempty,url"`
	AttachmentType *string `json:"attachment_type" binding:"omitempty,oneof=IMAGE DOCUMENT"`
}
