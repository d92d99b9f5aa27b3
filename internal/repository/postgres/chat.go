package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
)

func (r *chatRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			id, sender_id, recipient_id, content, timestamp,
			is_read, attachment_url, attachment_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.SenderID,
		msg.RecipientID,
		msg.Content,
		msg.Timestamp,
		msg.IsRead,
		msg.AttachmentURL,
		msg.AttachmentType,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) History(ctx context.Context, a, b uuid.UUID) ([]*model.ChatMessage, error) {
	// A conversation is symmetric: both directions merged, oldest first.
	query := `
		SELECT id, sender_id, recipient_id, content, timestamp,
			   is_read, attachment_url, attachment_type
		FROM chat_messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY timestamp ASC
	`
	var messages []*model.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, a, b); err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

func (r *chatRepository) UnreadCount(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM chat_messages
		WHERE sender_id = $1 AND recipient_id = $2 AND is_read = false
	`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, senderID, recipientID); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error {
	query := `
		UPDATE chat_messages
		SET is_read = true
		WHERE sender_id = $1 AND recipient_id = $2 AND is_read = false
	`
	if _, err := r.db.ExecContext(ctx, query, senderID, recipientID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
