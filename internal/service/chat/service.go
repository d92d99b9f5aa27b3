package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/repository"
	"github.com/rkapoor/telecare-api/pkg/errors"
	"github.com/rkapoor/telecare-api/pkg/logger"
	"github.com/rkapoor/telecare-api/pkg/messaging"
	"github.com/rkapoor/telecare-api/pkg/metrics"
)

type Service struct {
	repo    repository.ChatRepository
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(repo repository.ChatRepository, broker messaging.Broker, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		broker:  broker,
		metrics: m,
		logger:  l,
		now:     time.Now,
	}
}

// Send stamps the server timestamp, persists the message, and pushes it to
// the recipient's chat topic. The persisted row is the source of truth; a
// recipient who is offline reads it from history later.
func (s *Service) Send(ctx context.Context, actor model.Principal, recipientID uuid.UUID, content string, attachmentURL, attachmentType *string) (*model.ChatMessage, error) {
	if recipientID == actor.UserID {
		return nil, errors.BadRequest("cannot send a message to yourself", nil)
	}

	msg := &model.ChatMessage{
		ID:             uuid.New(),
		SenderID:       actor.UserID,
		RecipientID:    recipientID,
		Content:        content,
		Timestamp:      s.now(),
		IsRead:         false,
		AttachmentURL:  attachmentURL,
		AttachmentType: attachmentType,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to persist chat message: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ChatMessagesSent.Inc()
	}

	if err := s.broker.Publish(ctx, model.ChatTopic(recipientID), msg); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to publish chat message", "recipient_id", recipientID.String())
		}
	}

	return msg, nil
}

// History returns the conversation between two users, both directions
// merged and ordered by timestamp ascending. A participant or an admin may
// read it.
func (s *Service) History(ctx context.Context, actor model.Principal, a, b uuid.UUID) ([]*model.ChatMessage, error) {
	if !actor.IsAdmin() && !actor.Owns(a) && !actor.Owns(b) {
		return nil, errors.Forbidden("not a participant of this conversation")
	}

	messages, err := s.repo.History(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

// UnreadCount counts unread messages from senderID to recipientID.
func (s *Service) UnreadCount(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, recipientID, senderID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flips every unread message from senderID to recipientID. A
// message that arrives mid-call may or may not be included; it is never
// lost from history or double-counted.
func (s *Service) MarkRead(ctx context.Context, actor model.Principal, recipientID, senderID uuid.UUID) error {
	if !actor.IsAdmin() && !actor.Owns(recipientID) {
		return errors.Forbidden("only the recipient can mark messages read")
	}
	if err := s.repo.MarkRead(ctx, recipientID, senderID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
