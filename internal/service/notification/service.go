package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/repository"
	"github.com/rkapoor/telecare-api/pkg/logger"
	"github.com/rkapoor/telecare-api/pkg/messaging"
	"github.com/rkapoor/telecare-api/pkg/metrics"
)

const defaultListLimit = 10

type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, typ model.NotificationType, title, message string, relatedEntityID *uuid.UUID) (*model.Notification, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    repository.NotificationRepository
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(repo repository.NotificationRepository, broker messaging.Broker, m *metrics.Metrics, l *logger.Logger) Service {
	return &service{
		repo:    repo,
		broker:  broker,
		metrics: m,
		logger:  l,
		now:     time.Now,
	}
}

// Notify persists the notification and then pushes it to the recipient's
// topic. Persistence is the source of truth: a recipient with no live
// subscription picks the record up from the backlog on reconnect.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, typ model.NotificationType, title, message string, relatedEntityID *uuid.UUID) (*model.Notification, error) {
	n := &model.Notification{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            typ,
		Title:           title,
		Message:         message,
		RelatedEntityID: relatedEntityID,
		IsRead:          false,
		CreatedAt:       s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.Inc()
	}

	if err := s.broker.Publish(ctx, model.NotificationTopic(userID), n); err != nil {
		// Live delivery is best-effort; the durable record already exists.
		if s.logger != nil {
			s.logger.Warn("failed to publish notification", "user_id", userID.String())
		}
	}

	return n, nil
}

func (s *service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	notifications, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
