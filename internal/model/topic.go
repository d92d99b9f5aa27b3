package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Bus topic keys. One broadcast channel per user per feature.
const (
	TopicKindNotifications = "notifications"
	TopicKindChat          = "chat"
	TopicKindVideo         = "video"
)

func NotificationTopic(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", TopicKindNotifications, userID)
}

func ChatTopic(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", TopicKindChat, userID)
}

func VideoTopic(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", TopicKindVideo, userID)
}

// ParseTopic splits a topic key into its kind and owning user id.
func ParseTopic(topic string) (kind string, userID uuid.UUID, err error) {
	parts := strings.SplitN(topic, ":", 2)
	if len(parts) != 2 {
		return "", uuid.Nil, fmt.Errorf("malformed topic %q", topic)
	}
	switch parts[0] {
	case TopicKindNotifications, TopicKindChat, TopicKindVideo:
	default:
		return "", uuid.Nil, fmt.Errorf("unknown topic kind %q", parts[0])
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("malformed topic owner: %w", err)
	}
	return parts[0], id, nil
}
