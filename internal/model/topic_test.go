package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicRoundTrip(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		topic string
		kind  string
	}{
		{NotificationTopic(userID), TopicKindNotifications},
		{ChatTopic(userID), TopicKindChat},
		{VideoTopic(userID), TopicKindVideo},
	}
	for _, tt := range tests {
		kind, owner, err := ParseTopic(tt.topic)
		require.NoError(t, err, tt.topic)
		assert.Equal(t, tt.kind, kind)
		assert.Equal(t, userID, owner)
	}
}

func TestParseTopicRejectsMalformedInput(t *testing.T) {
	for _, topic := range []string{
		"",
		"chat",
		"chat:",
		"chat:not-a-uuid",
		"unknown:" + uuid.NewString(),
	} {
		_, _, err := ParseTopic(topic)
		assert.Error(t, err, "topic %q", topic)
	}
}

func TestIsValidTimeSlot(t *testing.T) {
	for _, slot := range TimeSlots {
		assert.True(t, IsValidTimeSlot(slot), slot)
	}
	assert.False(t, IsValidTimeSlot("9:00AM - 9:30AM"))
	assert.False(t, IsValidTimeSlot("12:00 PM - 12:30 PM"))
}

func TestStatusTerminality(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
}
