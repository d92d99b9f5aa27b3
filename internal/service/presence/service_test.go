package presence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rkapoor/telecare-api/internal/model"
)

func TestUnknownUserHasNeverBeenSeen(t *testing.T) {
	tracker := NewTracker(DefaultOnlineWindow)

	status := tracker.Status(context.Background(), uuid.New())
	assert.False(t, status.IsOnline)
	assert.Equal(t, model.LastSeenNever, status.LastSeen)
}

func TestHeartbeatPutsUserOnline(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultOnlineWindow).WithClock(func() time.Time { return now })
	userID := uuid.New()

	tracker.Heartbeat(context.Background(), userID)

	status := tracker.Status(context.Background(), userID)
	assert.True(t, status.IsOnline)
	assert.Equal(t, now.Format(time.RFC3339), status.LastSeen)
}

func TestUserGoesOfflineAfterTheWindow(t *testing.T) {
	beat := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	now := beat
	tracker := NewTracker(DefaultOnlineWindow).WithClock(func() time.Time { return now })
	userID := uuid.New()

	tracker.Heartbeat(context.Background(), userID)

	now = beat.Add(DefaultOnlineWindow - time.Second)
	assert.True(t, tracker.Status(context.Background(), userID).IsOnline, "just inside the window")

	now = beat.Add(DefaultOnlineWindow)
	status := tracker.Status(context.Background(), userID)
	assert.False(t, status.IsOnline, "the window boundary is exclusive")
	assert.Equal(t, beat.Format(time.RFC3339), status.LastSeen, "lastSeen survives going offline")
}

func TestLaterHeartbeatWins(t *testing.T) {
	first := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	now := first
	tracker := NewTracker(DefaultOnlineWindow).WithClock(func() time.Time { return now })
	userID := uuid.New()

	tracker.Heartbeat(context.Background(), userID)
	now = first.Add(time.Minute)
	tracker.Heartbeat(context.Background(), userID)

	now = first.Add(DefaultOnlineWindow + 30*time.Second)
	status := tracker.Status(context.Background(), userID)
	assert.True(t, status.IsOnline, "the second heartbeat keeps the user inside the window")
	assert.Equal(t, first.Add(time.Minute).Format(time.RFC3339), status.LastSeen)
}

func TestUsersAreTrackedIndependently(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultOnlineWindow).WithClock(func() time.Time { return now })
	online, offline := uuid.New(), uuid.New()

	tracker.Heartbeat(context.Background(), online)

	assert.True(t, tracker.Status(context.Background(), online).IsOnline)
	assert.False(t, tracker.Status(context.Background(), offline).IsOnline)
}

func TestZeroWindowFallsBackToDefault(t *testing.T) {
	tracker := NewTracker(0)
	assert.Equal(t, DefaultOnlineWindow, tracker.onlineWindow)
}
