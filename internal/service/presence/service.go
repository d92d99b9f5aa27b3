package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/rkapoor/telecare-api/internal/model"
)

const (
	// DefaultOnlineWindow is how recently a heartbeat must have landed for
	// a user to count as online.
	DefaultOnlineWindow = 2 * time.Minute

	// Heartbeat records are kept well past the online window so lastSeen
	// can still be reported for recently-offline users.
	recordTTL       = 24 * time.Hour
	cleanupInterval = time.Hour
)

// Tracker records heartbeats and derives online status. Writes are
// last-writer-wins; a slightly stale lastSeen is an accepted, bounded
// inaccuracy.
type Tracker struct {
	store        *cache.Cache
	onlineWindow time.Duration
	now          func() time.Time
}

func NewTracker(onlineWindow time.Duration) *Tracker {
	if onlineWindow <= 0 {
		onlineWindow = DefaultOnlineWindow
	}
	return &Tracker{
		store:        cache.New(recordTTL, cleanupInterval),
		onlineWindow: onlineWindow,
		now:          time.Now,
	}
}

// WithClock overrides the tracker clock. Test hook.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Heartbeat sets the user's lastSeen to now.
func (t *Tracker) Heartbeat(_ context.Context, userID uuid.UUID) {
	t.store.Set(userID.String(), t.now(), cache.DefaultExpiration)
}

// Status reports whether the user is online: a heartbeat within the online
// window. Status is pull-based only; no event is pushed on transition.
func (t *Tracker) Status(_ context.Context, userID uuid.UUID) model.PresenceStatus {
	v, ok := t.store.Get(userID.String())
	if !ok {
		return model.PresenceStatus{IsOnline: false, LastSeen: model.LastSeenNever}
	}

	lastSeen := v.(time.Time)
	return model.PresenceStatus{
		IsOnline: t.now().Sub(lastSeen) < t.onlineWindow,
		LastSeen: lastSeen.Format(time.RFC3339),
	}
}
