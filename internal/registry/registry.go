package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/pkg/errors"
)

// SlotStore is the slice of the appointment store the registry needs to
// enforce slot uniqueness.
type SlotStore interface {
	SlotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (bool, error)
	BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
}

// Registry serializes reservations per (doctor, date, timeslot) key so
// that a check-then-insert against the store behaves atomically: of any
// set of concurrent callers for the same key, at most one wins. A
// cancelled appointment no longer counts toward uniqueness, so cancelling
// releases the slot for rebooking.
type Registry struct {
	store SlotStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry(store SlotStore) *Registry {
	return &Registry{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// TryReserve runs reserve inside the critical section for the slot key,
// but only after confirming no non-cancelled appointment already holds the
// slot. Losers get ErrCodeSlotUnavailable and no state change.
func (r *Registry) TryReserve(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, reserve func(ctx context.Context) error) error {
	lock := r.keyLock(slotKey(doctorID, date, timeSlot))
	lock.Lock()
	defer lock.Unlock()

	taken, err := r.store.SlotTaken(ctx, doctorID, date, timeSlot)
	if err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return errors.SlotUnavailable(fmt.Sprintf("slot %s on %s is already booked", timeSlot, date.Format(model.DateFormat)))
	}

	return reserve(ctx)
}

// BookedSlots reads the store directly; a single query is already a
// consistent snapshot.
func (r *Registry) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	return r.store.BookedSlots(ctx, doctorID, date)
}

func (r *Registry) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func slotKey(doctorID uuid.UUID, date time.Time, timeSlot string) string {
	return strings.Join([]string{doctorID.String(), date.Format(model.DateFormat), timeSlot}, "|")
}
