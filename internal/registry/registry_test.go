package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkapoor/telecare-api/pkg/errors"
)

// fakeSlotStore keeps booked slots in a map keyed the same way the registry
// keys its locks. It has no locking of its own beyond the map guard; the
// registry's critical section is what must keep check-then-insert safe.
type fakeSlotStore struct {
	mu    sync.Mutex
	slots map[string]bool
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[string]bool)}
}

func (f *fakeSlotStore) key(doctorID uuid.UUID, date time.Time, timeSlot string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date.Format("2006-01-02"), timeSlot)
}

func (f *fakeSlotStore) SlotTaken(_ context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[f.key(doctorID, date, timeSlot)], nil
}

func (f *fakeSlotStore) BookedSlots(_ context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := fmt.Sprintf("%s|%s|", doctorID, date.Format("2006-01-02"))
	var out []string
	for k, booked := range f.slots {
		if booked && len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, k[len(prefix):])
		}
	}
	return out, nil
}

func (f *fakeSlotStore) book(doctorID uuid.UUID, date time.Time, timeSlot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[f.key(doctorID, date, timeSlot)] = true
}

func (f *fakeSlotStore) release(doctorID uuid.UUID, date time.Time, timeSlot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.slots, f.key(doctorID, date, timeSlot))
}

func TestTryReserveBooksAFreeSlot(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	called := false
	err := reg.TryReserve(context.Background(), doctorID, date, "9:00 AM - 9:30 AM", func(context.Context) error {
		called = true
		store.book(doctorID, date, "9:00 AM - 9:30 AM")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestTryReserveRejectsATakenSlot(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	store.book(doctorID, date, "9:00 AM - 9:30 AM")

	err := reg.TryReserve(context.Background(), doctorID, date, "9:00 AM - 9:30 AM", func(context.Context) error {
		t.Fatal("reserve must not run for a taken slot")
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSlotUnavailable))
}

func TestTryReserveExactlyOneWinnerUnderContention(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	const slot = "10:00 AM - 10:30 AM"
	const callers = 32

	var (
		wg        sync.WaitGroup
		winners   int64
		losers    int64
		countersM sync.Mutex
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
				store.book(doctorID, date, slot)
				return nil
			})
			countersM.Lock()
			defer countersM.Unlock()
			if err == nil {
				winners++
			} else if errors.IsCode(err, errors.ErrCodeSlotUnavailable) {
				losers++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), winners, "exactly one concurrent caller may win the slot")
	assert.Equal(t, int64(callers-1), losers)
}

func TestTryReserveIndependentSlotsDoNotInterfere(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	for _, slot := range []string{"9:00 AM - 9:30 AM", "9:30 AM - 10:00 AM", "10:00 AM - 10:30 AM"} {
		err := reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
			store.book(doctorID, date, slot)
			return nil
		})
		require.NoError(t, err, "slot %s should be free", slot)
	}

	booked, err := reg.BookedSlots(context.Background(), doctorID, date)
	require.NoError(t, err)
	assert.Len(t, booked, 3)
}

func TestReleasedSlotCanBeReservedAgain(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	const slot = "11:00 AM - 11:30 AM"

	require.NoError(t, reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
		store.book(doctorID, date, slot)
		return nil
	}))

	// Same behavior as cancelling the appointment: the row stops counting
	// toward uniqueness.
	store.release(doctorID, date, slot)

	err := reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
		store.book(doctorID, date, slot)
		return nil
	})
	assert.NoError(t, err)
}

func TestReserveFailureDoesNotHoldTheSlot(t *testing.T) {
	store := newFakeSlotStore()
	reg := NewRegistry(store)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	const slot = "2:00 PM - 2:30 PM"

	boom := fmt.Errorf("insert failed")
	err := reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = reg.TryReserve(context.Background(), doctorID, date, slot, func(context.Context) error {
		store.book(doctorID, date, slot)
		return nil
	})
	assert.NoError(t, err, "a failed reservation must leave the slot free")
}
