package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// AppointmentRepository owns appointment rows. SlotTaken and Create are
// only called under the slot registry's per-key critical section, which is
// what makes the check-then-insert pair atomic.
type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)

	// UpdateStatus is an optimistic compare-and-set: the row moves from
	// `from` to `to` only if it is still in `from`. Losing the race is a
	// conflict, not an overwrite.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error)

	// SlotTaken reports whether a non-cancelled appointment already holds
	// (doctorID, date, timeSlot).
	SlotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (bool, error)

	// BookedSlots returns the timeslots held by non-cancelled appointments
	// for the doctor on the given date, as a single consistent snapshot.
	BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)

	ListForPatient(ctx context.Context, patientID uuid.UUID, scope model.AppointmentScope, today time.Time) ([]*model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, scope model.AppointmentScope, today time.Time) ([]*model.Appointment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error

	// History returns both directions of the (a, b) conversation merged,
	// ordered by timestamp ascending.
	History(ctx context.Context, a, b uuid.UUID) ([]*model.ChatMessage, error)

	UnreadCount(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error
}

type DoctorRepository interface {
	ListAll(ctx context.Context) ([]*model.DoctorProfile, error)
	ListBySpecialization(ctx context.Context, specialization string) ([]*model.DoctorProfile, error)
}
