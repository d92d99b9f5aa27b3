package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/registry"
	"github.com/rkapoor/telecare-api/internal/repository"
	"github.com/rkapoor/telecare-api/pkg/errors"
	"github.com/rkapoor/telecare-api/pkg/logger"
	"github.com/rkapoor/telecare-api/pkg/metrics"
)

// Notifier is the slice of the notification service this package needs.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, typ model.NotificationType, title, message string, relatedEntityID *uuid.UUID) (*model.Notification, error)
}

// allowed transitions; terminal states have no entry.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
}

func canTransition(from, to model.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	repo     repository.AppointmentRepository
	registry *registry.Registry
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(repo repository.AppointmentRepository, reg *registry.Registry, notifier Notifier, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: reg,
		notifier: notifier,
		metrics:  m,
		logger:   l,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Book reserves the slot and creates the appointment as one atomic step.
// Patients book for themselves in PENDING; admins book on a patient's
// behalf directly in CONFIRMED. Exactly one of any set of concurrent
// bookings for the same slot succeeds.
func (s *Service) Book(ctx context.Context, actor model.Principal, patientID, doctorID uuid.UUID, date time.Time, timeSlot, notes string) (*model.Appointment, error) {
	status := model.AppointmentStatusPending

	switch actor.Role {
	case model.RolePatient:
		patientID = actor.UserID
	case model.RoleAdmin:
		if patientID == uuid.Nil {
			return nil, errors.BadRequest("patient_id is required", nil)
		}
		status = model.AppointmentStatusConfirmed
	default:
		return nil, errors.Forbidden("only patients and administrators can book appointments")
	}

	if !model.IsValidTimeSlot(timeSlot) {
		return nil, errors.BadRequest(fmt.Sprintf("unknown time slot %q", timeSlot), nil)
	}

	apt := &model.Appointment{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      dateOnly(date),
		TimeSlot:  timeSlot,
		Status:    status,
		Notes:     notes,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	err := s.registry.TryReserve(ctx, doctorID, apt.Date, timeSlot, func(ctx context.Context) error {
		return s.repo.Create(ctx, apt)
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeSlotUnavailable) {
			s.countBooking("slot_unavailable")
			return nil, err
		}
		s.countBooking("error")
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	s.countBooking("booked")

	s.notify(ctx, doctorID, "New Appointment Request",
		fmt.Sprintf("New appointment request for %s (%s)", apt.Date.Format(model.DateFormat), timeSlot), apt.ID)

	return apt, nil
}

// UpdateStatus moves an appointment through the state machine. Only the
// assigned patient, the assigned doctor, or an administrator may act; the
// write is an optimistic compare-and-set, so a concurrent transition on
// the same appointment fails the loser with a conflict.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Principal, id uuid.UUID, newStatus model.AppointmentStatus) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !actor.IsAdmin() && !actor.Owns(apt.PatientID) && !actor.Owns(apt.DoctorID) {
		return nil, errors.Forbidden("not a participant of this appointment")
	}

	if !canTransition(apt.Status, newStatus) {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, newStatus))
	}

	ok, err := s.repo.UpdateStatus(ctx, id, apt.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	if !ok {
		return nil, errors.Conflict("appointment was modified concurrently, re-read and retry")
	}

	apt.Status = newStatus
	apt.UpdatedAt = s.now()
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	}

	title := "Appointment Update"
	message := fmt.Sprintf("Appointment on %s (%s) is now %s", apt.Date.Format(model.DateFormat), apt.TimeSlot, newStatus)
	for _, userID := range []uuid.UUID{apt.PatientID, apt.DoctorID} {
		if userID != actor.UserID {
			s.notify(ctx, userID, title, message, apt.ID)
		}
	}

	return apt, nil
}

// Cancel is a status transition to CANCELLED. Cancelling frees the slot:
// cancelled rows do not count toward the uniqueness check.
func (s *Service) Cancel(ctx context.Context, actor model.Principal, id uuid.UUID) (*model.Appointment, error) {
	return s.UpdateStatus(ctx, actor, id, model.AppointmentStatusCancelled)
}

func (s *Service) Get(ctx context.Context, actor model.Principal, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !actor.IsAdmin() && !actor.Owns(apt.PatientID) && !actor.Owns(apt.DoctorID) {
		return nil, errors.Forbidden("not a participant of this appointment")
	}
	return apt, nil
}

// BookedSlots renders availability for a doctor on a date: the timeslots
// currently held by non-cancelled appointments.
func (s *Service) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	slots, err := s.registry.BookedSlots(ctx, doctorID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	return slots, nil
}

// ListForUser returns the caller's own schedule: a doctor sees the
// appointments assigned to them, everyone else sees their bookings.
func (s *Service) ListForUser(ctx context.Context, actor model.Principal, scope model.AppointmentScope) ([]*model.Appointment, error) {
	today := dateOnly(s.now())

	var (
		appointments []*model.Appointment
		err          error
	)
	if actor.Role == model.RoleDoctor {
		appointments, err = s.repo.ListForDoctor(ctx, actor.UserID, scope, today)
	} else {
		appointments, err = s.repo.ListForPatient(ctx, actor.UserID, scope, today)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, title, message string, relatedID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, model.NotificationTypeAppointment, title, message, &relatedID); err != nil {
		// Notification failure never fails the booking; the record is the
		// source of truth, the notification is advisory.
		if s.logger != nil {
			s.logger.Error(err, "failed to notify appointment participant")
		}
	}
}

func (s *Service) countBooking(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
