package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/repository"
)

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date,
			time_slot, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.Date,
		apt.TimeSlot,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date,
			   time_slot, status, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND appointment_date = $2
			AND time_slot = $3
			AND status != 'CANCELLED'
		)
	`
	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, doctorID, date, timeSlot); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}

func (r *appointmentRepository) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT time_slot FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND status != 'CANCELLED'
	`
	var slots []string
	if err := r.db.SelectContext(ctx, &slots, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	return slots, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, scope model.AppointmentScope, today time.Time) ([]*model.Appointment, error) {
	return r.list(ctx, "patient_id", patientID, scope, today)
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, scope model.AppointmentScope, today time.Time) ([]*model.Appointment, error) {
	return r.list(ctx, "doctor_id", doctorID, scope, today)
}

func (r *appointmentRepository) list(ctx context.Context, column string, userID uuid.UUID, scope model.AppointmentScope, today time.Time) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT id, patient_id, doctor_id, appointment_date,
			   time_slot, status, notes, created_at, updated_at
		FROM appointments
		WHERE %s = $1
	`, column)
	args := []interface{}{userID}

	switch scope {
	case model.ScopeUpcoming:
		query += " AND appointment_date >= $2 AND status != 'CANCELLED' ORDER BY appointment_date ASC"
		args = append(args, today)
	case model.ScopePast:
		query += " AND appointment_date < $2 ORDER BY appointment_date DESC"
		args = append(args, today)
	case model.ScopeCancelled:
		query += " AND status = 'CANCELLED' ORDER BY appointment_date DESC"
	default:
		query += " ORDER BY appointment_date DESC"
	}

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
