package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed out of s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// DateFormat is the wire format for appointment dates. Appointments carry a
// calendar date and a named timeslot, never a time-of-day.
const DateFormat = "2006-01-02"

// TimeSlots is the fixed vocabulary of bookable half-hour intervals.
var TimeSlots = []string{
	"9:00 AM - 9:30 AM", "9:30 AM - 10:00 AM", "10:00 AM - 10:30 AM", "10:30 AM - 11:00 AM",
	"11:00 AM - 11:30 AM", "2:00 PM - 2:30 PM", "2:30 PM - 3:00 PM", "3:00 PM - 3:30 PM",
	"3:30 PM - 4:00 PM", "4:00 PM - 4:30 PM", "4:30 PM - 5:00 PM",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      time.Time         `db:"appointment_date" json:"appointment_date"`
	TimeSlot  string            `db:"time_slot" json:"time_slot"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

type BookAppointmentRequest struct {
	PatientID string `json:"patient_id" binding:"omitempty,uuid"`
	DoctorID  string `json:"doctor_id" binding:"required,uuid"`
	Date      string `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	TimeSlot  string `json:"time_slot" binding:"required,timeslot"`
	Notes     string `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}

// AppointmentScope selects a list view relative to the current day.
type AppointmentScope string

const (
	ScopeAll       AppointmentScope = "all"
	ScopeUpcoming  AppointmentScope = "upcoming"
	ScopePast      AppointmentScope = "past"
	ScopeCancelled AppointmentScope = "cancelled"
)
