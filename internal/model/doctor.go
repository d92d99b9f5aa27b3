package model

import "github.com/google/uuid"

type DoctorProfile struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Specialization string    `db:"specialization" json:"specialization"`
	Experience     string    `db:"experience" json:"experience"`
	Hospital       string    `db:"hospital" json:"hospital"`
	Rating         float64   `db:"rating" json:"rating"`
	AvailableHours string    `db:"available_hours" json:"available_hours"`
	Fee            float64   `db:"fee" json:"fee"`
	Languages      string    `db:"languages" json:"languages"`
}

// RiskLevel is produced by the external score classifier and consumed only
// to pick a target specialization for doctor recommendation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)
