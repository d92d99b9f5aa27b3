package postgres

import (
	"context"
	"fmt"

	"github.com/rkapoor/telecare-api/internal/model"
)

const doctorColumns = `
	id, user_id, full_name, specialization, experience,
	hospital, rating, available_hours, fee, languages
`

func (r *doctorRepository) ListAll(ctx context.Context) ([]*model.DoctorProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctor_profiles ORDER BY rating DESC`, doctorColumns)

	var doctors []*model.DoctorProfile
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListBySpecialization(ctx context.Context, specialization string) ([]*model.DoctorProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM doctor_profiles
		WHERE specialization = $1
		ORDER BY rating DESC
	`, doctorColumns)

	var doctors []*model.DoctorProfile
	if err := r.db.SelectContext(ctx, &doctors, query, specialization); err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialization: %w", err)
	}
	return doctors, nil
}
