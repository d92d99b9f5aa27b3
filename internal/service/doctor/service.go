package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/internal/repository"
)

const (
	specializationPsychiatrist = "Psychiatrist"
	specializationTherapist    = "Therapist"
)

type Service struct {
	repo            repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
}

func NewService(repo repository.DoctorRepository, appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]*model.DoctorProfile, error) {
	doctors, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// Recommend maps the externally-classified risk level to a target
// specialization: High risk goes to a psychiatrist, everything else to a
// therapist.
func (s *Service) Recommend(ctx context.Context, risk model.RiskLevel) ([]*model.DoctorProfile, error) {
	target := specializationTherapist
	if risk == model.RiskHigh {
		target = specializationPsychiatrist
	}

	doctors, err := s.repo.ListBySpecialization(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to recommend doctors: %w", err)
	}
	return doctors, nil
}

// MyPatients returns the distinct patients appearing in a doctor's
// appointments.
func (s *Service) MyPatients(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	appointments, err := s.appointmentRepo.ListForDoctor(ctx, doctorID, model.ScopeAll, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(appointments))
	patients := make([]uuid.UUID, 0, len(appointments))
	for _, apt := range appointments {
		if _, ok := seen[apt.PatientID]; ok {
			continue
		}
		seen[apt.PatientID] = struct{}{}
		patients = append(patients, apt.PatientID)
	}
	return patients, nil
}
