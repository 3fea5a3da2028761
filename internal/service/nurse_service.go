package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"clinicrbac/internal/model"
	"clinicrbac/internal/repository"
)

// NurseService exposes the patients a nurse follows.
type NurseService interface {
	GetAssignedPatients(ctx context.Context, nurseID uuid.UUID) ([]model.PatientView, error)
}

type nurseService struct {
	patientRepo repository.PatientRepository
}

// NewNurseService creates a new nurse service.
func NewNurseService(patientRepo repository.PatientRepository) NurseService {
	return &nurseService{patientRepo: patientRepo}
}

// GetAssignedPatients lists the nurse's patients. Diagnosis is included.
func (s *nurseService) GetAssignedPatients(ctx context.Context, nurseID uuid.UUID) ([]model.PatientView, error) {
	patients, err := s.patientRepo.ListByNurse(ctx, nurseID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	views := make([]model.PatientView, 0, len(patients))
	for i := range patients {
		views = append(views, patients[i].View())
	}
	return views, nil
}
