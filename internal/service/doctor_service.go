package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinicrbac/internal/errors"
	"clinicrbac/internal/model"
	"clinicrbac/internal/repository"
)

// PatientUpdate carries the fields a doctor wants changed. A nil Name or an
// unset Diagnosis is left untouched; a set Diagnosis with a nil Value clears it.
type PatientUpdate struct {
	Name      *string
	Diagnosis model.NullableString
}

// DoctorService manages the patients owned by a doctor.
type DoctorService interface {
	CreatePatient(ctx context.Context, doctorID uuid.UUID, name string, diagnosis *string) (*model.PatientView, error)
	UpdatePatient(ctx context.Context, doctorID, patientID uuid.UUID, update PatientUpdate) (*model.PatientSummary, error)
	AssignNurse(ctx context.Context, doctorID, patientID, nurseID uuid.UUID) (*model.Ref, error)
}

type doctorService struct {
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
}

// NewDoctorService creates a new doctor service.
func NewDoctorService(patientRepo repository.PatientRepository, userRepo repository.UserRepository) DoctorService {
	return &doctorService{
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// CreatePatient creates a patient owned by doctorID, with no nurse.
func (s *doctorService) CreatePatient(ctx context.Context, doctorID uuid.UUID, name string, diagnosis *string) (*model.PatientView, error) {
	if name == "" {
		return nil, errors.InvalidInput("Name is required")
	}

	patient := &model.Patient{
		Name:      name,
		Diagnosis: diagnosis,
		DoctorID:  doctorID,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	view := patient.View()
	return &view, nil
}

// loadOwned fetches the patient and checks doctorID owns it.
func (s *doctorService) loadOwned(ctx context.Context, doctorID, patientID uuid.UUID) (*model.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if !patient.OwnedBy(doctorID) {
		return nil, errors.ErrNotAllowed
	}
	return patient, nil
}

// UpdatePatient applies a partial update to a patient the doctor owns.
func (s *doctorService) UpdatePatient(ctx context.Context, doctorID, patientID uuid.UUID, update PatientUpdate) (*model.PatientSummary, error) {
	patient, err := s.loadOwned(ctx, doctorID, patientID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil && *update.Name != "" {
		patient.Name = *update.Name
		fields["name"] = patient.Name
	}
	if update.Diagnosis.Set {
		patient.Diagnosis = update.Diagnosis.Value
		if update.Diagnosis.Value == nil {
			fields["diagnosis"] = nil
		} else {
			fields["diagnosis"] = *update.Diagnosis.Value
		}
	}

	if len(fields) > 0 {
		if err := s.patientRepo.UpdateFields(ctx, patient.ID, fields); err != nil {
			return nil, fmt.Errorf("update patient: %w", err)
		}
	}

	return &model.PatientSummary{ID: patient.ID, Name: patient.Name}, nil
}

// AssignNurse sets the nurse of a patient the doctor owns. The assignee must
// exist and have the nurse role.
func (s *doctorService) AssignNurse(ctx context.Context, doctorID, patientID, nurseID uuid.UUID) (*model.Ref, error) {
	patient, err := s.loadOwned(ctx, doctorID, patientID)
	if err != nil {
		return nil, err
	}

	nurse, err := s.userRepo.FindByID(ctx, nurseID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNurseNotFound
		}
		return nil, fmt.Errorf("find nurse: %w", err)
	}
	if nurse.Role != model.RoleNurse {
		return nil, errors.ErrNurseNotFound
	}

	if err := s.patientRepo.UpdateFields(ctx, patient.ID, map[string]interface{}{"nurse_id": nurse.ID}); err != nil {
		return nil, fmt.Errorf("assign nurse: %w", err)
	}

	return &model.Ref{ID: patient.ID}, nil
}
