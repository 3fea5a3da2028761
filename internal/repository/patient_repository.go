package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinicrbac/internal/model"
)

// PatientRepository defines patient persistence operations.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	// FindByID loads the patient with its doctor reference. Diagnosis is not selected.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	// UpdateFields writes only the given columns.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByNurse loads every patient assigned to the nurse, diagnosis included.
	ListByNurse(ctx context.Context, nurseID uuid.UUID) ([]model.Patient, error)
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func refColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "role")
}

// Create creates a new patient record.
func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Omit("Doctor", "Nurse").Create(patient).Error
}

// FindByID finds a patient by ID.
func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).
		Omit("diagnosis").
		Preload("Doctor", refColumns).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// UpdateFields updates the given columns of a patient.
func (r *patientRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Patient{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a patient.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByNurse lists the patients assigned to a nurse.
func (r *patientRepository) ListByNurse(ctx context.Context, nurseID uuid.UUID) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).
		Preload("Doctor", refColumns).
		Preload("Nurse", refColumns).
		Where("nurse_id = ?", nurseID).
		Order("created_at").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
