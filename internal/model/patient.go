package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a record owned by exactly one doctor and optionally followed by a nurse.
//
// Diagnosis is not loaded by default reads; repositories select it explicitly.
type Patient struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Diagnosis *string    `json:"-" gorm:"type:text"`
	DoctorID  uuid.UUID  `json:"-" gorm:"type:char(36);not null;index"`
	NurseID   *uuid.UUID `json:"-" gorm:"type:char(36);index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Doctor *User `json:"-" gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE"`
	Nurse  *User `json:"-" gorm:"foreignKey:NurseID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether doctorID is the patient's doctor.
func (p *Patient) OwnedBy(doctorID uuid.UUID) bool {
	if p.Doctor != nil {
		return p.Doctor.ID == doctorID
	}
	return p.DoctorID == doctorID
}

// View maps the patient to its public shape, diagnosis included.
func (p *Patient) View() PatientView {
	v := PatientView{ID: p.ID, Name: p.Name, Diagnosis: p.Diagnosis}
	switch {
	case p.Doctor != nil:
		v.Doctor = &Ref{ID: p.Doctor.ID}
	case p.DoctorID != uuid.Nil:
		v.Doctor = &Ref{ID: p.DoctorID}
	}
	switch {
	case p.Nurse != nil:
		v.Nurse = &Ref{ID: p.Nurse.ID}
	case p.NurseID != nil:
		v.Nurse = &Ref{ID: *p.NurseID}
	}
	return v
}

// Ref points at another record by id.
type Ref struct {
	ID uuid.UUID `json:"id"`
}

// PatientView is the serialized patient, with doctor and nurse reduced to ids.
type PatientView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Diagnosis *string   `json:"diagnosis"`
	Doctor    *Ref      `json:"doctor"`
	Nurse     *Ref      `json:"nurse"`
}

// PatientSummary is returned after an update.
type PatientSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
