package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicrbac/internal/errors"
	"clinicrbac/internal/model"
	"clinicrbac/internal/service"
)

// DoctorHandler exposes patient management to doctors.
type DoctorHandler struct {
	doctorService service.DoctorService
}

// NewDoctorHandler creates a new doctor handler.
func NewDoctorHandler(doctorService service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

// CreatePatientRequest represents a patient intake.
type CreatePatientRequest struct {
	Name      string  `json:"name" example:"Jane Roe"`
	Diagnosis *string `json:"diagnosis,omitempty" example:"Hypertension"`
}

// UpdatePatientRequest changes only the fields that are present. A null
// diagnosis clears it.
type UpdatePatientRequest struct {
	Name      *string              `json:"name,omitempty"`
	Diagnosis model.NullableString `json:"diagnosis" swaggertype:"string" extensions:"x-nullable"`
}

// AssignNurseRequest names the nurse to assign.
type AssignNurseRequest struct {
	NurseID string `json:"nurseId" example:"9b2f6a8e-3c1d-4e5f-8a7b-6c5d4e3f2a1b"`
}

// CreatePatient godoc
// @Summary Create a patient
// @Description The calling doctor becomes the owner.
// @Tags doctor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePatientRequest true "Patient data"
// @Success 201 {object} model.PatientView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /doctor/patients [post]
func (h *DoctorHandler) CreatePatient(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patient, err := h.doctorService.CreatePatient(c.Request().Context(), identity.ID, req.Name, req.Diagnosis)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, patient)
}

// UpdatePatient godoc
// @Summary Update a patient
// @Tags doctor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param request body UpdatePatientRequest true "Fields to change"
// @Success 200 {object} model.PatientSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctor/patients/{id} [put]
func (h *DoctorHandler) UpdatePatient(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	patientID, err := parseID(c.Param("id"), errors.ErrPatientNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patient, err := h.doctorService.UpdatePatient(c.Request().Context(), identity.ID, patientID, service.PatientUpdate{
		Name:      req.Name,
		Diagnosis: req.Diagnosis,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, patient)
}

// AssignNurse godoc
// @Summary Assign a nurse to a patient
// @Tags doctor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param request body AssignNurseRequest true "Nurse"
// @Success 200 {object} model.Ref
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /doctor/patients/{id}/assign-nurse [post]
func (h *DoctorHandler) AssignNurse(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	patientID, err := parseID(c.Param("id"), errors.ErrPatientNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req AssignNurseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	nurseID, err := parseID(req.NurseID, errors.ErrNurseNotFound)
	if err != nil {
		return respondError(c, err)
	}

	ref, err := h.doctorService.AssignNurse(c.Request().Context(), identity.ID, patientID, nurseID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, ref)
}
