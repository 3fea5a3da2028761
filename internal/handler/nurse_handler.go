package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicrbac/internal/service"
)

// NurseHandler exposes assigned patients to nurses.
type NurseHandler struct {
	nurseService service.NurseService
}

// NewNurseHandler creates a new nurse handler.
func NewNurseHandler(nurseService service.NurseService) *NurseHandler {
	return &NurseHandler{nurseService: nurseService}
}

// GetAssignedPatients godoc
// @Summary List patients assigned to the calling nurse
// @Tags nurse
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PatientView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /nurse/patients [get]
func (h *NurseHandler) GetAssignedPatients(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	patients, err := h.nurseService.GetAssignedPatients(c.Request().Context(), identity.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, patients)
}
