package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicrbac/internal/errors"
	"clinicrbac/internal/model"
	"clinicrbac/internal/service"
)

// AdminHandler exposes user provisioning and removal to admins.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CreateUserRequest represents a user provisioning request.
type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required" example:"nurse2@example.com"`
	Password string     `json:"password" validate:"required" example:"nurse@123"`
	Role     model.Role `json:"role" example:"nurse" enums:"doctor,nurse"`
}

// CreateUser godoc
// @Summary Create a doctor or nurse
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} model.UserView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.adminService.CreateUser(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deleting a doctor deletes their patients; deleting a nurse unassigns theirs.
// @Tags admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c.Param("id"), errors.ErrUserNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeletePatient godoc
// @Summary Delete a patient
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/patients/{id} [delete]
func (h *AdminHandler) DeletePatient(c echo.Context) error {
	id, err := parseID(c.Param("id"), errors.ErrPatientNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.adminService.DeletePatient(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUserByEmail godoc
// @Summary Look up a user by email
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} model.UserView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/email/{email} [get]
func (h *AdminHandler) GetUserByEmail(c echo.Context) error {
	user, err := h.adminService.GetUserByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
