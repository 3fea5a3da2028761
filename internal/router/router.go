package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/handler"
	"clinicrbac/internal/middleware"
	"clinicrbac/internal/model"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Doctor *handler.DoctorHandler
	Nurse  *handler.NurseHandler
}

// Register wires routes and the authentication and role gates.
func Register(e *echo.Echo, jwtService *auth.JWTService, users middleware.IdentityLoader, h Handlers) {
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/login", h.Auth.Login)

	authenticate := middleware.Authenticate(jwtService, users)

	admin := e.Group("/admin", authenticate, middleware.RequireRole(model.RoleAdmin))
	admin.POST("/users", h.Admin.CreateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.DELETE("/patients/:id", h.Admin.DeletePatient)
	admin.GET("/users/email/:email", h.Admin.GetUserByEmail)

	doctor := e.Group("/doctor", authenticate, middleware.RequireRole(model.RoleDoctor))
	doctor.POST("/patients", h.Doctor.CreatePatient)
	doctor.PUT("/patients/:id", h.Doctor.UpdatePatient)
	doctor.POST("/patients/:id/assign-nurse", h.Doctor.AssignNurse)

	nurse := e.Group("/nurse", authenticate, middleware.RequireRole(model.RoleNurse))
	nurse.GET("/patients", h.Nurse.GetAssignedPatients)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
