package app

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/cache"
	"clinicrbac/internal/config"
	"clinicrbac/internal/handler"
	"clinicrbac/internal/logger"
	"clinicrbac/internal/repository"
	"clinicrbac/internal/router"
	"clinicrbac/internal/service"
)

type options struct {
	bcryptCost int
}

// Option customises NewServer.
type Option func(*options)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// NewServer builds the echo instance with every repository, service and
// handler wired. cacheClient may be nil.
func NewServer(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, log zerolog.Logger, opts ...Option) *echo.Echo {
	o := options{bcryptCost: auth.DefaultBcryptCost}
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher(o.bcryptCost)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService)
	adminService := service.NewAdminService(userRepo, patientRepo, hasher, cacheClient)
	doctorService := service.NewDoctorService(patientRepo, userRepo)
	nurseService := service.NewNurseService(patientRepo)

	router.Register(e, jwtService, userRepo, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Admin:  handler.NewAdminHandler(adminService),
		Doctor: handler.NewDoctorHandler(doctorService),
		Nurse:  handler.NewNurseHandler(nurseService),
	})

	return e
}
