package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/cache"
	"clinicrbac/internal/errors"
	"clinicrbac/internal/model"
	"clinicrbac/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// AdminService provisions and removes users and removes patients.
type AdminService interface {
	CreateUser(ctx context.Context, email, password string, role model.Role) (*model.UserView, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
	GetUserByEmail(ctx context.Context, email string) (*model.UserView, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	hasher      *auth.PasswordHasher
	cache       *cache.Client
}

// NewAdminService builds an AdminService. cache may be nil.
func NewAdminService(userRepo repository.UserRepository, patientRepo repository.PatientRepository, hasher *auth.PasswordHasher, cache *cache.Client) AdminService {
	return &adminService{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		hasher:      hasher,
		cache:       cache,
	}
}

// cacheKey is case-insensitive so lookups and invalidation agree on stores
// whose email collation ignores case.
func (s *adminService) cacheKey(email string) string {
	return fmt.Sprintf("user:email:%s", strings.ToLower(email))
}

// CreateUser provisions a doctor or nurse account.
func (s *adminService) CreateUser(ctx context.Context, email, password string, role model.Role) (*model.UserView, error) {
	if email == "" || password == "" {
		return nil, errors.InvalidInput("Email and password are required")
	}
	if role != model.RoleDoctor && role != model.RoleNurse {
		return nil, errors.ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrUserAlreadyExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	view := user.View()
	return &view, nil
}

// DeleteUser removes a user of any role.
func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(user.Email))
	return nil
}

// DeletePatient removes a patient record.
func (s *adminService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPatientNotFound
		}
		return fmt.Errorf("find patient: %w", err)
	}

	if err := s.patientRepo.Delete(ctx, patient.ID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPatientNotFound
		}
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

// GetUserByEmail returns the public view of a user, read through the cache.
func (s *adminService) GetUserByEmail(ctx context.Context, email string) (*model.UserView, error) {
	var cached model.UserView
	if s.cache.GetJSON(ctx, s.cacheKey(email), &cached) {
		return &cached, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	view := user.View()
	_ = s.cache.SetJSON(ctx, s.cacheKey(email), view, userCacheTTL)
	return &view, nil
}
