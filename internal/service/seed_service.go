package service

import (
	"context"
	"fmt"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/model"
	"clinicrbac/internal/repository"
)

// SeedUser is a sample account with its plaintext password.
type SeedUser struct {
	Email    string
	Password string
	Role     model.Role
}

// DefaultSeedUsers are the sample accounts created on an empty database.
var DefaultSeedUsers = []SeedUser{
	{Email: "admin@example.com", Password: "admin@123", Role: model.RoleAdmin},
	{Email: "doctor@example.com", Password: "doctor@123", Role: model.RoleDoctor},
	{Email: "nurse@example.com", Password: "nurse@123", Role: model.RoleNurse},
	{Email: "doctor2@example.com", Password: "doctor@123", Role: model.RoleDoctor},
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Skipped  bool
	Created  []model.UserView
	Existing []model.UserView
}

// SeedService populates an empty users table. Unlike AdminService it may
// create users of any role, admins included.
type SeedService interface {
	SeedUsers(ctx context.Context, users []SeedUser) (*SeedResult, error)
}

type seedService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
}

// NewSeedService creates a new seed service.
func NewSeedService(userRepo repository.UserRepository, hasher *auth.PasswordHasher) SeedService {
	return &seedService{userRepo: userRepo, hasher: hasher}
}

// SeedUsers creates users only when none exist yet.
func (s *seedService) SeedUsers(ctx context.Context, users []SeedUser) (*SeedResult, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if count > 0 {
		existing, err := s.userRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		result := &SeedResult{Skipped: true}
		for i := range existing {
			result.Existing = append(result.Existing, existing[i].View())
		}
		return result, nil
	}

	result := &SeedResult{}
	for _, su := range users {
		if !su.Role.Valid() {
			return result, fmt.Errorf("seed user %s: invalid role %q", su.Email, su.Role)
		}
		hash, err := s.hasher.Hash(su.Password)
		if err != nil {
			return result, err
		}
		user := &model.User{Email: su.Email, PasswordHash: hash, Role: su.Role}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return result, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		result.Created = append(result.Created, user.View())
	}
	return result, nil
}
