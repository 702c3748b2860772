package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/password"

	"gorm.io/gorm"
)

// SystemUserService handles system user management
type SystemUserService struct {
	systemRepo repositories.SystemUserRepository
	roleRepo   repositories.RoleRepository
}

// NewSystemUserService creates a new system user service
func NewSystemUserService(systemRepo repositories.SystemUserRepository, roleRepo repositories.RoleRepository) *SystemUserService {
	return &SystemUserService{systemRepo: systemRepo, roleRepo: roleRepo}
}

// UpdateSystemUserInput carries optional fields; nil fields are untouched
type UpdateSystemUserInput struct {
	Department  *string
	Designation *string
	FirstName   *string
	MiddleName  *string
	LastName    *string
	Phone       *string
	Role        *string
	AccessLevel *int
}

// Get fetches a system user
func (s *SystemUserService) Get(ctx context.Context, id uint) (*models.SystemUser, error) {
	user, err := s.systemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns filtered, paginated system users
func (s *SystemUserService) List(ctx context.Context, filter repositories.SystemUserFilter, offset, limit int) ([]*models.SystemUser, int64, error) {
	return s.systemRepo.List(ctx, filter, offset, limit)
}

// Update applies changes, validating department and role names
func (s *SystemUserService) Update(ctx context.Context, id uint, input *UpdateSystemUserInput) (*models.SystemUser, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Department != nil {
		if !models.IsValidDepartment(*input.Department) {
			return nil, domain.ErrInvalidInput
		}
		user.Department = *input.Department
	}
	if input.Designation != nil {
		user.Designation = strings.TrimSpace(*input.Designation)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		user.MiddleName = strings.TrimSpace(*input.MiddleName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		role, err := s.roleRepo.GetByName(ctx, *input.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrRoleNotFound
			}
			return nil, err
		}
		user.Role = role.Name
		user.RoleID = &role.ID
	}
	if input.AccessLevel != nil {
		if *input.AccessLevel < 1 || *input.AccessLevel > 5 {
			return nil, domain.ErrInvalidInput
		}
		user.AccessLevel = *input.AccessLevel
	}

	if err := s.systemRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a system user. Self-deletion is rejected.
func (s *SystemUserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return domain.ErrSelfDeactivation
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.systemRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ System user deleted: %s [%s]", user.Username, user.EmployeeID)
	return nil
}

// SetActive toggles the active flag. Self-deactivation is rejected.
func (s *SystemUserService) SetActive(ctx context.Context, id, actorID uint, active bool) (*models.SystemUser, error) {
	if id == actorID && !active {
		return nil, domain.ErrSelfDeactivation
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.systemRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Unlock clears the lockout state and attempt counter
func (s *SystemUserService) Unlock(ctx context.Context, id uint) (*models.SystemUser, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.LoginAttempts = 0
	user.LockUntil = nil
	if err := s.systemRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ System account unlocked: %s", user.Username)
	return user, nil
}

// ResetPassword applies an admin-supplied password and restarts the expiry
// window. Requires access level 4 or above, enforced at the route.
func (s *SystemUserService) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hashed, err := password.HashSystem(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user.Password = hashed
	user.LastPasswordChange = now
	user.PasswordExpiry = now.Add(models.PasswordExpiryDays * 24 * time.Hour)
	user.LoginAttempts = 0
	user.LockUntil = nil
	if err := s.systemRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ System password reset: %s", user.Username)
	return nil
}

// SystemUserStats summarizes the system user table
type SystemUserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
}

// Stats returns system user totals
func (s *SystemUserService) Stats(ctx context.Context) (*SystemUserStats, error) {
	total, err := s.systemRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	active := true
	_, activeCount, err := s.systemRepo.List(ctx, repositories.SystemUserFilter{IsActive: &active}, 0, 1)
	if err != nil {
		return nil, err
	}

	locked := true
	_, lockedCount, err := s.systemRepo.List(ctx, repositories.SystemUserFilter{Locked: &locked}, 0, 1)
	if err != nil {
		return nil, err
	}

	return &SystemUserStats{
		Total:    total,
		Active:   activeCount,
		Inactive: total - activeCount,
		Locked:   lockedCount,
	}, nil
}
