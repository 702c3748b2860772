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
	"samajhub/internal/pkg/permissions"

	"gorm.io/gorm"
)

// UserService handles community user management
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo}
}

// UpdateUserInput carries optional profile fields; nil fields are untouched
type UpdateUserInput struct {
	FirstName      *string
	MiddleName     *string
	LastName       *string
	Phone          *string
	PAN            *string
	Adhar          *string
	MaritalStatus  *string
	DateOfBirth    *time.Time
	DateOfMarriage *time.Time
	Kul            *string
	Gotra          *string
	FatherName     *string
	MotherName     *string
	ChildrenName   *string
}

// Get fetches a community user
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns filtered, paginated users
func (s *UserService) List(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, filter, offset, limit)
}

// Update applies profile changes
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.MaritalStatus != nil && !models.IsValidMaritalStatus(*input.MaritalStatus) {
		return nil, domain.ErrInvalidInput
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&user.FirstName, input.FirstName)
	apply(&user.MiddleName, input.MiddleName)
	apply(&user.LastName, input.LastName)
	apply(&user.Phone, input.Phone)
	apply(&user.PAN, input.PAN)
	apply(&user.Adhar, input.Adhar)
	apply(&user.MaritalStatus, input.MaritalStatus)
	apply(&user.Kul, input.Kul)
	apply(&user.Gotra, input.Gotra)
	apply(&user.FatherName, input.FatherName)
	apply(&user.MotherName, input.MotherName)
	apply(&user.ChildrenName, input.ChildrenName)
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.DateOfMarriage != nil {
		user.DateOfMarriage = input.DateOfMarriage
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a community user. Admin-role users are protected.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == permissions.RoleSuperAdmin || user.Role == permissions.RoleAdmin {
		return domain.ErrAdminUserProtected
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Community user deleted: %s", user.Username)
	return nil
}

// SetVerified toggles the verification flag
func (s *UserService) SetVerified(ctx context.Context, id uint, verified bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Verified = verified
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole reassigns a user's role, validating the name against the Role table
func (s *UserService) SetRole(ctx context.Context, id uint, roleName string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}

	user.Role = role.Name
	user.RoleID = &role.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Role reassigned: %s -> %s", user.Username, role.Name)
	return user, nil
}

// ChangePassword verifies the current password and applies a new one
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !password.Verify(current, user.Password) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(next)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// Search finds users by partial name or username match
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.userRepo.Search(ctx, query, limit)
}

// Suggest returns name suggestions starting with the prefix, capped at 20
func (s *UserService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if limit < 1 || limit > 20 {
		limit = 10
	}
	return s.userRepo.Suggest(ctx, prefix, limit)
}
