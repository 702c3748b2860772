package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/permissions"

	"gorm.io/gorm"
)

var roleNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

// RoleService handles role management with the system-role guards
type RoleService struct {
	roleRepo   repositories.RoleRepository
	userRepo   repositories.UserRepository
	systemRepo repositories.SystemUserRepository
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo repositories.RoleRepository,
	userRepo repositories.UserRepository,
	systemRepo repositories.SystemUserRepository,
) *RoleService {
	return &RoleService{
		roleRepo:   roleRepo,
		userRepo:   userRepo,
		systemRepo: systemRepo,
	}
}

// CreateRoleInput represents role creation input
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions []string
	CreatedBy   uint
}

// UpdateRoleInput represents role update input; nil fields are untouched
type UpdateRoleInput struct {
	Name        *string
	Description *string
	Permissions []string
	UpdatedBy   uint
}

// ValidateRoleName checks name shape constraints (2-50, restricted charset)
func ValidateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 50 {
		return domain.ErrInvalidInput
	}
	if !roleNamePattern.MatchString(name) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create creates a custom role, rejecting case-insensitive name duplicates
// and permissions outside the vocabulary
func (s *RoleService) Create(ctx context.Context, input *CreateRoleInput) (*models.Role, error) {
	if err := ValidateRoleName(input.Name); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(input.Description)) < 10 {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Permissions) == 0 {
		return nil, domain.ErrInvalidPermissions
	}
	if invalid := permissions.Validate(input.Permissions); len(invalid) > 0 {
		return nil, domain.ErrInvalidPermissions
	}

	if _, err := s.roleRepo.GetByName(ctx, input.Name); err == nil {
		return nil, domain.ErrRoleAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &models.Role{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Permissions: input.Permissions,
		IsActive:    true,
		IsSystem:    false,
		IsDefault:   false,
		CreatedBy:   &input.CreatedBy,
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	log.Printf("✅ Role created: %s (%d permissions)", role.Name, len(role.Permissions))
	return role, nil
}

// Get fetches a role by ID
func (s *RoleService) Get(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

// List returns filtered roles with their member counts
func (s *RoleService) List(ctx context.Context, filter repositories.RoleFilter, offset, limit int) ([]*models.RoleResponse, int64, error) {
	roles, total, err := s.roleRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.RoleResponse, 0, len(roles))
	for _, role := range roles {
		count, err := s.MemberCount(ctx, role.Name)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, role.ToResponse(count))
	}
	return out, total, nil
}

// MemberCount counts identities of both classes referencing the role by name
func (s *RoleService) MemberCount(ctx context.Context, roleName string) (int64, error) {
	users, err := s.userRepo.CountByRoleName(ctx, roleName)
	if err != nil {
		return 0, err
	}
	system, err := s.systemRepo.CountByRoleName(ctx, roleName)
	if err != nil {
		return 0, err
	}
	return users + system, nil
}

// Update modifies a custom role. System roles are read-only through this path.
func (s *RoleService) Update(ctx context.Context, id uint, input *UpdateRoleInput) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem {
		return nil, domain.ErrSystemRoleReadOnly
	}

	if input.Name != nil && !strings.EqualFold(*input.Name, role.Name) {
		if err := ValidateRoleName(*input.Name); err != nil {
			return nil, err
		}
		if _, err := s.roleRepo.GetByName(ctx, *input.Name); err == nil {
			return nil, domain.ErrRoleAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = strings.TrimSpace(*input.Name)
	}

	if input.Description != nil {
		if len(strings.TrimSpace(*input.Description)) < 10 {
			return nil, domain.ErrInvalidInput
		}
		role.Description = strings.TrimSpace(*input.Description)
	}

	if input.Permissions != nil {
		if len(input.Permissions) == 0 {
			return nil, domain.ErrInvalidPermissions
		}
		if invalid := permissions.Validate(input.Permissions); len(invalid) > 0 {
			return nil, domain.ErrInvalidPermissions
		}
		role.Permissions = input.Permissions
	}

	role.UpdatedBy = &input.UpdatedBy
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ReplacePermissions swaps a custom role's permission set
func (s *RoleService) ReplacePermissions(ctx context.Context, id uint, perms []string, updatedBy uint) (*models.Role, error) {
	return s.Update(ctx, id, &UpdateRoleInput{Permissions: perms, UpdatedBy: updatedBy})
}

// Delete removes a custom role with no assigned identities. The error for an
// assigned role carries the count.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return domain.ErrSystemRoleReadOnly
	}

	count, err := s.MemberCount(ctx, role.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: assigned to %d user(s), reassign them before deleting", domain.ErrRoleInUse, count)
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Role deleted: %s", role.Name)
	return nil
}

// ToggleStatus flips a role's active flag. System roles cannot be deactivated.
func (s *RoleService) ToggleStatus(ctx context.Context, id uint, isActive bool, updatedBy uint) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && !isActive {
		return nil, domain.ErrSystemRoleReadOnly
	}

	role.IsActive = isActive
	role.UpdatedBy = &updatedBy
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Duplicate copies a role's permission set under a new unique name.
// The copy is never a system or default role.
func (s *RoleService) Duplicate(ctx context.Context, id uint, name, description string, createdBy uint) (*models.Role, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateRoleName(name); err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.GetByName(ctx, name); err == nil {
		return nil, domain.ErrRoleAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		description = "Copy of " + source.Name + ": " + source.Description
	}

	perms := make(models.PermissionList, len(source.Permissions))
	copy(perms, source.Permissions)

	role := &models.Role{
		Name:        strings.TrimSpace(name),
		Description: description,
		Permissions: perms,
		IsActive:    true,
		IsSystem:    false,
		IsDefault:   false,
		CreatedBy:   &createdBy,
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	log.Printf("✅ Role duplicated: %s -> %s", source.Name, role.Name)
	return role, nil
}

// RoleStats summarizes the role table
type RoleStats struct {
	Total       int64                `json:"total"`
	SystemRoles int64                `json:"system_roles"`
	CustomRoles int64                `json:"custom_roles"`
	ByMembers   []RoleMemberCount    `json:"by_members"`
}

// RoleMemberCount pairs a role name with its assignment count
type RoleMemberCount struct {
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
}

// Stats returns role table totals and per-role assignment counts
func (s *RoleService) Stats(ctx context.Context) (*RoleStats, error) {
	system, err := s.roleRepo.CountSystem(ctx)
	if err != nil {
		return nil, err
	}
	custom, err := s.roleRepo.CountCustom(ctx)
	if err != nil {
		return nil, err
	}

	roles, _, err := s.roleRepo.List(ctx, repositories.RoleFilter{}, 0, 1000)
	if err != nil {
		return nil, err
	}

	stats := &RoleStats{
		Total:       system + custom,
		SystemRoles: system,
		CustomRoles: custom,
	}
	for _, role := range roles {
		count, err := s.MemberCount(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		stats.ByMembers = append(stats.ByMembers, RoleMemberCount{Name: role.Name, MemberCount: count})
	}
	return stats, nil
}
