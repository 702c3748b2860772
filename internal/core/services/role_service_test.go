package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/permissions"
)

func newRoleServiceForTest() (*RoleService, *fakeRoleRepo, *fakeUserRepo, *fakeSystemUserRepo) {
	roleRepo := newFakeRoleRepo()
	userRepo := newFakeUserRepo()
	systemRepo := newFakeSystemUserRepo()
	return NewRoleService(roleRepo, userRepo, systemRepo), roleRepo, userRepo, systemRepo
}

func seedSystemRole(t *testing.T, repo *fakeRoleRepo, name string) *models.Role {
	t.Helper()
	role := &models.Role{
		Name:        name,
		Description: "Seeded built-in role for testing",
		Permissions: models.PermissionList(permissions.DefaultFor(name)),
		IsActive:    true,
		IsSystem:    true,
		IsDefault:   true,
	}
	require.NoError(t, repo.Create(context.Background(), role))
	return role
}

func TestCreateRole(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()

	role, err := svc.Create(context.Background(), &CreateRoleInput{
		Name:        "Event Coordinator",
		Description: "Manages community events and announcements",
		Permissions: []string{permissions.EventsRead, permissions.EventsCreate, permissions.EventsUpdate},
		CreatedBy:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Event Coordinator", role.Name)
	assert.False(t, role.IsSystem)
	assert.True(t, role.IsActive)
	assert.Len(t, role.Permissions, 3)
}

func TestCreateRoleValidation(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "X",
		Description: "A long enough description",
		Permissions: []string{permissions.EventsRead},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, &CreateRoleInput{
		Name:        "Coordinator",
		Description: "short",
		Permissions: []string{permissions.EventsRead},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, &CreateRoleInput{
		Name:        "Coordinator",
		Description: "A long enough description",
		Permissions: nil,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissions)

	_, err = svc.Create(ctx, &CreateRoleInput{
		Name:        "Coordinator",
		Description: "A long enough description",
		Permissions: []string{"events:explode"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPermissions)
}

func TestCreateRoleCaseInsensitiveDuplicate(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateRoleInput{
		Name:        "TREASURER",
		Description: "Handles community finances too",
		Permissions: []string{permissions.AnalyticsRead},
	})
	assert.ErrorIs(t, err, domain.ErrRoleAlreadyExists)
}

func TestSystemRoleGuards(t *testing.T) {
	svc, roleRepo, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	admin := seedSystemRole(t, roleRepo, permissions.RoleAdmin)

	newName := "Renamed Admin"
	_, err := svc.Update(ctx, admin.ID, &UpdateRoleInput{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrSystemRoleReadOnly)

	_, err = svc.ReplacePermissions(ctx, admin.ID, []string{permissions.MembersRead}, 1)
	assert.ErrorIs(t, err, domain.ErrSystemRoleReadOnly)

	err = svc.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, domain.ErrSystemRoleReadOnly)

	_, err = svc.ToggleStatus(ctx, admin.ID, false, 1)
	assert.ErrorIs(t, err, domain.ErrSystemRoleReadOnly)

	// Re-activating a system role is allowed
	_, err = svc.ToggleStatus(ctx, admin.ID, true, 1)
	assert.NoError(t, err)
}

func TestDeleteRoleWithAssignedMembers(t *testing.T) {
	svc, _, userRepo, systemRepo := newRoleServiceForTest()
	ctx := context.Background()

	role, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	require.NoError(t, userRepo.Create(ctx, &models.User{Username: "asha", Role: "Treasurer"}))
	require.NoError(t, userRepo.Create(ctx, &models.User{Username: "meera", Role: "treasurer"}))
	require.NoError(t, systemRepo.Create(ctx, &models.SystemUser{Username: "ravi", Role: "Treasurer"}))

	err = svc.Delete(ctx, role.ID)
	assert.ErrorIs(t, err, domain.ErrRoleInUse)
	assert.Contains(t, err.Error(), "assigned to 3 user(s)")
}

func TestDeleteUnassignedRole(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	role, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, role.ID))

	_, err = svc.Get(ctx, role.ID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestUpdateRole(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	role, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	newName := "Senior Treasurer"
	newDesc := "Handles finances and annual audits"
	updated, err := svc.Update(ctx, role.ID, &UpdateRoleInput{
		Name:        &newName,
		Description: &newDesc,
		Permissions: []string{permissions.AnalyticsRead, permissions.SettingsRead},
		UpdatedBy:   9,
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Treasurer", updated.Name)
	assert.Equal(t, "Handles finances and annual audits", updated.Description)
	assert.Len(t, updated.Permissions, 2)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, uint(9), *updated.UpdatedBy)
}

func TestUpdateRoleRenameCollision(t *testing.T) {
	svc, _, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Auditor",
		Description: "Reviews community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	collision := "treasurer"
	_, err = svc.Update(ctx, second.ID, &UpdateRoleInput{Name: &collision})
	assert.ErrorIs(t, err, domain.ErrRoleAlreadyExists)
}

func TestDuplicateRole(t *testing.T) {
	svc, roleRepo, _, _ := newRoleServiceForTest()
	ctx := context.Background()

	admin := seedSystemRole(t, roleRepo, permissions.RoleAdmin)

	dup, err := svc.Duplicate(ctx, admin.ID, "Regional Admin", "", 3)
	require.NoError(t, err)

	assert.Equal(t, "Regional Admin", dup.Name)
	assert.False(t, dup.IsSystem)
	assert.False(t, dup.IsDefault)
	assert.ElementsMatch(t, admin.Permissions, dup.Permissions)
	assert.Contains(t, dup.Description, "Copy of "+permissions.RoleAdmin)

	_, err = svc.Duplicate(ctx, admin.ID, "Regional Admin", "", 3)
	assert.ErrorIs(t, err, domain.ErrRoleAlreadyExists)
}

func TestRoleStats(t *testing.T) {
	svc, roleRepo, userRepo, _ := newRoleServiceForTest()
	ctx := context.Background()

	seedSystemRole(t, roleRepo, permissions.RoleAdmin)
	seedSystemRole(t, roleRepo, permissions.RoleMember)
	_, err := svc.Create(ctx, &CreateRoleInput{
		Name:        "Treasurer",
		Description: "Handles community finances",
		Permissions: []string{permissions.AnalyticsRead},
	})
	require.NoError(t, err)

	require.NoError(t, userRepo.Create(ctx, &models.User{Username: "asha", Role: permissions.RoleMember}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.SystemRoles)
	assert.Equal(t, int64(1), stats.CustomRoles)
}
