package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/permissions"
)

func newUserServiceForTest() (*UserService, *fakeUserRepo, *fakeRoleRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	return NewUserService(userRepo, roleRepo), userRepo, roleRepo
}

func seedCommunityUser(t *testing.T, repo *fakeUserRepo, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "9000000001",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestDeleteUserProtectsAdminRoles(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()
	ctx := context.Background()

	admin := seedCommunityUser(t, repo, "admin", permissions.RoleAdmin)
	super := seedCommunityUser(t, repo, "root", permissions.RoleSuperAdmin)
	member := seedCommunityUser(t, repo, "asha", permissions.RoleMember)

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), domain.ErrAdminUserProtected)
	assert.ErrorIs(t, svc.Delete(ctx, super.ID), domain.ErrAdminUserProtected)
	require.NoError(t, svc.Delete(ctx, member.ID))

	_, err := svc.Get(ctx, member.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUnknownUser(t *testing.T) {
	svc, _, _ := newUserServiceForTest()

	assert.ErrorIs(t, svc.Delete(context.Background(), 42), domain.ErrUserNotFound)
}

func TestSetRoleValidatesAgainstRoleTable(t *testing.T) {
	svc, userRepo, roleRepo := newUserServiceForTest()
	ctx := context.Background()

	user := seedCommunityUser(t, userRepo, "asha", permissions.RoleMember)

	_, err := svc.SetRole(ctx, user.ID, "Treasurer")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	role := seedSystemRole(t, roleRepo, permissions.RoleModerator)

	updated, err := svc.SetRole(ctx, user.ID, "moderator")
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleModerator, updated.Role, "canonical role name from the table is stored")
	require.NotNil(t, updated.RoleID)
	assert.Equal(t, role.ID, *updated.RoleID)
}

func TestUpdateUser(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()
	ctx := context.Background()

	user := seedCommunityUser(t, repo, "asha", permissions.RoleMember)

	first := "  Asha "
	kul := "Bharadwaj"
	updated, err := svc.Update(ctx, user.ID, &UpdateUserInput{FirstName: &first, Kul: &kul})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.FirstName)
	assert.Equal(t, "Bharadwaj", updated.Kul)
	assert.Equal(t, "User", updated.LastName, "untouched fields keep their values")
}

func TestUpdateUserInvalidMaritalStatus(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()

	user := seedCommunityUser(t, repo, "asha", permissions.RoleMember)

	status := "complicated"
	_, err := svc.Update(context.Background(), user.ID, &UpdateUserInput{MaritalStatus: &status})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetVerified(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()
	ctx := context.Background()

	user := seedCommunityUser(t, repo, "asha", permissions.RoleMember)
	require.False(t, user.Verified)

	updated, err := svc.SetVerified(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Verified)
}

func TestSuggestReturnsNamePrefixMatches(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()
	ctx := context.Background()

	seed := func(username, first, last string) {
		require.NoError(t, repo.Create(ctx, &models.User{
			Username:  username,
			Email:     username + "@example.com",
			FirstName: first,
			LastName:  last,
			Role:      permissions.RoleMember,
			IsActive:  true,
		}))
	}
	seed("asha1", "Asha", "Patil")
	seed("ashok1", "Ashok", "Deshmukh")
	seed("ravi1", "Ravi", "Kulkarni")

	names, err := svc.Suggest(ctx, "as", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Asha Patil", "Ashok Deshmukh"}, names)

	names, err = svc.Suggest(ctx, "zz", 10)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSuggestRequiresPrefixAndCapsLimit(t *testing.T) {
	svc, repo, _ := newUserServiceForTest()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		require.NoError(t, repo.Create(ctx, &models.User{
			Username:  fmt.Sprintf("member%02d", i),
			Email:     fmt.Sprintf("member%02d@example.com", i),
			FirstName: fmt.Sprintf("Asha%02d", i),
			LastName:  "Patil",
			Role:      permissions.RoleMember,
			IsActive:  true,
		}))
	}

	names, err := svc.Suggest(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Out-of-range limits fall back to the default cap.
	names, err = svc.Suggest(ctx, "asha", 500)
	require.NoError(t, err)
	assert.Len(t, names, 10)
}
