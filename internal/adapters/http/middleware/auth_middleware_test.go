package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/config"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/jwt"

	"gorm.io/gorm"
)

const (
	testCommunitySecret = "community-test-secret"
	testSystemSecret    = "system-test-secret"
)

// stubUserRepo serves a single community user by ID; unused interface
// methods panic if reached
type stubUserRepo struct {
	repositories.UserRepository
	user *models.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSystemUserRepo struct {
	repositories.SystemUserRepository
	user *models.SystemUser
}

func (s *stubSystemUserRepo) GetByID(_ context.Context, id uint) (*models.SystemUser, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubRoleRepo struct {
	repositories.RoleRepository
}

func (s *stubRoleRepo) GetByID(_ context.Context, _ uint) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRoleRepo) GetByName(_ context.Context, _ string) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

func systemTestUser() *models.SystemUser {
	user := &models.SystemUser{
		Username:       "ravi",
		EmployeeID:     "IT0042",
		Department:     "IT",
		Role:           "Admin",
		AccessLevel:    3,
		Verified:       true,
		IsActive:       true,
		PasswordExpiry: time.Now().Add(24 * time.Hour),
	}
	user.ID = 1
	return user
}

func timeNowPlusHour() time.Time {
	return time.Now().Add(time.Hour)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:       testCommunitySecret,
			SystemSecret: testSystemSecret,
		},
	}
}

func newUnifiedApp(t *testing.T, userRepo repositories.UserRepository, systemRepo repositories.SystemUserRepository) *fiber.App {
	t.Helper()
	perms := services.NewPermissionService(&stubRoleRepo{})

	app := fiber.New()
	app.Get("/protected", UnifiedAuth(testAuthConfig(), userRepo, systemRepo, perms), func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(p.UserType)
	})
	return app
}

func protectedRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestUnifiedAuthAcceptsCommunityToken(t *testing.T) {
	user := &models.User{
		Username: "asha",
		Email:    "asha@example.com",
		Role:     "Member",
		Verified: true,
		IsActive: true,
	}
	user.ID = 1

	app := newUnifiedApp(t, &stubUserRepo{user: user}, &stubSystemUserRepo{})

	token, err := jwt.GenerateCommunityToken(1, "asha", "asha@example.com", "Member", nil, testCommunitySecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnifiedAuthAcceptsSystemToken(t *testing.T) {
	user := systemTestUser()
	app := newUnifiedApp(t, &stubUserRepo{}, &stubSystemUserRepo{user: user})

	token, err := jwt.GenerateSystemToken(1, "ravi", "IT0042", "IT", "Admin", 3, nil, testSystemSecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnifiedAuthRejectsCrossSignedTokens(t *testing.T) {
	user := systemTestUser()
	app := newUnifiedApp(t, &stubUserRepo{}, &stubSystemUserRepo{user: user})

	// System claims signed with the community secret must not pass the
	// system surface, and vice versa
	crossSigned, err := jwt.GenerateSystemToken(1, "ravi", "IT0042", "IT", "Admin", 3, nil, testCommunitySecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, crossSigned)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnifiedAuthRejectsMissingAndGarbageTokens(t *testing.T) {
	app := newUnifiedApp(t, &stubUserRepo{}, &stubSystemUserRepo{})

	resp := protectedRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = protectedRequest(t, app, "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnifiedAuthRejectsDeletedUser(t *testing.T) {
	app := newUnifiedApp(t, &stubUserRepo{}, &stubSystemUserRepo{})

	token, err := jwt.GenerateCommunityToken(7, "ghost", "ghost@example.com", "Member", nil, testCommunitySecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnifiedAuthRejectsUnverifiedUser(t *testing.T) {
	user := &models.User{
		Username: "asha",
		Email:    "asha@example.com",
		Role:     "Member",
		Verified: false,
		IsActive: true,
	}
	user.ID = 1

	app := newUnifiedApp(t, &stubUserRepo{user: user}, &stubSystemUserRepo{})

	token, err := jwt.GenerateCommunityToken(1, "asha", "asha@example.com", "Member", nil, testCommunitySecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSystemAuthLockedAccount(t *testing.T) {
	user := systemTestUser()
	lockUntil := timeNowPlusHour()
	user.LockUntil = &lockUntil

	perms := services.NewPermissionService(&stubRoleRepo{})
	app := fiber.New()
	app.Get("/protected", SystemAuth(testAuthConfig(), &stubSystemUserRepo{user: user}, perms), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	token, err := jwt.GenerateSystemToken(1, "ravi", "IT0042", "IT", "Admin", 3, nil, testSystemSecret)
	require.NoError(t, err)

	resp := protectedRequest(t, app, token)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
}
