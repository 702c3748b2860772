package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/config"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/permissions"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:       "community-test-secret",
			SystemSecret: "system-test-secret",
		},
	}
}

func newSystemAuthForTest(t *testing.T) (*SystemAuthService, *fakeSystemUserRepo, *fakeRoleRepo) {
	t.Helper()
	systemRepo := newFakeSystemUserRepo()
	roleRepo := newFakeRoleRepo()
	svc := NewSystemAuthService(systemRepo, NewPermissionService(roleRepo), testConfig())
	return svc, systemRepo, roleRepo
}

func seedSystemUser(t *testing.T, repo *fakeSystemUserRepo, mutate func(*models.SystemUser)) *models.SystemUser {
	t.Helper()
	hashed, err := password.HashSystem("correct-horse-battery")
	require.NoError(t, err)

	now := time.Now()
	user := &models.SystemUser{
		Username:           "ravi",
		Email:              "ravi@example.com",
		Password:           hashed,
		EmployeeID:         "IT0042",
		Department:         "IT",
		Designation:        "Engineer",
		FirstName:          "Ravi",
		LastName:           "Sharma",
		Phone:              "9876543210",
		Role:               permissions.RoleAdmin,
		AccessLevel:        3,
		Verified:           true,
		IsActive:           true,
		LastPasswordChange: now,
		PasswordExpiry:     now.AddDate(0, 0, models.PasswordExpiryDays),
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestSystemLoginSuccess(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)

	seedSystemUser(t, repo, nil)

	result, err := svc.Login(context.Background(), &SystemLoginInput{
		Username: "ravi",
		Password: "correct-horse-battery",
		IP:       "10.0.0.1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "8h", result.ExpiresIn)
	assert.Equal(t, "ravi", result.User.Username)

	stored, err := repo.GetByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", stored.LastLoginIP)
	require.NotNil(t, stored.LastLogin)
}

func TestSystemLoginWrongPassword(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)

	user := seedSystemUser(t, repo, nil)

	_, err := svc.Login(context.Background(), &SystemLoginInput{Username: "ravi", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	stored, _ := repo.GetByID(context.Background(), user.ID)
	assert.Equal(t, 1, stored.LoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestSystemLoginUnknownUser(t *testing.T) {
	svc, _, _ := newSystemAuthForTest(t)

	_, err := svc.Login(context.Background(), &SystemLoginInput{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSystemLoginLockoutAfterMaxAttempts(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)
	ctx := context.Background()

	user := seedSystemUser(t, repo, nil)

	for i := 0; i < models.MaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	require.NotNil(t, stored.LockUntil)
	assert.True(t, stored.IsLocked())

	// Even the correct password is rejected while locked
	_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestSystemLoginExpiredLockoutRestartsCount(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	user := seedSystemUser(t, repo, func(u *models.SystemUser) {
		u.LoginAttempts = models.MaxLoginAttempts
		u.LockUntil = &past
	})

	// Lock has elapsed, correct credentials succeed and reset the counter
	_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
	require.NoError(t, err)

	stored, _ := repo.GetByID(ctx, user.ID)
	assert.Zero(t, stored.LoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestSystemLoginGateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("locked wins over unverified", func(t *testing.T) {
		svc, repo, _ := newSystemAuthForTest(t)
		future := time.Now().Add(time.Hour)
		seedSystemUser(t, repo, func(u *models.SystemUser) {
			u.LockUntil = &future
			u.Verified = false
			u.IsActive = false
		})

		_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
		assert.ErrorIs(t, err, domain.ErrAccountLocked)
	})

	t.Run("unverified wins over inactive", func(t *testing.T) {
		svc, repo, _ := newSystemAuthForTest(t)
		seedSystemUser(t, repo, func(u *models.SystemUser) {
			u.Verified = false
			u.IsActive = false
		})

		_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
		assert.ErrorIs(t, err, domain.ErrUserNotVerified)
	})

	t.Run("inactive wins over expired password", func(t *testing.T) {
		svc, repo, _ := newSystemAuthForTest(t)
		seedSystemUser(t, repo, func(u *models.SystemUser) {
			u.IsActive = false
			u.PasswordExpiry = time.Now().Add(-time.Hour)
		})

		_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})

	t.Run("expired password blocks valid credentials", func(t *testing.T) {
		svc, repo, _ := newSystemAuthForTest(t)
		seedSystemUser(t, repo, func(u *models.SystemUser) {
			u.PasswordExpiry = time.Now().Add(-time.Hour)
		})

		_, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
		assert.ErrorIs(t, err, domain.ErrPasswordExpired)
	})
}

func TestSystemRegister(t *testing.T) {
	svc, _, _ := newSystemAuthForTest(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &SystemRegisterInput{
		Username:    "Meera",
		Email:       "Meera@Example.com",
		Password:    "a-long-system-password",
		EmployeeID:  "hr1234",
		Department:  "HR",
		Designation: "Manager",
		FirstName:   "Meera",
		LastName:    "Iyer",
		Phone:       "9876500000",
		Role:        permissions.RoleModerator,
		AccessLevel: 9,
		CreatedBy:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, "meera", result.User.Username)
	assert.Equal(t, "HR1234", result.User.EmployeeID)
	assert.Equal(t, 1, result.User.AccessLevel, "out-of-range access level clamps to 1")
	assert.True(t, result.User.Verified)
}

func TestSystemRegisterInvalidEmployeeID(t *testing.T) {
	svc, _, _ := newSystemAuthForTest(t)

	for _, id := range []string{"A1234", "ABCDE1234", "IT123", "IT1234567", "1234IT"} {
		_, err := svc.Register(context.Background(), &SystemRegisterInput{
			Username:    "meera",
			Email:       "meera@example.com",
			Password:    "a-long-system-password",
			EmployeeID:  id,
			Department:  "HR",
			Designation: "Manager",
			FirstName:   "Meera",
			LastName:    "Iyer",
			Phone:       "9876500000",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "employee ID %q should be rejected", id)
	}
}

func TestSystemRegisterDuplicateEmployeeID(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)

	seedSystemUser(t, repo, nil)

	_, err := svc.Register(context.Background(), &SystemRegisterInput{
		Username:    "meera",
		Email:       "meera@example.com",
		Password:    "a-long-system-password",
		EmployeeID:  "IT0042",
		Department:  "IT",
		Designation: "Engineer",
		FirstName:   "Meera",
		LastName:    "Iyer",
		Phone:       "9876500000",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestSystemChangePassword(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)
	ctx := context.Background()

	user := seedSystemUser(t, repo, func(u *models.SystemUser) {
		u.PasswordExpiry = time.Now().Add(24 * time.Hour)
	})

	err := svc.ChangePassword(ctx, user.ID, "wrong-current", "a-new-system-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "correct-horse-battery", "a-new-system-password"))

	stored, _ := repo.GetByID(ctx, user.ID)
	assert.True(t, password.Verify("a-new-system-password", stored.Password))
	assert.True(t, stored.PasswordExpiry.After(time.Now().AddDate(0, 0, models.PasswordExpiryDays-1)))

	// New password works for login
	_, err = svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "a-new-system-password"})
	assert.NoError(t, err)
}

func TestSystemTokenValidation(t *testing.T) {
	svc, repo, _ := newSystemAuthForTest(t)
	ctx := context.Background()

	seedSystemUser(t, repo, nil)

	result, err := svc.Login(ctx, &SystemLoginInput{Username: "ravi", Password: "correct-horse-battery"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "IT0042", claims.EmployeeID)
	assert.Equal(t, 3, claims.AccessLevel)

	// A community-signed token is rejected on the system surface
	communityAuth := NewAuthService(newFakeUserRepo(), NewPermissionService(newFakeRoleRepo()), testConfig())
	communityResult, err := communityAuth.Register(ctx, &RegisterInput{
		Username:  "asha",
		Email:     "asha@example.com",
		Password:  "communitypass",
		FirstName: "Asha",
		LastName:  "Patil",
		Phone:     "9000000000",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(communityResult.Token)
	assert.Error(t, err)
}
