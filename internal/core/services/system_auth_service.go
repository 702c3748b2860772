package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/config"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/jwt"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/permissions"

	"gorm.io/gorm"
)

var employeeIDPattern = regexp.MustCompile(`^[A-Z]{2,4}\d{4,6}$`)

// SystemAuthService handles system (staff) authentication, including the
// failed-attempt lockout policy
type SystemAuthService struct {
	systemRepo  repositories.SystemUserRepository
	permissions *PermissionService
	cfg         *config.Config
}

// NewSystemAuthService creates a new system auth service
func NewSystemAuthService(systemRepo repositories.SystemUserRepository, permSvc *PermissionService, cfg *config.Config) *SystemAuthService {
	return &SystemAuthService{
		systemRepo:  systemRepo,
		permissions: permSvc,
		cfg:         cfg,
	}
}

// SystemLoginInput represents system login input
type SystemLoginInput struct {
	Username string
	Password string
	IP       string
}

// SystemRegisterInput represents system user creation input
type SystemRegisterInput struct {
	Username    string
	Email       string
	Password    string
	EmployeeID  string
	Department  string
	Designation string
	FirstName   string
	MiddleName  string
	LastName    string
	Phone       string
	Role        string
	AccessLevel int
	CreatedBy   uint
}

// SystemAuthResult bundles a system token with its identity
type SystemAuthResult struct {
	User      *models.SystemUserResponse `json:"user"`
	Token     string                     `json:"token"`
	ExpiresIn string                     `json:"expires_in"`
}

// Login authenticates a system user. Order of gates: lockout (423-class)
// before verified/active/password-expiry (403-class) before credential check.
func (s *SystemAuthService) Login(ctx context.Context, input *SystemLoginInput) (*SystemAuthResult, error) {
	user, err := s.systemRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, domain.ErrAccountLocked
	}

	if !user.Verified {
		return nil, domain.ErrUserNotVerified
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if user.IsPasswordExpired() {
		return nil, domain.ErrPasswordExpired
	}

	if !password.Verify(input.Password, user.Password) {
		s.recordFailedAttempt(ctx, user)
		return nil, domain.ErrInvalidCredentials
	}

	// Successful verify resets the counter and lockout
	user.LoginAttempts = 0
	user.LockUntil = nil
	now := time.Now()
	user.LastLogin = &now
	user.LastLoginIP = input.IP
	if err := s.systemRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ System user logged in: %s [%s]", user.Username, user.EmployeeID)

	return &SystemAuthResult{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresIn: "8h",
	}, nil
}

// recordFailedAttempt increments the counter and sets the 2-hour lockout on
// the 5th consecutive failure. Counter races between concurrent failures are
// last-write-wins; the counter is advisory throttling, not a security boundary.
func (s *SystemAuthService) recordFailedAttempt(ctx context.Context, user *models.SystemUser) {
	// An expired lock restarts the count
	if user.LockUntil != nil && user.LockUntil.Before(time.Now()) {
		user.LockUntil = nil
		user.LoginAttempts = 0
	}

	user.LoginAttempts++
	if user.LoginAttempts >= models.MaxLoginAttempts && !user.IsLocked() {
		until := time.Now().Add(models.LockoutDuration)
		user.LockUntil = &until
		log.Printf("⚠️ System account locked after %d failed attempts: %s", user.LoginAttempts, user.Username)
	}

	if err := s.systemRepo.Update(ctx, user); err != nil {
		log.Printf("⚠️ Failed to record login attempt for %s: %v", user.Username, err)
	}
}

// Register creates a system user. Caller must hold users:create.
func (s *SystemAuthService) Register(ctx context.Context, input *SystemRegisterInput) (*SystemAuthResult, error) {
	employeeID := strings.ToUpper(strings.TrimSpace(input.EmployeeID))
	if !employeeIDPattern.MatchString(employeeID) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.systemRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.systemRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.systemRepo.ExistsByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.HashSystem(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = permissions.RoleMember
	}
	accessLevel := input.AccessLevel
	if accessLevel < 1 || accessLevel > 5 {
		accessLevel = 1
	}

	now := time.Now()
	user := &models.SystemUser{
		Username:           strings.ToLower(input.Username),
		Email:              strings.ToLower(input.Email),
		Password:           hashed,
		EmployeeID:         employeeID,
		Department:         input.Department,
		Designation:        input.Designation,
		FirstName:          input.FirstName,
		MiddleName:         input.MiddleName,
		LastName:           input.LastName,
		Phone:              input.Phone,
		Role:               role,
		AccessLevel:        accessLevel,
		LastPasswordChange: now,
		PasswordExpiry:     now.Add(models.PasswordExpiryDays * 24 * time.Hour),
		Verified:           true,
		IsActive:           true,
		CreatedBy:          &input.CreatedBy,
	}

	if err := s.systemRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ System user created: %s [%s]", user.Username, user.EmployeeID)

	return &SystemAuthResult{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresIn: "8h",
	}, nil
}

// ChangePassword verifies the current password and applies a new one,
// restarting the 90-day expiry window
func (s *SystemAuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.systemRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(current, user.Password) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.HashSystem(next)
	if err != nil {
		return err
	}

	now := time.Now()
	user.Password = hashed
	user.LastPasswordChange = now
	user.PasswordExpiry = now.Add(models.PasswordExpiryDays * 24 * time.Hour)
	return s.systemRepo.Update(ctx, user)
}

// ValidateToken verifies a system token and returns its claims
func (s *SystemAuthService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return jwt.Validate(tokenString, s.cfg.JWT.SystemSecret)
}

// GetUserByID fetches a system user
func (s *SystemAuthService) GetUserByID(ctx context.Context, userID uint) (*models.SystemUser, error) {
	user, err := s.systemRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *SystemAuthService) mintToken(ctx context.Context, user *models.SystemUser) (string, error) {
	perms := s.permissions.Resolve(ctx, user.RoleID, user.Role)
	return jwt.GenerateSystemToken(
		user.ID, user.Username, user.EmployeeID, user.Department,
		user.Role, user.AccessLevel, perms, s.cfg.JWT.SystemSecret,
	)
}
