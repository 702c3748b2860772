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

// AuthService handles community user authentication
type AuthService struct {
	userRepo    repositories.UserRepository
	permissions *PermissionService
	cfg         *config.Config
}

// NewAuthService creates a new community auth service
func NewAuthService(userRepo repositories.UserRepository, permSvc *PermissionService, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		permissions: permSvc,
		cfg:         cfg,
	}
}

// RegisterInput represents community registration input
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	FirstName     string
	MiddleName    string
	LastName      string
	Phone         string
	MaritalStatus string
	DateOfBirth   *time.Time
	Kul           string
	Gotra         string
	Role          string
}

// LoginInput represents login input
type LoginInput struct {
	Username string
	Password string
}

// AuthResult bundles a freshly minted token with its identity
type AuthResult struct {
	User      *models.UserResponse `json:"user"`
	Token     string               `json:"token"`
	ExpiresIn string               `json:"expires_in"`
}

// Register creates a community user and mints a token for it
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = permissions.RoleMember
	}

	user := &models.User{
		Username:      strings.ToLower(input.Username),
		Email:         strings.ToLower(input.Email),
		Password:      hashed,
		FirstName:     input.FirstName,
		MiddleName:    input.MiddleName,
		LastName:      input.LastName,
		Phone:         input.Phone,
		MaritalStatus: input.MaritalStatus,
		DateOfBirth:   input.DateOfBirth,
		Kul:           input.Kul,
		Gotra:         input.Gotra,
		Role:          role,
		Verified:      true,
		IsActive:      true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Community user registered: %s", user.Username)

	return &AuthResult{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresIn: "24h",
	}, nil
}

// mobilePattern matches a bare 10-digit Indian mobile number
var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Login authenticates a community user by username or mobile number and
// password. A 10-digit identifier is looked up by phone.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	var (
		user *models.User
		err  error
	)
	if mobilePattern.MatchString(input.Username) {
		user, err = s.userRepo.GetByPhone(ctx, input.Username)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, input.Username)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Verified {
		return nil, domain.ErrUserNotVerified
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Community user logged in: %s", user.Username)

	return &AuthResult{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresIn: "24h",
	}, nil
}

// ValidateToken verifies a community token and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return jwt.Validate(tokenString, s.cfg.JWT.Secret)
}

// GetUserByID fetches a community user
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// mintToken embeds the identity's role and resolved permission set as of now;
// the claims are never re-resolved for the token's lifetime.
func (s *AuthService) mintToken(ctx context.Context, user *models.User) (string, error) {
	perms := s.permissions.Resolve(ctx, user.RoleID, user.Role)
	return jwt.GenerateCommunityToken(user.ID, user.Username, user.Email, user.Role, perms, s.cfg.JWT.Secret)
}
