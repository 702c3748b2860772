package handlers

import (
	"errors"
	"strings"
	"time"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles community authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRequest represents community registration request body
type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	MaritalStatus string `json:"marital_status"`
	DateOfBirth   string `json:"date_of_birth"`
	Kul           string `json:"kul"`
	Gotra         string `json:"gotra"`
}

// LoginRequest represents login request body. Either username or mobile
// identifies the account; a 10-digit username is also treated as a mobile
// number.
type LoginRequest struct {
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register handles community member registration
// @Summary Register community member
// @Description Register a new community member account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if len(req.Username) < 3 || len(req.Username) > 30 {
		return response.BadRequest(c, "Username must be between 3 and 30 characters")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return response.BadRequest(c, "A valid email is required")
	}
	if !password.ValidateCommunity(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return response.BadRequest(c, "First name and last name are required")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "Date of birth must be in YYYY-MM-DD format")
		}
		dob = &parsed
	}

	input := &services.RegisterInput{
		Username:      strings.TrimSpace(req.Username),
		Email:         strings.TrimSpace(req.Email),
		Password:      req.Password,
		FirstName:     strings.TrimSpace(req.FirstName),
		MiddleName:    strings.TrimSpace(req.MiddleName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         strings.TrimSpace(req.Phone),
		MaritalStatus: req.MaritalStatus,
		DateOfBirth:   dob,
		Kul:           strings.TrimSpace(req.Kul),
		Gotra:         strings.TrimSpace(req.Gotra),
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Username or email already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid registration data")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User registered successfully", result)
}

// Login handles community member login
// @Summary Login community member
// @Description Authenticate a community member and return a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Mobile)
	}
	if identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Username or mobile and password are required")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: identifier,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, domain.ErrUserNotVerified):
			return response.Forbidden(c, "Account is not verified")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Forbidden(c, "Account is deactivated")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// Me returns the authenticated member's profile
// @Summary Get own profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), principal.UserID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile retrieved", fiber.Map{
		"user":        user.ToResponse(),
		"permissions": principal.Permissions,
	})
}

// UpdateMe updates the authenticated member's own profile
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, updateErr := h.userService.Update(c.Context(), principal.UserID, input)
	if updateErr != nil {
		return userErrorResponse(c, updateErr)
	}

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// Validate reports whether the presented token is valid and returns the
// resolved principal
// @Summary Validate token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Token is valid", fiber.Map{
		"valid":       true,
		"user_id":     principal.UserID,
		"username":    principal.Username,
		"role":        principal.Role,
		"user_type":   principal.UserType,
		"permissions": principal.Permissions,
	})
}

// Logout acknowledges logout. Tokens are stateless; the client discards
// the token and re-login is the only renewal path.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.Success(c, "Logged out successfully", nil)
}

// ChangePassword changes the authenticated member's password
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Password change data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CurrentPassword == "" {
		return response.BadRequest(c, "Current password is required")
	}
	if !password.ValidateCommunity(req.NewPassword) {
		return response.BadRequest(c, "New password must be at least 8 characters")
	}

	if err := h.userService.ChangePassword(c.Context(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}
