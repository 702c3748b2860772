package handlers

import (
	"errors"
	"strings"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SystemAuthHandler handles system staff authentication endpoints
type SystemAuthHandler struct {
	systemAuthService *services.SystemAuthService
}

// NewSystemAuthHandler creates a new system auth handler
func NewSystemAuthHandler(systemAuthService *services.SystemAuthService) *SystemAuthHandler {
	return &SystemAuthHandler{systemAuthService: systemAuthService}
}

// SystemRegisterRequest represents system user creation request body
type SystemRegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	AccessLevel int    `json:"access_level"`
}

// SystemLogin handles system staff login
// @Summary Login system user
// @Description Authenticate a system staff account and return a token
// @Tags SystemAuth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 423 {object} response.Response
// @Router /system/auth/login [post]
func (h *SystemAuthHandler) SystemLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	result, err := h.systemAuthService.Login(c.Context(), &services.SystemLoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		IP:       c.IP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountLocked):
			return response.Locked(c, "Account is temporarily locked due to multiple failed login attempts")
		case errors.Is(err, domain.ErrUserNotVerified):
			return response.Forbidden(c, "Account is not verified")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Forbidden(c, "Account is deactivated")
		case errors.Is(err, domain.ErrPasswordExpired):
			return response.Forbidden(c, "Password has expired, please contact an administrator")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// SystemRegister creates a new system user, restricted to staff holding users:create
// @Summary Create system user
// @Tags SystemAuth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SystemRegisterRequest true "System user data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /system/auth/register [post]
func (h *SystemAuthHandler) SystemRegister(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SystemRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return response.BadRequest(c, "A valid email is required")
	}
	if !password.ValidateSystem(req.Password) {
		return response.BadRequest(c, "Password must be at least 12 characters")
	}
	if req.EmployeeID == "" {
		return response.BadRequest(c, "Employee ID is required")
	}
	if !models.IsValidDepartment(req.Department) {
		return response.BadRequest(c, "Department must be one of: "+strings.Join(models.Departments, ", "))
	}
	if req.Designation == "" {
		return response.BadRequest(c, "Designation is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return response.BadRequest(c, "First name and last name are required")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	result, err := h.systemAuthService.Register(c.Context(), &services.SystemRegisterInput{
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Designation: strings.TrimSpace(req.Designation),
		FirstName:   strings.TrimSpace(req.FirstName),
		MiddleName:  strings.TrimSpace(req.MiddleName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Role:        req.Role,
		AccessLevel: req.AccessLevel,
		CreatedBy:   principal.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Employee ID must be 2-4 uppercase letters followed by 4-6 digits")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Username, email or employee ID already exists")
		default:
			return response.InternalServerError(c, "Failed to create system user")
		}
	}

	return response.Created(c, "System user created successfully", result)
}

// SystemMe returns the authenticated staff profile
// @Summary Get own system profile
// @Tags SystemAuth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /system/auth/me [get]
func (h *SystemAuthHandler) SystemMe(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.systemAuthService.GetUserByID(c.Context(), principal.UserID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile retrieved", fiber.Map{
		"user":        user.ToResponse(),
		"permissions": principal.Permissions,
	})
}

// SystemChangePassword changes the authenticated staff password
// @Summary Change own system password
// @Tags SystemAuth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Password change data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /system/auth/change-password [put]
func (h *SystemAuthHandler) SystemChangePassword(c *fiber.Ctx) error {
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
	if !password.ValidateSystem(req.NewPassword) {
		return response.BadRequest(c, "New password must be at least 12 characters")
	}

	if err := h.systemAuthService.ChangePassword(c.Context(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
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

// SystemValidate reports whether the presented system token is valid
// @Summary Validate system token
// @Tags SystemAuth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /system/auth/validate [get]
func (h *SystemAuthHandler) SystemValidate(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Token is valid", fiber.Map{
		"valid":        true,
		"user_id":      principal.UserID,
		"username":     principal.Username,
		"role":         principal.Role,
		"user_type":    principal.UserType,
		"employee_id":  principal.EmployeeID,
		"department":   principal.Department,
		"access_level": principal.AccessLevel,
		"permissions":  principal.Permissions,
	})
}

// SystemLogout acknowledges logout; the client discards the token
// @Summary Logout system user
// @Tags SystemAuth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /system/auth/logout [post]
func (h *SystemAuthHandler) SystemLogout(c *fiber.Ctx) error {
	return response.Success(c, "Logged out successfully", nil)
}
