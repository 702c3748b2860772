package handlers

import (
	"errors"
	"strconv"
	"strings"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/pagination"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SystemUserHandler handles system staff management endpoints
type SystemUserHandler struct {
	systemUserService *services.SystemUserService
}

// NewSystemUserHandler creates a new system user handler
func NewSystemUserHandler(systemUserService *services.SystemUserService) *SystemUserHandler {
	return &SystemUserHandler{systemUserService: systemUserService}
}

// UpdateSystemUserRequest represents staff profile update body, nil fields untouched
type UpdateSystemUserRequest struct {
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	FirstName   *string `json:"first_name"`
	MiddleName  *string `json:"middle_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Role        *string `json:"role"`
	AccessLevel *int    `json:"access_level"`
}

// SetActiveRequest represents staff activation toggle body
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// ResetPasswordRequest represents admin password reset body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func systemUserErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "System user not found")
	case errors.Is(err, domain.ErrSelfDeactivation):
		return response.BadRequest(c, "You cannot deactivate or delete your own account")
	case errors.Is(err, domain.ErrRoleNotFound):
		return response.BadRequest(c, "Role does not exist")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Failed to process system user request")
	}
}

// List returns system staff with filters and pagination
// @Summary List system users
// @Tags SystemUsers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Param department query string false "Filter by department"
// @Param role query string false "Filter by role"
// @Param is_active query bool false "Filter by active status"
// @Param locked query bool false "Filter by lockout state"
// @Param search query string false "Name, username or employee ID search"
// @Success 200 {object} response.Response
// @Router /system/users [get]
func (h *SystemUserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.SystemUserFilter{
		Department: strings.TrimSpace(c.Query("department")),
		Role:       strings.TrimSpace(c.Query("role")),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsActive = &active
		}
	}
	if v := c.Query("locked"); v != "" {
		locked, err := strconv.ParseBool(v)
		if err == nil {
			filter.Locked = &locked
		}
	}

	users, total, err := h.systemUserService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list system users")
	}

	items := make([]*models.SystemUserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Success(c, "System users retrieved", pagination.NewResponse(items, params, total))
}

// Get returns a single system user
// @Summary Get system user
// @Tags SystemUsers
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /system/users/{id} [get]
func (h *SystemUserHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	user, err := h.systemUserService.Get(c.Context(), id)
	if err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user retrieved", user.ToResponse())
}

// Update patches a staff profile
// @Summary Update system user
// @Tags SystemUsers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Param body body UpdateSystemUserRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /system/users/{id} [put]
func (h *SystemUserHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	var req UpdateSystemUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.systemUserService.Update(c.Context(), id, &services.UpdateSystemUserInput{
		Department:  req.Department,
		Designation: req.Designation,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Role:        req.Role,
		AccessLevel: req.AccessLevel,
	})
	if err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user updated successfully", user.ToResponse())
}

// Delete removes a staff account, self-deletion rejected
// @Summary Delete system user
// @Tags SystemUsers
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /system/users/{id} [delete]
func (h *SystemUserHandler) Delete(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	if err := h.systemUserService.Delete(c.Context(), id, principal.UserID); err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user deleted successfully", nil)
}

// SetActive activates or deactivates a staff account
// @Summary Toggle system user status
// @Tags SystemUsers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Param body body SetActiveRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /system/users/{id}/status [patch]
func (h *SystemUserHandler) SetActive(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	user, err := h.systemUserService.SetActive(c.Context(), id, principal.UserID, *req.IsActive)
	if err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user status updated", user.ToResponse())
}

// Unlock clears a lockout before its window elapses
// @Summary Unlock system user
// @Tags SystemUsers
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /system/users/{id}/unlock [patch]
func (h *SystemUserHandler) Unlock(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	user, err := h.systemUserService.Unlock(c.Context(), id)
	if err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user unlocked", user.ToResponse())
}

// ResetPassword sets a new password for a staff account
// @Summary Reset system user password
// @Tags SystemUsers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "System user ID"
// @Param body body ResetPasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /system/users/{id}/reset-password [patch]
func (h *SystemUserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid system user ID")
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !password.ValidateSystem(req.NewPassword) {
		return response.BadRequest(c, "New password must be at least 12 characters")
	}

	if err := h.systemUserService.ResetPassword(c.Context(), id, req.NewPassword); err != nil {
		return systemUserErrorResponse(c, err)
	}

	return response.Success(c, "System user password reset", nil)
}

// Stats returns aggregate staff statistics
// @Summary System user statistics
// @Tags SystemUsers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /system/users/stats [get]
func (h *SystemUserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.systemUserService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute system user statistics")
	}

	return response.Success(c, "System user statistics retrieved", stats)
}
