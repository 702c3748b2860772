package handlers

import (
	"errors"
	"strconv"
	"strings"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/pagination"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles role management endpoints
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest represents role creation request body
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest represents role update request body, nil fields untouched
type UpdateRoleRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

// ReplacePermissionsRequest represents a full permission set replacement
type ReplacePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// ToggleStatusRequest represents role activation toggle body
type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// DuplicateRoleRequest represents role duplication request body
type DuplicateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func roleErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRoleNotFound):
		return response.NotFound(c, "Role not found")
	case errors.Is(err, domain.ErrRoleAlreadyExists):
		return response.Conflict(c, "A role with this name already exists")
	case errors.Is(err, domain.ErrSystemRoleReadOnly):
		return response.Forbidden(c, "System roles cannot be modified")
	case errors.Is(err, domain.ErrRoleInUse):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidPermissions):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Failed to process role request")
	}
}

// List returns roles with member counts
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Param is_active query bool false "Filter by active status"
// @Param is_system query bool false "Filter by system flag"
// @Param search query string false "Name search"
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.RoleFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsActive = &active
		}
	}
	if v := c.Query("is_system"); v != "" {
		system, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsSystem = &system
		}
	}

	roles, total, err := h.roleService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}

	return response.Success(c, "Roles retrieved", pagination.NewResponse(roles, params, total))
}

// Get returns a single role with its member count
// @Summary Get role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	role, err := h.roleService.Get(c.Context(), id)
	if err != nil {
		return roleErrorResponse(c, err)
	}

	count, err := h.roleService.MemberCount(c.Context(), role.Name)
	if err != nil {
		count = 0
	}

	return response.Success(c, "Role retrieved", role.ToResponse(count))
}

// Create creates a custom role
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoleRequest true "Role data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := services.ValidateRoleName(req.Name); err != nil {
		return response.BadRequest(c, err.Error())
	}

	role, err := h.roleService.Create(c.Context(), &services.CreateRoleInput{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Permissions: req.Permissions,
		CreatedBy:   principal.UserID,
	})
	if err != nil {
		return roleErrorResponse(c, err)
	}

	return response.Created(c, "Role created successfully", role.ToResponse(0))
}

// Update patches a custom role
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body UpdateRoleRequest true "Role data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, err := h.roleService.Update(c.Context(), id, &services.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
		UpdatedBy:   principal.UserID,
	})
	if err != nil {
		return roleErrorResponse(c, err)
	}

	count, _ := h.roleService.MemberCount(c.Context(), role.Name)
	return response.Success(c, "Role updated successfully", role.ToResponse(count))
}

// GetPermissions returns a role's permission set
// @Summary Get role permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	role, err := h.roleService.Get(c.Context(), id)
	if err != nil {
		return roleErrorResponse(c, err)
	}

	return response.Success(c, "Role permissions retrieved", fiber.Map{
		"role":        role.Name,
		"permissions": role.Permissions,
	})
}

// ReplacePermissions replaces a role's full permission set
// @Summary Replace role permissions
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body ReplacePermissionsRequest true "Permission set"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles/{id}/permissions [put]
func (h *RoleHandler) ReplacePermissions(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req ReplacePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, err := h.roleService.ReplacePermissions(c.Context(), id, req.Permissions, principal.UserID)
	if err != nil {
		return roleErrorResponse(c, err)
	}

	count, _ := h.roleService.MemberCount(c.Context(), role.Name)
	return response.Success(c, "Role permissions updated successfully", role.ToResponse(count))
}

// Delete removes a custom role with no assigned members
// @Summary Delete role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	if err := h.roleService.Delete(c.Context(), id); err != nil {
		return roleErrorResponse(c, err)
	}

	return response.Success(c, "Role deleted successfully", nil)
}

// ToggleStatus activates or deactivates a custom role
// @Summary Toggle role status
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body ToggleStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles/{id}/status [patch]
func (h *RoleHandler) ToggleStatus(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req ToggleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	role, err := h.roleService.ToggleStatus(c.Context(), id, *req.IsActive, principal.UserID)
	if err != nil {
		return roleErrorResponse(c, err)
	}

	count, _ := h.roleService.MemberCount(c.Context(), role.Name)
	return response.Success(c, "Role status updated successfully", role.ToResponse(count))
}

// Duplicate copies an existing role under a new name
// @Summary Duplicate role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body DuplicateRoleRequest true "New role name"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/{id}/duplicate [post]
func (h *RoleHandler) Duplicate(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req DuplicateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := services.ValidateRoleName(req.Name); err != nil {
		return response.BadRequest(c, err.Error())
	}

	role, err := h.roleService.Duplicate(c.Context(), id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), principal.UserID)
	if err != nil {
		return roleErrorResponse(c, err)
	}

	return response.Created(c, "Role duplicated successfully", role.ToResponse(0))
}

// Stats returns aggregate role statistics
// @Summary Role statistics
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles/stats [get]
func (h *RoleHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.roleService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute role statistics")
	}

	return response.Success(c, "Role statistics retrieved", stats)
}
