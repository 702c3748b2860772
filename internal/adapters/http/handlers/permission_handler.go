package handlers

import (
	"net/url"
	"strings"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/permissions"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PermissionHandler exposes the permission vocabulary and role defaults
type PermissionHandler struct {
	roleService *services.RoleService
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(roleService *services.RoleService) *PermissionHandler {
	return &PermissionHandler{roleService: roleService}
}

// ValidatePermissionsRequest represents a permission validation request body
type ValidatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// Catalogue returns all known permissions grouped by resource
// @Summary Permission catalogue
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /permissions [get]
func (h *PermissionHandler) Catalogue(c *fiber.Ctx) error {
	all := permissions.All()

	grouped := make(map[string][]string)
	for _, perm := range all {
		resource, _, found := strings.Cut(perm, ":")
		if !found {
			continue
		}
		grouped[resource] = append(grouped[resource], perm)
	}

	return response.Success(c, "Permissions retrieved", fiber.Map{
		"permissions": all,
		"grouped":     grouped,
		"total":       len(all),
	})
}

// Defaults returns the built-in roles and their default permission sets
// @Summary Default role permission sets
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /permissions/defaults [get]
func (h *PermissionHandler) Defaults(c *fiber.Ctx) error {
	defaults := make(map[string][]string)
	for _, role := range permissions.BuiltinRoles() {
		defaults[role] = permissions.DefaultFor(role)
	}

	return response.Success(c, "Default role permissions retrieved", defaults)
}

// Mine returns the calling principal's effective permission set
// @Summary Own permissions
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /permissions/me [get]
func (h *PermissionHandler) Mine(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Permissions retrieved", fiber.Map{
		"role":        principal.Role,
		"user_type":   principal.UserType,
		"permissions": principal.Permissions,
	})
}

// Check reports whether the calling principal holds a single permission
// @Summary Check a permission
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param permission path string true "Permission token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /permissions/check/{permission} [get]
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	perm, err := url.PathUnescape(c.Params("permission"))
	if err != nil || perm == "" {
		return response.BadRequest(c, "Permission token is required")
	}
	if !permissions.IsValid(perm) {
		return response.BadRequest(c, "Unknown permission: "+perm)
	}

	return response.Success(c, "Permission checked", fiber.Map{
		"permission": perm,
		"granted":    principal.HasPermission(perm),
	})
}

// Validate checks a permission list against the vocabulary
// @Summary Validate permissions
// @Tags Permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ValidatePermissionsRequest true "Permissions to validate"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /permissions/validate [post]
func (h *PermissionHandler) Validate(c *fiber.Ctx) error {
	var req ValidatePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	invalid := permissions.Validate(req.Permissions)

	return response.Success(c, "Permissions validated", fiber.Map{
		"valid":   len(invalid) == 0,
		"invalid": invalid,
	})
}
