package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/pagination"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles community member management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents member profile update body, nil fields untouched
type UpdateUserRequest struct {
	FirstName      *string `json:"first_name"`
	MiddleName     *string `json:"middle_name"`
	LastName       *string `json:"last_name"`
	Phone          *string `json:"phone"`
	PAN            *string `json:"pan"`
	Adhar          *string `json:"adhar"`
	MaritalStatus  *string `json:"marital_status"`
	DateOfBirth    *string `json:"date_of_birth"`
	DateOfMarriage *string `json:"date_of_marriage"`
	Kul            *string `json:"kul"`
	Gotra          *string `json:"gotra"`
	FatherName     *string `json:"father_name"`
	MotherName     *string `json:"mother_name"`
	ChildrenName   *string `json:"children_name"`
}

// SetVerifiedRequest represents member verification body
type SetVerifiedRequest struct {
	Verified *bool `json:"verified"`
}

// SetRoleRequest represents member role assignment body
type SetRoleRequest struct {
	Role string `json:"role"`
}

func parseDateField(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// toInput converts the request body into a service input, parsing dates
func (req *UpdateUserRequest) toInput() (*services.UpdateUserInput, error) {
	dob, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return nil, errors.New("Date of birth must be in YYYY-MM-DD format")
	}
	dom, err := parseDateField(req.DateOfMarriage)
	if err != nil {
		return nil, errors.New("Date of marriage must be in YYYY-MM-DD format")
	}

	return &services.UpdateUserInput{
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		PAN:            req.PAN,
		Adhar:          req.Adhar,
		MaritalStatus:  req.MaritalStatus,
		DateOfBirth:    dob,
		DateOfMarriage: dom,
		Kul:            req.Kul,
		Gotra:          req.Gotra,
		FatherName:     req.FatherName,
		MotherName:     req.MotherName,
		ChildrenName:   req.ChildrenName,
	}, nil
}

func userErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrAdminUserProtected):
		return response.Forbidden(c, "Admin users cannot be deleted")
	case errors.Is(err, domain.ErrRoleNotFound):
		return response.BadRequest(c, "Role does not exist")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Failed to process user request")
	}
}

// List returns community members with filters and pagination
// @Summary List community members
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Param role query string false "Filter by role"
// @Param verified query bool false "Filter by verification"
// @Param is_active query bool false "Filter by active status"
// @Param search query string false "Name, username or email search"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.UserFilter{
		Role:   strings.TrimSpace(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err == nil {
			filter.Verified = &verified
		}
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err == nil {
			filter.IsActive = &active
		}
	}

	users, total, err := h.userService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Success(c, "Users retrieved", pagination.NewResponse(items, params, total))
}

// Get returns a single community member
// @Summary Get community member
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.Get(c.Context(), id)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return response.Success(c, "User retrieved", user.ToResponse())
}

// Update patches a member profile
// @Summary Update community member
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.Update(c.Context(), id, input)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// Delete soft-deletes a member, admin accounts excluded
// @Summary Delete community member
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.Context(), id); err != nil {
		return userErrorResponse(c, err)
	}

	return response.Success(c, "User deleted successfully", nil)
}

// SetVerified marks a member verified or unverified
// @Summary Verify community member
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetVerifiedRequest true "Verification flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/verify [patch]
func (h *UserHandler) SetVerified(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetVerifiedRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Verified == nil {
		return response.BadRequest(c, "verified is required")
	}

	user, err := h.userService.SetVerified(c.Context(), id, *req.Verified)
	if err != nil {
		return userErrorResponse(c, err)
	}

	return response.Success(c, "User verification updated", user.ToResponse())
}

// SetRole assigns a role from the roles table to a member
// @Summary Assign member role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetRoleRequest true "Role name"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/role [patch]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Role) == "" {
		return response.BadRequest(c, "Role name is required")
	}

	user, err := h.userService.SetRole(c.Context(), id, strings.TrimSpace(req.Role))
	if err != nil {
		return userErrorResponse(c, err)
	}

	return response.Success(c, "User role updated", user.ToResponse())
}

// Search performs a quick member lookup
// @Summary Search community members
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param limit query int false "Max results"
// @Success 200 {object} response.Response
// @Router /users/search [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return response.BadRequest(c, "Search query is required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	users, err := h.userService.Search(c.Context(), query, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to search users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Success(c, "Search results retrieved", items)
}

// Suggestions returns member name suggestions for autocomplete fields
// @Summary Suggest member names
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Name prefix"
// @Param limit query int false "Max suggestions"
// @Success 200 {object} response.Response
// @Router /users/suggestions [get]
func (h *UserHandler) Suggestions(c *fiber.Ctx) error {
	prefix := strings.TrimSpace(c.Query("q"))
	if prefix == "" {
		return response.BadRequest(c, "Name prefix is required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	names, err := h.userService.Suggest(c.Context(), prefix, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch suggestions")
	}

	return response.Success(c, "Suggestions retrieved", fiber.Map{
		"suggestions": names,
	})
}
