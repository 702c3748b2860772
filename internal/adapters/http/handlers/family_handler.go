package handlers

import (
	"errors"
	"strings"
	"time"

	"samajhub/internal/adapters/http/middleware"
	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/core/domain"
	"samajhub/internal/core/services"
	"samajhub/internal/pkg/pagination"
	"samajhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FamilyHandler handles family genealogy endpoints
type FamilyHandler struct {
	familyService *services.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// FamilyRequest represents family create/update request body
type FamilyRequest struct {
	FamilyName     string `json:"family_name"`
	FamilyHeadID   uint   `json:"family_head_id"`
	Kul            string `json:"kul"`
	Gotra          string `json:"gotra"`
	OriginVillage  string `json:"origin_village"`
	OriginDistrict string `json:"origin_district"`
	OriginState    string `json:"origin_state"`
	OriginCountry  string `json:"origin_country"`
}

// FamilyEventRequest represents a family event body
type FamilyEventRequest struct {
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	Description string `json:"description"`
}

func familyErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrFamilyNotFound):
		return response.NotFound(c, "Family not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.BadRequest(c, "Family head user does not exist")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Failed to process family request")
	}
}

// Create records a family anchored on a community member as head
// @Summary Create family
// @Tags Families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FamilyRequest true "Family data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /families [post]
func (h *FamilyHandler) Create(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req FamilyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.FamilyName) == "" {
		return response.BadRequest(c, "Family name is required")
	}
	if req.FamilyHeadID == 0 {
		return response.BadRequest(c, "Family head is required")
	}

	family, err := h.familyService.Create(c.Context(), &services.CreateFamilyInput{
		FamilyName:     strings.TrimSpace(req.FamilyName),
		FamilyHeadID:   req.FamilyHeadID,
		Kul:            strings.TrimSpace(req.Kul),
		Gotra:          strings.TrimSpace(req.Gotra),
		OriginVillage:  strings.TrimSpace(req.OriginVillage),
		OriginDistrict: strings.TrimSpace(req.OriginDistrict),
		OriginState:    strings.TrimSpace(req.OriginState),
		OriginCountry:  strings.TrimSpace(req.OriginCountry),
		CreatedBy:      principal.UserID,
	})
	if err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Created(c, "Family created successfully", family)
}

// List returns families with pagination
// @Summary List families
// @Tags Families
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Param search query string false "Family name search"
// @Success 200 {object} response.Response
// @Router /families [get]
func (h *FamilyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	families, total, err := h.familyService.List(c.Context(), strings.TrimSpace(c.Query("search")), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list families")
	}

	return response.Success(c, "Families retrieved", pagination.NewResponse(families, params, total))
}

// Get returns a single family with its events
// @Summary Get family
// @Tags Families
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /families/{id} [get]
func (h *FamilyHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family ID")
	}

	family, err := h.familyService.Get(c.Context(), id)
	if err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Success(c, "Family retrieved", family)
}

// GetByHead returns families headed by a given member
// @Summary Get families by head
// @Tags Families
// @Produce json
// @Security BearerAuth
// @Param id path int true "Head user ID"
// @Success 200 {object} response.Response
// @Router /families/head/{id} [get]
func (h *FamilyHandler) GetByHead(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	families, err := h.familyService.GetByHead(c.Context(), id)
	if err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Success(c, "Families retrieved", families)
}

// Update patches a family record
// @Summary Update family
// @Tags Families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family ID"
// @Param body body FamilyRequest true "Family data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /families/{id} [put]
func (h *FamilyHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family ID")
	}

	var req FamilyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	family, err := h.familyService.Update(c.Context(), id, &services.CreateFamilyInput{
		FamilyName:     strings.TrimSpace(req.FamilyName),
		FamilyHeadID:   req.FamilyHeadID,
		Kul:            strings.TrimSpace(req.Kul),
		Gotra:          strings.TrimSpace(req.Gotra),
		OriginVillage:  strings.TrimSpace(req.OriginVillage),
		OriginDistrict: strings.TrimSpace(req.OriginDistrict),
		OriginState:    strings.TrimSpace(req.OriginState),
		OriginCountry:  strings.TrimSpace(req.OriginCountry),
	})
	if err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Success(c, "Family updated successfully", family)
}

// Delete removes a family record
// @Summary Delete family
// @Tags Families
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /families/{id} [delete]
func (h *FamilyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family ID")
	}

	if err := h.familyService.Delete(c.Context(), id); err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Success(c, "Family deleted successfully", nil)
}

// AddEvent records a family event
// @Summary Add family event
// @Tags Families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family ID"
// @Param body body FamilyEventRequest true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /families/{id}/events [post]
func (h *FamilyHandler) AddEvent(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family ID")
	}

	var req FamilyEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if !models.IsValidFamilyEventType(req.EventType) {
		return response.BadRequest(c, "Event type must be one of: "+strings.Join(models.FamilyEventTypes, ", "))
	}

	eventDate := time.Now()
	if req.EventDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			return response.BadRequest(c, "Event date must be in YYYY-MM-DD format")
		}
		eventDate = parsed
	}

	event, err := h.familyService.AddEvent(c.Context(), id, &services.AddEventInput{
		EventType:   req.EventType,
		EventDate:   eventDate,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   principal.UserID,
	})
	if err != nil {
		return familyErrorResponse(c, err)
	}

	return response.Created(c, "Family event recorded", event)
}
