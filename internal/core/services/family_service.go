package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/core/domain"

	"gorm.io/gorm"
)

// FamilyService handles extended family/genealogy records
type FamilyService struct {
	familyRepo repositories.FamilyRepository
	userRepo   repositories.UserRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo repositories.FamilyRepository, userRepo repositories.UserRepository) *FamilyService {
	return &FamilyService{familyRepo: familyRepo, userRepo: userRepo}
}

// CreateFamilyInput represents family creation input
type CreateFamilyInput struct {
	FamilyName     string
	FamilyHeadID   uint
	Kul            string
	Gotra          string
	OriginVillage  string
	OriginDistrict string
	OriginState    string
	OriginCountry  string
	CreatedBy      uint
}

// AddEventInput represents a family event
type AddEventInput struct {
	EventType   string
	EventDate   time.Time
	Description string
	CreatedBy   uint
}

// Create records a family anchored on an existing community user as head
func (s *FamilyService) Create(ctx context.Context, input *CreateFamilyInput) (*models.Family, error) {
	if strings.TrimSpace(input.FamilyName) == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, input.FamilyHeadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	family := &models.Family{
		FamilyName:     strings.TrimSpace(input.FamilyName),
		FamilyHeadID:   input.FamilyHeadID,
		Kul:            input.Kul,
		Gotra:          input.Gotra,
		OriginVillage:  input.OriginVillage,
		OriginDistrict: input.OriginDistrict,
		OriginState:    input.OriginState,
		OriginCountry:  input.OriginCountry,
		CreatedBy:      &input.CreatedBy,
	}

	if err := s.familyRepo.Create(ctx, family); err != nil {
		return nil, err
	}

	log.Printf("✅ Family created: %s", family.FamilyName)
	return family, nil
}

// Get fetches a family with its head and events
func (s *FamilyService) Get(ctx context.Context, id uint) (*models.Family, error) {
	family, err := s.familyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, err
	}
	return family, nil
}

// List returns families matching the search text
func (s *FamilyService) List(ctx context.Context, search string, offset, limit int) ([]*models.Family, int64, error) {
	return s.familyRepo.List(ctx, search, offset, limit)
}

// GetByHead returns the families headed by a user
func (s *FamilyService) GetByHead(ctx context.Context, headID uint) ([]*models.Family, error) {
	return s.familyRepo.GetByHead(ctx, headID)
}

// Update applies family record changes
func (s *FamilyService) Update(ctx context.Context, id uint, input *CreateFamilyInput) (*models.Family, error) {
	family, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FamilyName != "" {
		family.FamilyName = strings.TrimSpace(input.FamilyName)
	}
	if input.FamilyHeadID != 0 && input.FamilyHeadID != family.FamilyHeadID {
		if _, err := s.userRepo.GetByID(ctx, input.FamilyHeadID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		family.FamilyHeadID = input.FamilyHeadID
	}
	if input.Kul != "" {
		family.Kul = input.Kul
	}
	if input.Gotra != "" {
		family.Gotra = input.Gotra
	}
	if input.OriginVillage != "" {
		family.OriginVillage = input.OriginVillage
	}
	if input.OriginDistrict != "" {
		family.OriginDistrict = input.OriginDistrict
	}
	if input.OriginState != "" {
		family.OriginState = input.OriginState
	}
	if input.OriginCountry != "" {
		family.OriginCountry = input.OriginCountry
	}

	if err := s.familyRepo.Update(ctx, family); err != nil {
		return nil, err
	}
	return family, nil
}

// Delete removes a family and its events
func (s *FamilyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.familyRepo.Delete(ctx, id)
}

// AddEvent records a milestone on a family
func (s *FamilyService) AddEvent(ctx context.Context, familyID uint, input *AddEventInput) (*models.FamilyEvent, error) {
	if !models.IsValidFamilyEventType(input.EventType) {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.Get(ctx, familyID); err != nil {
		return nil, err
	}

	event := &models.FamilyEvent{
		FamilyID:    familyID,
		EventType:   input.EventType,
		EventDate:   input.EventDate,
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   &input.CreatedBy,
	}

	if err := s.familyRepo.AddEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
