package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/core/domain"
	"samajhub/internal/pkg/permissions"

	"gorm.io/gorm"
)

// fakeFamilyRepo is an in-memory FamilyRepository for service tests
type fakeFamilyRepo struct {
	families map[uint]*models.Family
	events   []*models.FamilyEvent
	nextID   uint
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{families: make(map[uint]*models.Family), nextID: 1}
}

func (r *fakeFamilyRepo) Create(_ context.Context, family *models.Family) error {
	family.ID = r.nextID
	r.nextID++
	family.CreatedAt = time.Now()
	r.families[family.ID] = family
	return nil
}

func (r *fakeFamilyRepo) GetByID(_ context.Context, id uint) (*models.Family, error) {
	family, ok := r.families[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return family, nil
}

func (r *fakeFamilyRepo) GetByHead(_ context.Context, headID uint) ([]*models.Family, error) {
	var out []*models.Family
	for _, family := range r.families {
		if family.FamilyHeadID == headID {
			out = append(out, family)
		}
	}
	return out, nil
}

func (r *fakeFamilyRepo) Update(_ context.Context, family *models.Family) error {
	if _, ok := r.families[family.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.families[family.ID] = family
	return nil
}

func (r *fakeFamilyRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.families[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.families, id)
	return nil
}

func (r *fakeFamilyRepo) List(_ context.Context, search string, offset, limit int) ([]*models.Family, int64, error) {
	var out []*models.Family
	for _, family := range r.families {
		if search != "" && !strings.Contains(strings.ToLower(family.FamilyName), strings.ToLower(search)) {
			continue
		}
		out = append(out, family)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFamilyRepo) AddEvent(_ context.Context, event *models.FamilyEvent) error {
	event.ID = uint(len(r.events) + 1)
	r.events = append(r.events, event)
	return nil
}

func newFamilyServiceForTest() (*FamilyService, *fakeFamilyRepo, *fakeUserRepo) {
	familyRepo := newFakeFamilyRepo()
	userRepo := newFakeUserRepo()
	return NewFamilyService(familyRepo, userRepo), familyRepo, userRepo
}

func TestCreateFamily(t *testing.T) {
	svc, _, userRepo := newFamilyServiceForTest()
	ctx := context.Background()

	head := seedCommunityUser(t, userRepo, "ganesh", permissions.RoleMember)

	family, err := svc.Create(ctx, &CreateFamilyInput{
		FamilyName:    "  Deshmukh Parivar ",
		FamilyHeadID:  head.ID,
		Kul:           "Bharadwaj",
		OriginVillage: "Wai",
		OriginState:   "Maharashtra",
		CreatedBy:     head.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deshmukh Parivar", family.FamilyName)
	assert.Equal(t, head.ID, family.FamilyHeadID)
	assert.NotZero(t, family.ID)
}

func TestCreateFamilyRequiresExistingHead(t *testing.T) {
	svc, _, _ := newFamilyServiceForTest()

	_, err := svc.Create(context.Background(), &CreateFamilyInput{
		FamilyName:   "Deshmukh Parivar",
		FamilyHeadID: 42,
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateFamilyRequiresName(t *testing.T) {
	svc, _, userRepo := newFamilyServiceForTest()

	head := seedCommunityUser(t, userRepo, "ganesh", permissions.RoleMember)

	_, err := svc.Create(context.Background(), &CreateFamilyInput{
		FamilyName:   "   ",
		FamilyHeadID: head.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateFamilyHeadValidation(t *testing.T) {
	svc, _, userRepo := newFamilyServiceForTest()
	ctx := context.Background()

	head := seedCommunityUser(t, userRepo, "ganesh", permissions.RoleMember)
	family, err := svc.Create(ctx, &CreateFamilyInput{FamilyName: "Deshmukh Parivar", FamilyHeadID: head.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, family.ID, &CreateFamilyInput{FamilyHeadID: 99})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	newHead := seedCommunityUser(t, userRepo, "mohan", permissions.RoleMember)
	updated, err := svc.Update(ctx, family.ID, &CreateFamilyInput{FamilyHeadID: newHead.ID, Gotra: "Kashyap"})
	require.NoError(t, err)
	assert.Equal(t, newHead.ID, updated.FamilyHeadID)
	assert.Equal(t, "Kashyap", updated.Gotra)
	assert.Equal(t, "Deshmukh Parivar", updated.FamilyName, "empty input fields leave existing values")
}

func TestAddFamilyEvent(t *testing.T) {
	svc, familyRepo, userRepo := newFamilyServiceForTest()
	ctx := context.Background()

	head := seedCommunityUser(t, userRepo, "ganesh", permissions.RoleMember)
	family, err := svc.Create(ctx, &CreateFamilyInput{FamilyName: "Deshmukh Parivar", FamilyHeadID: head.ID})
	require.NoError(t, err)

	_, err = svc.AddEvent(ctx, family.ID, &AddEventInput{
		EventType:   "graduation",
		Description: "Not a recognized event type",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddEvent(ctx, family.ID, &AddEventInput{
		EventType:   "marriage",
		Description: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddEvent(ctx, 999, &AddEventInput{
		EventType:   "marriage",
		Description: "Wedding of eldest son",
	})
	assert.ErrorIs(t, err, domain.ErrFamilyNotFound)

	event, err := svc.AddEvent(ctx, family.ID, &AddEventInput{
		EventType:   "marriage",
		EventDate:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Description: "  Wedding of eldest son ",
		CreatedBy:   head.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, family.ID, event.FamilyID)
	assert.Equal(t, "Wedding of eldest son", event.Description)
	require.Len(t, familyRepo.events, 1)
}

func TestDeleteFamily(t *testing.T) {
	svc, _, userRepo := newFamilyServiceForTest()
	ctx := context.Background()

	head := seedCommunityUser(t, userRepo, "ganesh", permissions.RoleMember)
	family, err := svc.Create(ctx, &CreateFamilyInput{FamilyName: "Deshmukh Parivar", FamilyHeadID: head.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, family.ID))
	assert.ErrorIs(t, svc.Delete(ctx, family.ID), domain.ErrFamilyNotFound)
}
