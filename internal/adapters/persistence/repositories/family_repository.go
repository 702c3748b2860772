package repositories

import (
	"context"
	"strings"

	"samajhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type familyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *familyRepository) GetByID(ctx context.Context, id uint) (*models.Family, error) {
	var family models.Family
	err := r.db.WithContext(ctx).
		Preload("FamilyHead").Preload("Events").
		Where("id = ?", id).First(&family).Error
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) GetByHead(ctx context.Context, headID uint) ([]*models.Family, error) {
	var families []*models.Family
	err := r.db.WithContext(ctx).Where("family_head_id = ?", headID).Find(&families).Error
	return families, err
}

func (r *familyRepository) Update(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Save(family).Error
}

func (r *familyRepository) Delete(ctx context.Context, id uint) error {
	// Events go with the family record
	if err := r.db.WithContext(ctx).Where("family_id = ?", id).Delete(&models.FamilyEvent{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Family{}, id).Error
}

func (r *familyRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Family, int64, error) {
	var families []*models.Family
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Family{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(family_name) LIKE ? OR LOWER(kul) LIKE ? OR LOWER(gotra) LIKE ?", pattern, pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Preload("FamilyHead").Order("family_name ASC").Offset(offset).Limit(limit).Find(&families).Error; err != nil {
		return nil, 0, err
	}

	return families, total, nil
}

func (r *familyRepository) AddEvent(ctx context.Context, event *models.FamilyEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
