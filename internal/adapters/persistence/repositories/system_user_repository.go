package repositories

import (
	"context"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type systemUserRepository struct {
	db *gorm.DB
}

// NewSystemUserRepository creates a new system user repository
func NewSystemUserRepository(db *gorm.DB) SystemUserRepository {
	return &systemUserRepository{db: db}
}

func (r *systemUserRepository) Create(ctx context.Context, user *models.SystemUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *systemUserRepository) GetByID(ctx context.Context, id uint) (*models.SystemUser, error) {
	var user models.SystemUser
	err := r.db.WithContext(ctx).Preload("RoleRef").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *systemUserRepository) GetByUsername(ctx context.Context, username string) (*models.SystemUser, error) {
	var user models.SystemUser
	err := r.db.WithContext(ctx).Preload("RoleRef").
		Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *systemUserRepository) GetByEmail(ctx context.Context, email string) (*models.SystemUser, error) {
	var user models.SystemUser
	err := r.db.WithContext(ctx).Preload("RoleRef").
		Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *systemUserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.SystemUser, error) {
	var user models.SystemUser
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", strings.ToUpper(employeeID)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *systemUserRepository) Update(ctx context.Context, user *models.SystemUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *systemUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SystemUser{}, id).Error
}

func (r *systemUserRepository) List(ctx context.Context, filter SystemUserFilter, offset, limit int) ([]*models.SystemUser, int64, error) {
	var users []*models.SystemUser
	var total int64

	q := r.db.WithContext(ctx).Model(&models.SystemUser{})
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Locked != nil {
		if *filter.Locked {
			q = q.Where("lock_until IS NOT NULL AND lock_until > ?", time.Now())
		} else {
			q = q.Where("lock_until IS NULL OR lock_until <= ?", time.Now())
		}
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR employee_id LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, "%"+strings.ToUpper(filter.Search)+"%", pattern, pattern,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *systemUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SystemUser{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error
	return count > 0, err
}

func (r *systemUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SystemUser{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func (r *systemUserRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SystemUser{}).
		Where("employee_id = ?", strings.ToUpper(employeeID)).Count(&count).Error
	return count > 0, err
}

func (r *systemUserRepository) CountByRoleName(ctx context.Context, roleName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SystemUser{}).
		Where("role = ?", roleName).Count(&count).Error
	return count, err
}

func (r *systemUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SystemUser{}).Count(&count).Error
	return count, err
}

// ClearExpiredLockouts resets attempt counters for accounts whose lockout
// window has elapsed. Run by the nightly maintenance job.
func (r *systemUserRepository) ClearExpiredLockouts(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.SystemUser{}).
		Where("lock_until IS NOT NULL AND lock_until <= ?", time.Now()).
		Updates(map[string]interface{}{"lock_until": nil, "login_attempts": 0})
	return result.RowsAffected, result.Error
}
