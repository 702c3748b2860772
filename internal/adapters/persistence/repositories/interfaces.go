package repositories

import (
	"context"

	"samajhub/internal/adapters/persistence/models"
)

// UserFilter narrows community user listings
type UserFilter struct {
	Role     string
	Verified *bool
	IsActive *bool
	Search   string
}

// UserRepository defines community user persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRoleName(ctx context.Context, roleName string) (int64, error)
}

// SystemUserFilter narrows system user listings
type SystemUserFilter struct {
	Department string
	Role       string
	IsActive   *bool
	Locked     *bool
	Search     string
}

// SystemUserRepository defines system user persistence
type SystemUserRepository interface {
	Create(ctx context.Context, user *models.SystemUser) error
	GetByID(ctx context.Context, id uint) (*models.SystemUser, error)
	GetByUsername(ctx context.Context, username string) (*models.SystemUser, error)
	GetByEmail(ctx context.Context, email string) (*models.SystemUser, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.SystemUser, error)
	Update(ctx context.Context, user *models.SystemUser) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter SystemUserFilter, offset, limit int) ([]*models.SystemUser, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	CountByRoleName(ctx context.Context, roleName string) (int64, error)
	Count(ctx context.Context) (int64, error)
	ClearExpiredLockouts(ctx context.Context) (int64, error)
}

// RoleFilter narrows role listings
type RoleFilter struct {
	IsActive *bool
	IsSystem *bool
	Search   string
}

// RoleRepository defines role persistence
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter RoleFilter, offset, limit int) ([]*models.Role, int64, error)
	CountSystem(ctx context.Context) (int64, error)
	CountCustom(ctx context.Context) (int64, error)
}

// FamilyRepository defines family record persistence
type FamilyRepository interface {
	Create(ctx context.Context, family *models.Family) error
	GetByID(ctx context.Context, id uint) (*models.Family, error)
	GetByHead(ctx context.Context, headID uint) ([]*models.Family, error)
	Update(ctx context.Context, family *models.Family) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.Family, int64, error)
	AddEvent(ctx context.Context, event *models.FamilyEvent) error
}
