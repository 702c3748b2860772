package services

import (
	"context"
	"strings"
	"time"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// fakeRoleRepo is an in-memory RoleRepository for service tests
type fakeRoleRepo struct {
	roles  map[uint]*models.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]*models.Role), nextID: 1}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *models.Role) error {
	role.ID = r.nextID
	r.nextID++
	role.CreatedAt = time.Now()
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, role := range r.roles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) Update(_ context.Context, role *models.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) List(_ context.Context, filter repositories.RoleFilter, offset, limit int) ([]*models.Role, int64, error) {
	var out []*models.Role
	for _, role := range r.roles {
		if filter.IsActive != nil && role.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsSystem != nil && role.IsSystem != *filter.IsSystem {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(role.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, role)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRoleRepo) CountSystem(_ context.Context) (int64, error) {
	var n int64
	for _, role := range r.roles {
		if role.IsSystem {
			n++
		}
	}
	return n, nil
}

func (r *fakeRoleRepo) CountCustom(_ context.Context) (int64, error) {
	var n int64
	for _, role := range r.roles {
		if !role.IsSystem {
			n++
		}
	}
	return n, nil
}

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, user := range r.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, user := range r.users {
		if filter.Role != "" && !strings.EqualFold(user.Role, filter.Role) {
			continue
		}
		if filter.Verified != nil && user.Verified != *filter.Verified {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string, limit int) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Suggest(_ context.Context, prefix string, limit int) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, user := range r.users {
		if !strings.HasPrefix(strings.ToLower(user.FirstName), strings.ToLower(prefix)) &&
			!strings.HasPrefix(strings.ToLower(user.LastName), strings.ToLower(prefix)) {
			continue
		}
		name := user.FirstName + " " + user.LastName
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) CountByRoleName(_ context.Context, roleName string) (int64, error) {
	var n int64
	for _, user := range r.users {
		if strings.EqualFold(user.Role, roleName) {
			n++
		}
	}
	return n, nil
}

// fakeSystemUserRepo is an in-memory SystemUserRepository for service tests
type fakeSystemUserRepo struct {
	users  map[uint]*models.SystemUser
	nextID uint
}

func newFakeSystemUserRepo() *fakeSystemUserRepo {
	return &fakeSystemUserRepo{users: make(map[uint]*models.SystemUser), nextID: 1}
}

func (r *fakeSystemUserRepo) Create(_ context.Context, user *models.SystemUser) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeSystemUserRepo) GetByID(_ context.Context, id uint) (*models.SystemUser, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeSystemUserRepo) GetByUsername(_ context.Context, username string) (*models.SystemUser, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSystemUserRepo) GetByEmail(_ context.Context, email string) (*models.SystemUser, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSystemUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*models.SystemUser, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.EmployeeID, employeeID) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSystemUserRepo) Update(_ context.Context, user *models.SystemUser) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeSystemUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeSystemUserRepo) List(_ context.Context, filter repositories.SystemUserFilter, offset, limit int) ([]*models.SystemUser, int64, error) {
	var out []*models.SystemUser
	for _, user := range r.users {
		if filter.Department != "" && user.Department != filter.Department {
			continue
		}
		if filter.Role != "" && !strings.EqualFold(user.Role, filter.Role) {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		if filter.Locked != nil && user.IsLocked() != *filter.Locked {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSystemUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeSystemUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeSystemUserRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	_, err := r.GetByEmployeeID(ctx, employeeID)
	return err == nil, nil
}

func (r *fakeSystemUserRepo) CountByRoleName(_ context.Context, roleName string) (int64, error) {
	var n int64
	for _, user := range r.users {
		if strings.EqualFold(user.Role, roleName) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSystemUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeSystemUserRepo) ClearExpiredLockouts(_ context.Context) (int64, error) {
	now := time.Now()
	var n int64
	for _, user := range r.users {
		if user.LockUntil != nil && !user.LockUntil.After(now) {
			user.LockUntil = nil
			user.LoginAttempts = 0
			n++
		}
	}
	return n, nil
}
