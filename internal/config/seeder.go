package config

import (
	"log"
	"time"

	"gorm.io/gorm"

	"samajhub/internal/adapters/persistence/models"
	"samajhub/internal/pkg/password"
	"samajhub/internal/pkg/permissions"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Each seeder is idempotent so Run is safe on
// every startup.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSystemRoles(); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

var roleDescriptions = map[string]string{
	permissions.RoleSuperAdmin: "Full system access with all permissions",
	permissions.RoleAdmin:      "Administrative access with most permissions",
	permissions.RoleModerator:  "Moderation access with limited permissions",
	permissions.RoleMember:     "Standard member access with basic permissions",
	permissions.RoleGuest:      "Limited access for guests",
}

// seedSystemRoles inserts the five built-in roles. Existing rows are left
// untouched so operator edits to permissions survive restarts.
func (s *Seeder) seedSystemRoles() error {
	for _, name := range permissions.BuiltinRoles() {
		var count int64
		if err := s.db.Model(&models.Role{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		role := &models.Role{
			Name:        name,
			Description: roleDescriptions[name],
			Permissions: models.PermissionList(permissions.DefaultFor(name)),
			IsActive:    true,
			IsSystem:    true,
			IsDefault:   true,
		}
		if err := s.db.Create(role).Error; err != nil {
			return err
		}
		log.Printf("🌱 Seeded system role: %s (%d permissions)", name, len(role.Permissions))
	}
	return nil
}

// seedAdminUser creates the first Super Admin system account from
// ADMIN_* environment variables. Skipped when any system user exists or
// no admin password is configured.
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.SystemUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := s.cfg.Admin
	if admin.Username == "" || admin.Email == "" || admin.Password == "" {
		log.Println("⚠️ ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := password.HashSystem(admin.Password)
	if err != nil {
		return err
	}

	var role models.Role
	var roleID *uint
	if err := s.db.Where("LOWER(name) = LOWER(?)", permissions.RoleSuperAdmin).First(&role).Error; err == nil {
		roleID = &role.ID
	}

	now := time.Now()
	user := &models.SystemUser{
		Username:           admin.Username,
		Email:              admin.Email,
		Password:           hashed,
		EmployeeID:         admin.EmployeeID,
		Department:         "IT",
		Designation:        "System Administrator",
		FirstName:          "System",
		LastName:           "Administrator",
		Phone:              "0000000000",
		Role:               permissions.RoleSuperAdmin,
		RoleID:             roleID,
		AccessLevel:        5,
		Verified:           true,
		IsActive:           true,
		LastPasswordChange: now,
		PasswordExpiry:     now.AddDate(0, 0, models.PasswordExpiryDays),
	}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded Super Admin system user: %s [%s]", admin.Username, admin.EmployeeID)
	return nil
}
