package models

import (
	"time"

	"gorm.io/gorm"
)

// Lockout policy for system accounts
const (
	MaxLoginAttempts    = 5
	LockoutDuration     = 2 * time.Hour
	PasswordExpiryDays  = 90
)

// SystemUser represents an internal staff identity in the system_users table.
// Kept in a separate table from community users: a system email may collide
// with a community email without conflict.
type SystemUser struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	EmployeeID  string `gorm:"uniqueIndex;size:10;not null" json:"employee_id"`
	Department  string `gorm:"size:20;index;not null" json:"department"`
	Designation string `gorm:"size:100;not null" json:"designation"`

	FirstName  string `gorm:"size:50;not null" json:"first_name"`
	MiddleName string `gorm:"size:50" json:"middle_name,omitempty"`
	LastName   string `gorm:"size:50;not null" json:"last_name"`
	Phone      string `gorm:"size:15;not null" json:"phone"`

	Role        string `gorm:"size:50;default:'Member';index;not null" json:"role"`
	RoleID      *uint  `gorm:"index" json:"role_id,omitempty"`
	AccessLevel int    `gorm:"default:1;index;not null" json:"access_level"`

	TwoFactorEnabled   bool       `gorm:"default:false" json:"two_factor_enabled"`
	LastPasswordChange time.Time  `json:"last_password_change"`
	PasswordExpiry     time.Time  `json:"password_expiry"`
	LoginAttempts      int        `gorm:"default:0" json:"-"`
	LockUntil          *time.Time `gorm:"index" json:"-"`

	Verified    bool           `gorm:"default:false;not null" json:"verified"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time     `json:"last_login,omitempty"`
	LastLoginIP string         `gorm:"size:50" json:"last_login_ip,omitempty"`
	CreatedBy   *uint          `json:"created_by,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	RoleRef *Role `gorm:"foreignKey:RoleID" json:"-"`
}

func (SystemUser) TableName() string {
	return "system_users"
}

// Departments accepted for system users
var Departments = []string{"IT", "HR", "Finance", "Operations", "Security", "Management", "Support"}

// IsValidDepartment reports whether d is an accepted department
func IsValidDepartment(d string) bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

// IsLocked reports whether the account is under an active lockout
func (u *SystemUser) IsLocked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}

// IsPasswordExpired reports whether the password is past its expiry window
func (u *SystemUser) IsPasswordExpired() bool {
	return !u.PasswordExpiry.IsZero() && u.PasswordExpiry.Before(time.Now())
}

// CanAccessSystem gates every authenticated system request: active, verified,
// not locked, password not expired.
func (u *SystemUser) CanAccessSystem() bool {
	return u.IsActive && u.Verified && !u.IsLocked() && !u.IsPasswordExpired()
}

// FullName joins the name parts, skipping an absent middle name
func (u *SystemUser) FullName() string {
	if u.MiddleName != "" {
		return u.FirstName + " " + u.MiddleName + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// SystemUserResponse DTO without credential and lockout internals
type SystemUserResponse struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	EmployeeID       string     `json:"employee_id"`
	Department       string     `json:"department"`
	Designation      string     `json:"designation"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name,omitempty"`
	LastName         string     `json:"last_name"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone"`
	Role             string     `json:"role"`
	RoleID           *uint      `json:"role_id,omitempty"`
	AccessLevel      int        `json:"access_level"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	PasswordExpiry   time.Time  `json:"password_expiry"`
	Verified         bool       `json:"verified"`
	IsActive         bool       `json:"is_active"`
	IsLocked         bool       `json:"is_locked"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (u *SystemUser) ToResponse() *SystemUserResponse {
	return &SystemUserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		EmployeeID:       u.EmployeeID,
		Department:       u.Department,
		Designation:      u.Designation,
		FirstName:        u.FirstName,
		MiddleName:       u.MiddleName,
		LastName:         u.LastName,
		FullName:         u.FullName(),
		Phone:            u.Phone,
		Role:             u.Role,
		RoleID:           u.RoleID,
		AccessLevel:      u.AccessLevel,
		TwoFactorEnabled: u.TwoFactorEnabled,
		PasswordExpiry:   u.PasswordExpiry,
		Verified:         u.Verified,
		IsActive:         u.IsActive,
		IsLocked:         u.IsLocked(),
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
