package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a community identity in the users table
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	FirstName  string `gorm:"size:50;not null" json:"first_name"`
	MiddleName string `gorm:"size:50" json:"middle_name,omitempty"`
	LastName   string `gorm:"size:50;not null" json:"last_name"`
	Phone      string `gorm:"size:15;index" json:"phone,omitempty"`

	// Identity documents
	PAN   string `gorm:"size:10" json:"pan,omitempty"`
	Adhar string `gorm:"size:12" json:"adhar,omitempty"`

	MaritalStatus  string     `gorm:"size:20" json:"marital_status,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	DateOfMarriage *time.Time `json:"date_of_marriage,omitempty"`

	// Community lineage
	Kul   string `gorm:"size:100" json:"kul,omitempty"`
	Gotra string `gorm:"size:100" json:"gotra,omitempty"`

	FatherName   string `gorm:"size:100" json:"father_name,omitempty"`
	MotherName   string `gorm:"size:100" json:"mother_name,omitempty"`
	ChildrenName string `gorm:"size:255" json:"children_name,omitempty"`

	// Role by name, with an optional reference to a Role row. The row wins
	// during permission resolution; the name is kept for identities created
	// before the roles table existed.
	Role   string `gorm:"size:50;default:'Member';index;not null" json:"role"`
	RoleID *uint  `gorm:"index" json:"role_id,omitempty"`

	Verified  bool           `gorm:"default:false;not null" json:"verified"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoleRef *Role `gorm:"foreignKey:RoleID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins the name parts, skipping an absent middle name
func (u *User) FullName() string {
	if u.MiddleName != "" {
		return u.FirstName + " " + u.MiddleName + " " + u.LastName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserResponse DTO
type UserResponse struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	MiddleName     string     `json:"middle_name,omitempty"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone,omitempty"`
	MaritalStatus  string     `json:"marital_status,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	DateOfMarriage *time.Time `json:"date_of_marriage,omitempty"`
	Kul            string     `json:"kul,omitempty"`
	Gotra          string     `json:"gotra,omitempty"`
	FatherName     string     `json:"father_name,omitempty"`
	MotherName     string     `json:"mother_name,omitempty"`
	ChildrenName   string     `json:"children_name,omitempty"`
	Role           string     `json:"role"`
	RoleID         *uint      `json:"role_id,omitempty"`
	Verified       bool       `json:"verified"`
	IsActive       bool       `json:"is_active"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		MiddleName:     u.MiddleName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Phone:          u.Phone,
		MaritalStatus:  u.MaritalStatus,
		DateOfBirth:    u.DateOfBirth,
		DateOfMarriage: u.DateOfMarriage,
		Kul:            u.Kul,
		Gotra:          u.Gotra,
		FatherName:     u.FatherName,
		MotherName:     u.MotherName,
		ChildrenName:   u.ChildrenName,
		Role:           u.Role,
		RoleID:         u.RoleID,
		Verified:       u.Verified,
		IsActive:       u.IsActive,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Marital status values accepted on registration and profile update
var MaritalStatuses = []string{"Single", "Married", "Divorced", "Widowed"}

// IsValidMaritalStatus reports whether s is an accepted marital status
func IsValidMaritalStatus(s string) bool {
	for _, v := range MaritalStatuses {
		if v == s {
			return true
		}
	}
	return false
}
