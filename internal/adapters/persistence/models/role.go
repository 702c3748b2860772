package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PermissionList stores a role's permission set as a JSON column
type PermissionList []string

// Value serializes the list for storage
func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionList{}
	}
	return json.Marshal(p)
}

// Scan deserializes the list from storage
func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for permission list")
	}
	return json.Unmarshal(bytes, p)
}

// Contains reports whether the set holds permission p
func (p PermissionList) Contains(permission string) bool {
	for _, v := range p {
		if v == permission {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the set holds at least one of perms
func (p PermissionList) ContainsAny(perms []string) bool {
	for _, v := range perms {
		if p.Contains(v) {
			return true
		}
	}
	return false
}

// Role represents a named permission bundle in the roles table
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string         `gorm:"size:500;not null" json:"description"`
	Permissions PermissionList `gorm:"type:json;not null" json:"permissions"`

	IsActive  bool `gorm:"default:true;index;not null" json:"is_active"`
	IsSystem  bool `gorm:"default:false;index;not null" json:"is_system"`
	IsDefault bool `gorm:"default:false;not null" json:"is_default"`

	CreatedBy *uint `json:"created_by,omitempty"`
	UpdatedBy *uint `json:"updated_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleResponse DTO with the member count attached by list/get endpoints
type RoleResponse struct {
	ID              uint           `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Permissions     PermissionList `json:"permissions"`
	PermissionCount int            `json:"permission_count"`
	MemberCount     int64          `json:"member_count"`
	IsActive        bool           `json:"is_active"`
	IsSystem        bool           `json:"is_system"`
	IsDefault       bool           `json:"is_default"`
	CreatedBy       *uint          `json:"created_by,omitempty"`
	UpdatedBy       *uint          `json:"updated_by,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (r *Role) ToResponse(memberCount int64) *RoleResponse {
	return &RoleResponse{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Permissions:     r.Permissions,
		PermissionCount: len(r.Permissions),
		MemberCount:     memberCount,
		IsActive:        r.IsActive,
		IsSystem:        r.IsSystem,
		IsDefault:       r.IsDefault,
		CreatedBy:       r.CreatedBy,
		UpdatedBy:       r.UpdatedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
