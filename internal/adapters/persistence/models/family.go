package models

import (
	"time"
)

// Family represents an extended family/genealogy record
type Family struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FamilyName   string `gorm:"size:100;not null" json:"family_name"`
	FamilyHeadID uint   `gorm:"index;not null" json:"family_head_id"`

	// Lineage
	Kul           string `gorm:"size:100" json:"kul,omitempty"`
	Gotra         string `gorm:"size:100" json:"gotra,omitempty"`
	OriginVillage string `gorm:"size:100" json:"origin_village,omitempty"`
	OriginDistrict string `gorm:"size:100" json:"origin_district,omitempty"`
	OriginState   string `gorm:"size:100" json:"origin_state,omitempty"`
	OriginCountry string `gorm:"size:100;default:'India'" json:"origin_country,omitempty"`

	CreatedBy *uint     `json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FamilyHead *User         `gorm:"foreignKey:FamilyHeadID" json:"family_head,omitempty"`
	Events     []FamilyEvent `gorm:"foreignKey:FamilyID" json:"events,omitempty"`
}

func (Family) TableName() string {
	return "families"
}

// FamilyEvent records a milestone in a family's history
type FamilyEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FamilyID    uint      `gorm:"index;not null" json:"family_id"`
	EventType   string    `gorm:"size:20;not null" json:"event_type"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	Description string    `gorm:"size:500;not null" json:"description"`
	CreatedBy   *uint     `json:"created_by,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FamilyEvent) TableName() string {
	return "family_events"
}

// Family event types
var FamilyEventTypes = []string{"marriage", "birth", "death", "adoption", "divorce", "anniversary", "festival", "other"}

// IsValidFamilyEventType reports whether t is an accepted event type
func IsValidFamilyEventType(t string) bool {
	for _, v := range FamilyEventTypes {
		if v == t {
			return true
		}
	}
	return false
}
