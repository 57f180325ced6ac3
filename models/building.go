package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Building represents a serviced property. Visits and service reports
// always hang off a building.
type Building struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:150;not null" json:"name"`
	Address      *string        `gorm:"size:255" json:"address,omitempty"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Systems      datatypes.JSON `gorm:"type:jsonb" json:"systems,omitempty"` // JSON array of installed systems, e.g. ["pump","fire"]
	ServiceFlags *string        `gorm:"size:255" json:"serviceFlags,omitempty"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid" json:"createdBy,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
