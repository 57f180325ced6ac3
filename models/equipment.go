package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment is a piece of serviced machinery installed in a building
// (pumps, valves, fire panels). Responses may reference the equipment
// they were recorded against.
type Equipment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID    uuid.UUID `gorm:"type:uuid;not null;index" json:"buildingId"`
	Building      Building  `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Name          string    `gorm:"size:150;not null" json:"name"`
	EquipmentType string    `gorm:"size:50;not null" json:"equipmentType"`
	Tag           *string   `gorm:"size:100" json:"tag,omitempty"`
	Serial        *string   `gorm:"size:100" json:"serial,omitempty"`
	Manufacturer  *string   `gorm:"size:100" json:"manufacturer,omitempty"`
	Model         *string   `gorm:"size:100" json:"model,omitempty"`
	Location      *string   `gorm:"size:150" json:"location,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Equipment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// DisplayLabel picks the first human-usable identifier: name, then tag,
// then serial, falling back to a short id.
func (e *Equipment) DisplayLabel() string {
	if s := strings.TrimSpace(e.Name); s != "" {
		return s
	}
	if e.Tag != nil {
		if s := strings.TrimSpace(*e.Tag); s != "" {
			return s
		}
	}
	if e.Serial != nil {
		if s := strings.TrimSpace(*e.Serial); s != "" {
			return s
		}
	}
	return fmt.Sprintf("Equipo %s", e.ID.String()[:6])
}
