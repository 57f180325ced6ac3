package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitResponse is one recorded value for a (visit, item) pair.
// Responses are append-only facts: corrections are new rows, and the
// current value for a pair is the row with the greatest CreatedAt.
// Exactly one of the value columns should be set for a well-formed row;
// readers pick the column matching the item type and ignore the rest.
type VisitResponse struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VisitID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"visitId"`
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"itemId"`
	EquipmentID *uuid.UUID `gorm:"type:uuid;index" json:"equipmentId,omitempty"`
	ValueBool   *bool      `json:"valueBool,omitempty"`
	ValueNumber *float64   `json:"valueNumber,omitempty"`
	ValueText   *string    `json:"valueText,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
}

func (vr *VisitResponse) BeforeCreate(tx *gorm.DB) (err error) {
	if vr.ID == uuid.Nil {
		vr.ID = uuid.New()
	}
	return
}
