package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit lifecycle statuses. Transitions only move forward and are
// enforced through VisitTransition rather than ad-hoc checks.
const (
	VisitPlanned    = "planned"
	VisitInProgress = "in_progress"
	VisitCompleted  = "completed"
	VisitMissed     = "missed"
)

// Visit workflow actions.
const (
	VisitActionStart    = "start"
	VisitActionComplete = "complete"
	VisitActionMiss     = "miss"
)

// visitTransitions is the {current, action} -> next table for the visit
// state machine. Anything not listed is rejected.
var visitTransitions = map[string]map[string]string{
	VisitPlanned: {
		VisitActionStart: VisitInProgress,
		VisitActionMiss:  VisitMissed,
	},
	VisitInProgress: {
		VisitActionComplete: VisitCompleted,
		VisitActionMiss:     VisitMissed,
	},
}

// VisitTransition resolves a workflow action against the current
// status. The second return is false when the transition is rejected.
func VisitTransition(current, action string) (string, bool) {
	next, ok := visitTransitions[current][action]
	return next, ok
}

// Visit is one scheduled or performed execution of a template against a
// building on a given date.
type Visit struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"buildingId"`
	Building           Building      `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	TemplateID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"templateId"`
	Template           VisitTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	AssignedCrewID     *uuid.UUID    `gorm:"type:uuid;index" json:"assignedCrewId,omitempty"`
	AssignedTechUserID *uuid.UUID    `gorm:"type:uuid;index" json:"assignedTechUserId,omitempty"`
	ScheduledFor       string        `gorm:"size:10;not null;index" json:"scheduledFor"` // YYYY-MM-DD civil date
	Status             string        `gorm:"size:20;not null;default:planned;index" json:"status"`
	StartedAt          *time.Time    `json:"startedAt,omitempty"`
	CompletedAt        *time.Time    `gorm:"index" json:"completedAt,omitempty"`
	CompletedBy        *uuid.UUID    `gorm:"type:uuid" json:"completedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
