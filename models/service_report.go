package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service report editorial statuses. The row is created as draft the
// first time a day's report is viewed and only ever moves forward.
const (
	ReportDraft = "draft"
	ReportReady = "ready"
	ReportSent  = "sent"
)

// Service report workflow actions.
const (
	ReportActionMarkReady = "mark_ready"
	ReportActionSend      = "send"
)

var reportTransitions = map[string]map[string]string{
	ReportDraft: {
		ReportActionMarkReady: ReportReady,
	},
	ReportReady: {
		ReportActionSend: ReportSent,
	},
}

// ReportTransition resolves an editorial action against the current
// status; false means the transition is rejected.
func ReportTransition(current, action string) (string, bool) {
	next, ok := reportTransitions[current][action]
	return next, ok
}

// ServiceReport is the editorial wrapper around one day's aggregated
// visit data for one building: client-facing summary, internal notes
// and the draft/ready/sent send status. One row per (building, date),
// created lazily on first view.
type ServiceReport struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_service_reports_building_date" json:"buildingId"`
	ReportDate    string     `gorm:"size:10;not null;uniqueIndex:idx_service_reports_building_date" json:"reportDate"` // YYYY-MM-DD
	Status        string     `gorm:"size:20;not null;default:draft" json:"status"`
	ClientSummary *string    `json:"clientSummary,omitempty"`
	InternalNotes *string    `json:"internalNotes,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	SentBy        *uuid.UUID `gorm:"type:uuid" json:"sentBy,omitempty"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"createdBy,omitempty"`
	UpdatedBy     *uuid.UUID `gorm:"type:uuid" json:"updatedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (sr *ServiceReport) BeforeCreate(tx *gorm.DB) (err error) {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	if sr.Status == "" {
		sr.Status = ReportDraft
	}
	return
}
