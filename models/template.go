package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template categories mirror the service crews: pump maintenance and
// fire-system maintenance.
const (
	CategoryPump = "pump"
	CategoryFire = "fire"
)

// Template item value types (closed set).
const (
	ItemTypeCheckbox = "checkbox"
	ItemTypeNumber   = "number"
	ItemTypeText     = "text"
	ItemTypeTextarea = "textarea"
)

// Template item kinds. Standard items are rendered as a single
// "label: value" line; floor-table items carry a JSON-encoded
// floor-by-floor inspection table in their text value.
const (
	ItemKindStandard   = "standard"
	ItemKindFloorTable = "floor_table"
)

// VisitTemplate is a named, ordered checklist definition for one
// category of inspection.
type VisitTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:150;not null" json:"name"`
	Category string    `gorm:"size:20;not null" json:"category"`
	IsActive bool      `gorm:"default:true" json:"isActive"`

	Items []TemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *VisitTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// TemplateItem is one checklist field within a template.
type TemplateItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"templateId"`
	Label      string    `gorm:"size:255;not null" json:"label"`
	ItemType   string    `gorm:"size:20;not null" json:"itemType"`
	ItemKind   string    `gorm:"size:20;not null;default:standard" json:"itemKind"`
	Required   bool      `gorm:"default:false" json:"required"`
	SortOrder  int       `gorm:"not null;default:0" json:"sortOrder"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *TemplateItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// ValidItemType reports whether t is one of the supported field types.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeCheckbox, ItemTypeNumber, ItemTypeText, ItemTypeTextarea:
		return true
	}
	return false
}

// SortTemplateItems orders items by sort order, breaking ties by id so
// the ordering is stable across fetches.
func SortTemplateItems(items []TemplateItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].SortOrder != items[b].SortOrder {
			return items[a].SortOrder < items[b].SortOrder
		}
		return items[a].ID.String() < items[b].ID.String()
	})
}
