package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Crew is a named service crew for one category (pump or fire). Visits
// may be assigned to a crew, individual techs, or both.
type Crew struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Category string    `gorm:"size:20;not null" json:"category"`

	Members []CrewMember `gorm:"foreignKey:CrewID" json:"members,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *Crew) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// CrewMember links a tech user to a crew.
type CrewMember struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CrewID uuid.UUID `gorm:"type:uuid;not null;index" json:"crewId"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (cm *CrewMember) BeforeCreate(tx *gorm.DB) (err error) {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	return
}
