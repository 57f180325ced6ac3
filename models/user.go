// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles (closed set). Techs work visits; ops managers run the
// board and reports; directors see everything.
const (
	RoleTech       = "tech"
	RoleOpsManager = "ops_manager"
	RoleDirector   = "director"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string     `gorm:"size:100;not null" json:"fullName"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string     `gorm:"size:20" json:"phone"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:20;not null;default:tech" json:"role"`
	HomeCrewID   *uuid.UUID `gorm:"type:uuid" json:"homeCrewId,omitempty"`
	HomeCrew     *Crew      `gorm:"foreignKey:HomeCrewID" json:"homeCrew,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleTech, RoleOpsManager, RoleDirector:
		return true
	}
	return false
}
