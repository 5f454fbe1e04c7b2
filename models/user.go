package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleType is the coarse permission tier of a user account.
type RoleType string

const (
	SimpleUserRole RoleType = "simple_user" // default tier, owns and manages its notes
	AdminRole      RoleType = "admin"       // may also delete accounts
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:32;unique;not null" json:"username"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	Role         RoleType  `gorm:"size:32;not null;default:simple_user" json:"role"`
	Notes        []Note    `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}

// GetRole exposes the role string to the authorization layer.
func (u *User) GetRole() RoleType {
	return u.Role
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = SimpleUserRole
	}
	return nil
}

// UserUpdate enumerates the fields a user may patch on their own account.
// Nil fields are left unchanged.
type UserUpdate struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=32"`
	Password *string `json:"password" binding:"omitempty,min=1"`
}
