package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Importance bounds for a note. The value cycles 1 -> 2 -> 3 -> 1.
const (
	MinImportance = 1
	MaxImportance = 3
)

type Note struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Text       string    `gorm:"size:255;not null" json:"text"`
	Private    bool      `gorm:"not null;default:true" json:"private"`
	Importance int       `gorm:"not null;default:1" json:"importance"`
	Deleted    bool      `gorm:"not null;default:false" json:"deleted"`
	Tags       []Tag     `gorm:"many2many:note_tags" json:"tags"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Importance == 0 {
		n.Importance = MinImportance
	}
	return nil
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// NoteCreate is the payload accepted when creating a note. Visibility
// defaults to private when the flag is omitted.
type NoteCreate struct {
	Text    string `json:"text" binding:"required,max=255"`
	Private *bool  `json:"private"`
}

// NoteUpdate enumerates the fields the owner may patch on a note.
// Nil fields are left unchanged; author and lifecycle flags are not
// patchable through this path.
type NoteUpdate struct {
	Text    *string `json:"text" binding:"omitempty,max=255"`
	Private *bool   `json:"private"`
}
