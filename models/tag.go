package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a globally unique label. Tags are not owner-scoped; detaching a
// tag from a note removes the association only, never the tag itself.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;unique;not null" json:"name"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TagRequest is the payload for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// NoteTagsRequest carries the tag ids to attach to or detach from a note.
type NoteTagsRequest struct {
	Tags []uuid.UUID `json:"tags" binding:"required"`
}
