package services

import (
	"errors"

	"quill-notes/quill/broker"
	"quill-notes/quill/database"
	"quill-notes/quill/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagServiceInterface interface {
	CreateTag(db *database.Database, name string) (models.Tag, error)
	UpdateTag(db *database.Database, id string, name string) (models.Tag, error)
	GetTagById(db *database.Database, id string) (models.Tag, error)
	GetTags(db *database.Database) ([]models.Tag, error)
	AddTagsToNote(db *database.Database, actor models.User, noteID string, tagIDs []uuid.UUID) (models.Note, error)
	RemoveTagsFromNote(db *database.Database, actor models.User, noteID string, tagIDs []uuid.UUID) (models.Note, error)
}

type TagService struct{}

func NewTagService() TagServiceInterface {
	return &TagService{}
}

// CreateTag persists a new tag. Tag names are globally unique; a
// duplicate surfaces as ErrTagExists, never as a raw storage fault.
func (s *TagService) CreateTag(db *database.Database, name string) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, ErrInvalidInput
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Tag{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		tx.Rollback()
		return models.Tag{}, err
	}
	if count > 0 {
		tx.Rollback()
		return models.Tag{}, ErrTagExists
	}

	tag := models.Tag{Name: name}
	if err := tx.Create(&tag).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Tag{}, ErrTagExists
		}
		return models.Tag{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Tag{}, err
	}

	broker.Publish(broker.TagCreated, "", map[string]interface{}{
		"tag_id": tag.ID.String(),
		"name":   tag.Name,
	})

	return tag, nil
}

// UpdateTag renames a tag, keeping the global uniqueness of names.
func (s *TagService) UpdateTag(db *database.Database, id string, name string) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, ErrInvalidInput
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Tag{}, tx.Error
	}

	var tag models.Tag
	if err := tx.First(&tag, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tag{}, ErrTagNotFound
		}
		return models.Tag{}, err
	}

	if name != tag.Name {
		var count int64
		if err := tx.Model(&models.Tag{}).Where("name = ? AND id <> ?", name, tag.ID).Count(&count).Error; err != nil {
			tx.Rollback()
			return models.Tag{}, err
		}
		if count > 0 {
			tx.Rollback()
			return models.Tag{}, ErrTagExists
		}
		tag.Name = name
	}

	if err := tx.Save(&tag).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Tag{}, ErrTagExists
		}
		return models.Tag{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Tag{}, err
	}

	broker.Publish(broker.TagUpdated, "", map[string]interface{}{
		"tag_id": tag.ID.String(),
		"name":   tag.Name,
	})

	return tag, nil
}

func (s *TagService) GetTagById(db *database.Database, id string) (models.Tag, error) {
	var tag models.Tag
	if err := db.DB.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tag{}, ErrTagNotFound
		}
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagService) GetTags(db *database.Database) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.DB.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTagsToNote attaches tags to a note the actor owns. Every id must
// resolve to an existing tag; attaching an already-present tag changes
// nothing observable.
func (s *TagService) AddTagsToNote(db *database.Database, actor models.User, noteID string, tagIDs []uuid.UUID) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := fetchNote(tx, noteID)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	if note.Deleted {
		tx.Rollback()
		return models.Note{}, ErrNoteNotFound
	}
	if !CanWriteNote(actor, note) {
		tx.Rollback()
		return models.Note{}, ErrForbidden
	}

	attached := make(map[uuid.UUID]bool, len(note.Tags))
	for _, t := range note.Tags {
		attached[t.ID] = true
	}

	for _, tagID := range tagIDs {
		var tag models.Tag
		if err := tx.First(&tag, "id = ?", tagID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Note{}, ErrTagNotFound
			}
			return models.Note{}, err
		}

		if attached[tag.ID] {
			continue
		}

		if err := tx.Model(&note).Association("Tags").Append(&tag); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
		attached[tag.ID] = true
		note.Tags = append(note.Tags, tag)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteTagsAdded, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
	})

	return note, nil
}

// RemoveTagsFromNote detaches tags from a note the actor owns. Unknown or
// unassociated ids are silently skipped; the tag rows themselves are
// never deleted.
func (s *TagService) RemoveTagsFromNote(db *database.Database, actor models.User, noteID string, tagIDs []uuid.UUID) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := fetchNote(tx, noteID)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	if note.Deleted {
		tx.Rollback()
		return models.Note{}, ErrNoteNotFound
	}
	if !CanWriteNote(actor, note) {
		tx.Rollback()
		return models.Note{}, ErrForbidden
	}

	attached := make(map[uuid.UUID]models.Tag, len(note.Tags))
	for _, t := range note.Tags {
		attached[t.ID] = t
	}

	for _, tagID := range tagIDs {
		tag, ok := attached[tagID]
		if !ok {
			continue
		}

		if err := tx.Model(&note).Association("Tags").Delete(&tag); err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
		delete(attached, tagID)
	}

	remaining := make([]models.Tag, 0, len(attached))
	for _, t := range note.Tags {
		if _, ok := attached[t.ID]; ok {
			remaining = append(remaining, t)
		}
	}
	note.Tags = remaining

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteTagsRemoved, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
	})

	return note, nil
}

var TagServiceInstance TagServiceInterface
