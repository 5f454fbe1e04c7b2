package services

import (
	"errors"

	"quill-notes/quill/broker"
	"quill-notes/quill/database"
	"quill-notes/quill/models"

	"gorm.io/gorm"
)

type NoteServiceInterface interface {
	CreateNote(db *database.Database, actor models.User, input models.NoteCreate) (models.Note, error)
	GetNoteById(db *database.Database, actor models.User, id string) (models.Note, error)
	UpdateNote(db *database.Database, actor models.User, id string, update models.NoteUpdate) (models.Note, error)
	ArchiveNote(db *database.Database, actor models.User, id string) error
	RestoreNote(db *database.Database, actor models.User, id string) (models.Note, error)
	CycleImportance(db *database.Database, actor models.User, id string) (models.Note, error)
	GetVisibleNotes(db *database.Database, actor models.User) ([]models.Note, error)
	GetArchivedNotes(db *database.Database, actor models.User) ([]models.Note, error)
	GetPublicNotesByUsername(db *database.Database, username string) ([]models.Note, error)
	GetAllPublicNotes(db *database.Database) ([]models.Note, error)
	GetNotesByTag(db *database.Database, actor models.User, tagName string) ([]models.Note, error)
}

type NoteService struct{}

func NewNoteService() NoteServiceInterface {
	return &NoteService{}
}

// fetchNote loads a note by id regardless of lifecycle state. Missing ids
// surface as ErrNoteNotFound before any policy check runs.
func fetchNote(tx *gorm.DB, id string) (models.Note, error) {
	var note models.Note
	if err := tx.Preload("Tags").First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	return note, nil
}

func (s *NoteService) CreateNote(db *database.Database, actor models.User, input models.NoteCreate) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note := models.Note{
		AuthorID:   actor.ID,
		Text:       input.Text,
		Private:    true,
		Importance: models.MinImportance,
		Deleted:    false,
	}
	if input.Private != nil {
		note.Private = *input.Private
	}

	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteCreated, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
		"private": note.Private,
	})

	return note, nil
}

// GetNoteById returns a note the actor may read. Archived notes are not
// reachable through this path; the archive listing is the only way back
// to them.
func (s *NoteService) GetNoteById(db *database.Database, actor models.User, id string) (models.Note, error) {
	note, err := fetchNote(db.DB, id)
	if err != nil {
		return models.Note{}, err
	}
	if note.Deleted {
		return models.Note{}, ErrNoteNotFound
	}
	if !CanReadNote(actor, note) {
		return models.Note{}, ErrForbidden
	}
	return note, nil
}

// UpdateNote applies a partial update. Omitted fields keep their values;
// the author and lifecycle flags cannot change through this path.
func (s *NoteService) UpdateNote(db *database.Database, actor models.User, id string, update models.NoteUpdate) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := fetchNote(tx, id)
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

	if update.Text != nil {
		note.Text = *update.Text
	}
	if update.Private != nil {
		note.Private = *update.Private
	}

	if err := tx.Save(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteUpdated, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
	})

	return note, nil
}

// ArchiveNote soft-deletes a note. Archiving an already-archived note is
// a no-op success.
func (s *NoteService) ArchiveNote(db *database.Database, actor models.User, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	note, err := fetchNote(tx, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !CanWriteNote(actor, note) {
		tx.Rollback()
		return ErrForbidden
	}

	if note.Deleted {
		tx.Rollback()
		return nil
	}

	if err := tx.Model(&note).Update("deleted", true).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	broker.Publish(broker.NoteArchived, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
	})

	return nil
}

// RestoreNote brings an archived note back. Every other field is left
// exactly as it was when the note was archived.
func (s *NoteService) RestoreNote(db *database.Database, actor models.User, id string) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := fetchNote(tx, id)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	if !CanWriteNote(actor, note) {
		tx.Rollback()
		return models.Note{}, ErrForbidden
	}

	if note.Deleted {
		if err := tx.Model(&note).Update("deleted", false).Error; err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
		note.Deleted = false
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteRestored, actor.ID.String(), map[string]interface{}{
		"note_id": note.ID.String(),
	})

	return note, nil
}

// CycleImportance advances importance one step: 1 -> 2 -> 3 -> 1.
func (s *NoteService) CycleImportance(db *database.Database, actor models.User, id string) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := fetchNote(tx, id)
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

	note.Importance = note.Importance%models.MaxImportance + 1

	if err := tx.Model(&note).Update("importance", note.Importance).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	broker.Publish(broker.NoteUpdated, actor.ID.String(), map[string]interface{}{
		"note_id":    note.ID.String(),
		"importance": note.Importance,
	})

	return note, nil
}

// GetVisibleNotes lists active notes the actor may read: their own plus
// everyone's public ones.
func (s *NoteService) GetVisibleNotes(db *database.Database, actor models.User) ([]models.Note, error) {
	var notes []models.Note
	err := db.DB.Preload("Tags").
		Where("deleted = ?", false).
		Where("author_id = ? OR private = ?", actor.ID, false).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetArchivedNotes applies the same visibility predicate restricted to
// archived notes.
func (s *NoteService) GetArchivedNotes(db *database.Database, actor models.User) ([]models.Note, error) {
	var notes []models.Note
	err := db.DB.Preload("Tags").
		Where("deleted = ?", true).
		Where("author_id = ? OR private = ?", actor.ID, false).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetPublicNotesByUsername lists the public, active notes of the named
// user. No authentication required.
func (s *NoteService) GetPublicNotesByUsername(db *database.Database, username string) ([]models.Note, error) {
	var notes []models.Note
	err := db.DB.Preload("Tags").
		Joins("JOIN users ON users.id = notes.author_id").
		Where("users.username = ?", username).
		Where("notes.private = ? AND notes.deleted = ?", false, false).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetAllPublicNotes lists every public, active note system-wide.
func (s *NoteService) GetAllPublicNotes(db *database.Database) ([]models.Note, error) {
	var notes []models.Note
	err := db.DB.Preload("Tags").
		Where("private = ? AND deleted = ?", false, false).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNotesByTag lists the actor's own active notes carrying the named tag.
func (s *NoteService) GetNotesByTag(db *database.Database, actor models.User, tagName string) ([]models.Note, error) {
	var notes []models.Note
	err := db.DB.Preload("Tags").
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Joins("JOIN tags ON tags.id = note_tags.tag_id").
		Where("tags.name = ?", tagName).
		Where("notes.author_id = ? AND notes.deleted = ?", actor.ID, false).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

var NoteServiceInstance NoteServiceInterface
