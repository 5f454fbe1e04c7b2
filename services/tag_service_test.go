package services

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"quill-notes/quill/models"
	"quill-notes/quill/testutils"
)

func TestCreateTag_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tags" WHERE name = \$1`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "tags"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	service := &TagService{}
	tag, err := service.CreateTag(db, "work")
	assert.NoError(t, err)
	assert.Equal(t, "work", tag.Name)
	assert.NotEqual(t, uuid.Nil, tag.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTag_DuplicateName(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tags" WHERE name = \$1`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.CreateTag(db, "work")
	assert.ErrorIs(t, err, ErrTagExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTag_EmptyName(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	service := &TagService{}
	_, err := service.CreateTag(db, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTag_NotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE id = \$1`).
		WithArgs("missing-id", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.UpdateTag(db, "missing-id", "new-name")
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTag_NameCollision(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	tagID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE id = \$1`).
		WithArgs(tagID.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(tagID.String(), "work"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tags" WHERE name = \$1 AND id <> \$2`).
		WithArgs("home", tagID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.UpdateTag(db, tagID.String(), "home")
	assert.ErrorIs(t, err, ErrTagExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTagById_NotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE id = \$1`).
		WithArgs("missing-id", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	service := &TagService{}
	_, err := service.GetTagById(db, "missing-id")
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTagsToNote_UnknownTag(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	owner := models.User{ID: uuid.New()}
	missingTag := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(noteID.String(), 1).
		WillReturnRows(noteRows().AddRow(noteID.String(), owner.ID.String(), "text", true, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "note_tags"`).
		WillReturnRows(emptyTagJoinRows())
	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE id = \$1`).
		WithArgs(missingTag, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.AddTagsToNote(db, owner, noteID.String(), []uuid.UUID{missingTag})
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTagsToNote_AlreadyAttachedIsIdempotent(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	tagID := uuid.New()
	owner := models.User{ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(noteID.String(), 1).
		WillReturnRows(noteRows().AddRow(noteID.String(), owner.ID.String(), "text", true, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "note_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "tag_id"}).AddRow(noteID.String(), tagID.String()))
	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE "tags"."id" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(tagID.String(), "work"))
	mock.ExpectQuery(`SELECT (.+) FROM "tags" WHERE id = \$1`).
		WithArgs(tagID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(tagID.String(), "work"))
	mock.ExpectCommit()

	service := &TagService{}
	note, err := service.AddTagsToNote(db, owner, noteID.String(), []uuid.UUID{tagID})
	assert.NoError(t, err)
	assert.Len(t, note.Tags, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTagsToNote_ForbiddenForNonOwner(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	ownerID := uuid.New()
	stranger := models.User{ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(noteID.String(), 1).
		WillReturnRows(noteRows().AddRow(noteID.String(), ownerID.String(), "text", false, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "note_tags"`).
		WillReturnRows(emptyTagJoinRows())
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.AddTagsToNote(db, stranger, noteID.String(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTagsFromNote_UnassociatedIsSilentlySkipped(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	owner := models.User{ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes" WHERE id = \$1`).
		WithArgs(noteID.String(), 1).
		WillReturnRows(noteRows().AddRow(noteID.String(), owner.ID.String(), "text", true, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "note_tags"`).
		WillReturnRows(emptyTagJoinRows())
	mock.ExpectCommit()

	service := &TagService{}
	note, err := service.RemoveTagsFromNote(db, owner, noteID.String(), []uuid.UUID{uuid.New()})
	assert.NoError(t, err)
	assert.Empty(t, note.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
