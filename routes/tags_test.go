package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"quill-notes/quill/database"
	"quill-notes/quill/models"
	"quill-notes/quill/services"
)

// tagStoreStub serves the tag CRUD endpoints with a fixed catalog.
type tagStoreStub struct {
	MockTagService
	existing models.Tag
}

func (s *tagStoreStub) CreateTag(db *database.Database, name string) (models.Tag, error) {
	if name == s.existing.Name {
		return models.Tag{}, services.ErrTagExists
	}
	return models.Tag{ID: uuid.New(), Name: name}, nil
}

func (s *tagStoreStub) GetTagById(db *database.Database, id string) (models.Tag, error) {
	if id == s.existing.ID.String() {
		return s.existing, nil
	}
	return models.Tag{}, services.ErrTagNotFound
}

func (s *tagStoreStub) GetTags(db *database.Database) ([]models.Tag, error) {
	return []models.Tag{s.existing}, nil
}

func (s *tagStoreStub) UpdateTag(db *database.Database, id string, name string) (models.Tag, error) {
	if id != s.existing.ID.String() {
		return models.Tag{}, services.ErrTagNotFound
	}
	if name == s.existing.Name {
		return models.Tag{}, services.ErrTagExists
	}
	return models.Tag{ID: s.existing.ID, Name: name}, nil
}

func setupTagRouter() (*gin.Engine, models.Tag) {
	gin.SetMode(gin.TestMode)
	existing := models.Tag{ID: uuid.New(), Name: "work"}
	router := gin.New()
	RegisterTagRoutes(router, &database.Database{}, &tagStoreStub{existing: existing})
	return router, existing
}

func TestCreateTag_Success(t *testing.T) {
	router, _ := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tags", bytes.NewBufferString(`{"name":"personal"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "personal")
}

func TestCreateTag_Duplicate(t *testing.T) {
	router, _ := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tags", bytes.NewBufferString(`{"name":"work"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTag_MissingName(t *testing.T) {
	router, _ := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/tags", bytes.NewBufferString(`{}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTagById_NotFound(t *testing.T) {
	router, _ := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/tags/"+uuid.New().String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTags_ListsCatalog(t *testing.T) {
	router, existing := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/tags", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), existing.Name)
}

func TestUpdateTag_RenameAndConflict(t *testing.T) {
	router, existing := setupTagRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/tags/"+existing.ID.String(), bytes.NewBufferString(`{"name":"errands"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "errands")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/v1/tags/"+existing.ID.String(), bytes.NewBufferString(`{"name":"work"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
