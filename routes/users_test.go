package routes

import (
	"bytes"
	"encoding/json"
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

// MockUserService backs the user route tests. aliceID and bobID come from
// the note route fixtures; carol is an admin.
type MockUserService struct{}

var (
	carolID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	carol   = models.User{ID: carolID, Username: "carol", Role: models.AdminRole}
)

func (m *MockUserService) CreateUser(db *database.Database, username, password string, role models.RoleType) (models.User, error) {
	if username == "alice" {
		return models.User{}, services.ErrUserExists
	}
	return models.User{ID: uuid.New(), Username: username, Role: role}, nil
}

func (m *MockUserService) GetUserById(db *database.Database, id string) (models.User, error) {
	if id == aliceID.String() {
		return alice, nil
	}
	return models.User{}, services.ErrUserNotFound
}

func (m *MockUserService) GetUsers(db *database.Database) ([]models.User, error) {
	return []models.User{alice, bob}, nil
}

func (m *MockUserService) UpdateUser(db *database.Database, actor models.User, id string, update models.UserUpdate) (models.User, error) {
	if !services.CanEditUser(actor, id) {
		return models.User{}, services.ErrForbidden
	}
	user := actor
	if update.Username != nil {
		user.Username = *update.Username
	}
	return user, nil
}

func (m *MockUserService) DeleteUser(db *database.Database, actor models.User, id string) error {
	if !services.CanDeleteUser(actor) {
		return services.ErrForbidden
	}
	if id != aliceID.String() {
		return services.ErrUserNotFound
	}
	return nil
}

func (m *MockUserService) GetUserNotes(db *database.Database, actor *models.User, id string) ([]models.Note, error) {
	if id != aliceID.String() {
		return nil, services.ErrUserNotFound
	}
	if actor != nil && actor.ID == aliceID {
		return []models.Note{aliceNote()}, nil
	}
	return []models.Note{}, nil
}

type userAuthService struct{ MockAuthService }

func (m *userAuthService) VerifyToken(db *database.Database, tokenString string) (models.User, error) {
	if tokenString == "carol-token" {
		return carol, nil
	}
	return m.MockAuthService.VerifyToken(db, tokenString)
}

func setupUserRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	db := &database.Database{}
	RegisterUserRoutes(router, db, &MockUserService{}, &userAuthService{})
	return router
}

func TestCreateUser_Anonymous(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBufferString(`{"username":"dave","password":"pw"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, models.SimpleUserRole, user.Role)
}

func TestCreateUser_Conflict(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBufferString(`{"username":"alice","password":"pw"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUser_AnonymousCannotAssignRole(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBufferString(`{"username":"dave","password":"pw","role":"admin"}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateUser_AdminAssignsRole(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBufferString(`{"username":"dave","password":"pw","role":"admin"}`))
	req.Header.Set("Authorization", "Bearer carol-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, models.AdminRole, user.Role)
}

func TestGetUsers_NoAuthRequired(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/users", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserById_NotFound(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/users/"+uuid.New().String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_SelfOnly(t *testing.T) {
	router := setupUserRouter()

	// bob tries to edit alice's account
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/users/"+aliceID.String(), bytes.NewBufferString(`{"username":"evil"}`))
	req.Header.Set("Authorization", "Bearer bob-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// alice edits her own
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/api/v1/users/"+aliceID.String(), bytes.NewBufferString(`{"username":"alice2"}`))
	req.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/users/"+aliceID.String(), nil)
	req.Header.Set("Authorization", "Bearer bob-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/v1/users/"+aliceID.String(), nil)
	req.Header.Set("Authorization", "Bearer carol-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteUser_Unauthenticated(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/users/"+aliceID.String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserNotes_VisibilityDependsOnCaller(t *testing.T) {
	router := setupUserRouter()

	// Anonymous callers get the public view.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/users/"+aliceID.String()+"/notes", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var notes []models.Note
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Empty(t, notes)

	// The owner sees their private notes too.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/users/"+aliceID.String()+"/notes", nil)
	req.Header.Set("Authorization", "Bearer alice-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Len(t, notes, 1)
}
