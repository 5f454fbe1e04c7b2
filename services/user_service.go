package services

import (
	"errors"

	"quill-notes/quill/broker"
	"quill-notes/quill/database"
	"quill-notes/quill/models"

	"gorm.io/gorm"
)

type UserServiceInterface interface {
	CreateUser(db *database.Database, username, password string, role models.RoleType) (models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
	GetUsers(db *database.Database) ([]models.User, error)
	UpdateUser(db *database.Database, actor models.User, id string, update models.UserUpdate) (models.User, error)
	DeleteUser(db *database.Database, actor models.User, id string) error
	GetUserNotes(db *database.Database, actor *models.User, id string) ([]models.Note, error)
}

type UserService struct {
	authService AuthServiceInterface
}

func NewUserService(authService AuthServiceInterface) UserServiceInterface {
	return &UserService{authService: authService}
}

// CreateUser persists a new account with a hashed password. The plaintext
// password never reaches the database.
func (s *UserService) CreateUser(db *database.Database, username, password string, role models.RoleType) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}
	if role == "" {
		role = models.SimpleUserRole
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if count > 0 {
		tx.Rollback()
		return models.User{}, ErrUserExists
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	broker.Publish(broker.UserCreated, user.ID.String(), map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
	})

	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUsers(db *database.Database) ([]models.User, error) {
	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update to an account. Editing is
// self-service only; admins get no override.
func (s *UserService) UpdateUser(db *database.Database, actor models.User, id string, update models.UserUpdate) (models.User, error) {
	if !CanEditUser(actor, id) {
		return models.User{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if update.Username != nil && *update.Username != user.Username {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", *update.Username).Count(&count).Error; err != nil {
			tx.Rollback()
			return models.User{}, err
		}
		if count > 0 {
			tx.Rollback()
			return models.User{}, ErrUserExists
		}
		user.Username = *update.Username
	}

	if update.Password != nil {
		hash, err := s.authService.HashPassword(*update.Password)
		if err != nil {
			tx.Rollback()
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	broker.Publish(broker.UserUpdated, actor.ID.String(), map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
	})

	return user, nil
}

// DeleteUser removes an account and everything it owns: tag associations,
// notes, then the user row, all in one transaction.
func (s *UserService) DeleteUser(db *database.Database, actor models.User, id string) error {
	if !CanDeleteUser(actor) {
		return ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := tx.Exec("DELETE FROM note_tags WHERE note_id IN (SELECT id FROM notes WHERE author_id = ?)", user.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("author_id = ?", user.ID).Delete(&models.Note{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	broker.Publish(broker.UserDeleted, actor.ID.String(), map[string]interface{}{
		"user_id": user.ID.String(),
	})

	return nil
}

// GetUserNotes lists the notes authored by a user. The owner sees all of
// their notes including archived ones; anyone else sees only public,
// active notes.
func (s *UserService) GetUserNotes(db *database.Database, actor *models.User, id string) ([]models.Note, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	query := db.DB.Preload("Tags").Where("author_id = ?", user.ID)
	if actor == nil || actor.ID != user.ID {
		query = query.Where("private = ? AND deleted = ?", false, false)
	}

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

var UserServiceInstance UserServiceInterface
