package services

import (
	"errors"
	"time"

	"quill-notes/quill/database"
	"quill-notes/quill/models"
	"quill-notes/quill/utils/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

type AuthServiceInterface interface {
	Login(db *database.Database, username, password string) (string, error)
	VerifyPassword(db *database.Database, username, password string) (models.User, error)
	VerifyToken(db *database.Database, tokenString string) (models.User, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

// VerifyPassword resolves the basic-auth credential pair to a user. It
// fails closed: an unknown username and a wrong password are not
// distinguishable to the caller.
func (s *AuthService) VerifyPassword(db *database.Database, username, password string) (models.User, error) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyToken resolves a bearer token to a user. A bad signature, a
// malformed token, or a token for a since-deleted user all fail with
// ErrInvalidToken.
func (s *AuthService) VerifyToken(db *database.Database, tokenString string) (models.User, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}

	return user, nil
}

// Login verifies the credential pair and issues a signed token.
func (s *AuthService) Login(db *database.Database, username, password string) (string, error) {
	user, err := s.VerifyPassword(db, username, password)
	if err != nil {
		return "", err
	}

	tokenString, err := token.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var AuthServiceInstance AuthServiceInterface
