package middleware

import (
	"net/http"
	"strings"

	"quill-notes/quill/database"
	"quill-notes/quill/models"
	"quill-notes/quill/services"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the context key the authenticated user is stored under.
const CurrentUserKey = "currentUser"

// credentialStrategy tries to resolve a request to a user. It returns
// (user, true, nil) on success and (zero, false, nil) when the request
// carries no credential for this strategy.
type credentialStrategy func(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) (models.User, bool, error)

// basicStrategy authenticates an Authorization: Basic header.
func basicStrategy(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) (models.User, bool, error) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return models.User{}, false, nil
	}

	user, err := authService.VerifyPassword(db, username, password)
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

// bearerStrategy authenticates an Authorization: Bearer header.
func bearerStrategy(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) (models.User, bool, error) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.User{}, false, nil
	}

	user, err := authService.VerifyToken(db, parts[1])
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

// strategies are tried in order; the first one that yields an identity wins.
var strategies = []credentialStrategy{basicStrategy, bearerStrategy}

func authenticate(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) (models.User, bool, error) {
	for _, strategy := range strategies {
		user, ok, err := strategy(c, db, authService)
		if err != nil {
			return models.User{}, false, err
		}
		if ok {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

// AuthMiddleware rejects requests that fail both credential strategies.
func AuthMiddleware(db *database.Database, authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok, err := authenticate(c, db, authService)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when credentials are
// present but lets anonymous requests through. Invalid credentials are
// still rejected rather than downgraded to anonymous.
func OptionalAuthMiddleware(db *database.Database, authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		user, ok, err := authenticate(c, db, authService)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the request context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
