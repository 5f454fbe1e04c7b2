package routes

import (
	"errors"
	"net/http"

	"quill-notes/quill/database"
	"quill-notes/quill/middleware"
	"quill-notes/quill/models"
	"quill-notes/quill/services"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=32"`
	Password string `json:"password" binding:"required,min=1"`
	Role     string `json:"role" binding:"omitempty,noterole"`
}

func RegisterUserRoutes(router *gin.Engine, db *database.Database, userService services.UserServiceInterface, authService services.AuthServiceInterface) {
	group := router.Group("/api/v1/users")
	{
		group.GET("", func(c *gin.Context) { GetUsers(c, db, userService) })
		group.GET("/:id", func(c *gin.Context) { GetUserById(c, db, userService) })
	}

	// Signup is open, but the optional identity decides whether the role
	// field is honored.
	optional := router.Group("/api/v1/users")
	optional.Use(middleware.OptionalAuthMiddleware(db, authService))
	{
		optional.POST("", func(c *gin.Context) { CreateUser(c, db, userService) })
		optional.GET("/:id/notes", func(c *gin.Context) { GetUserNotes(c, db, userService) })
	}

	protected := router.Group("/api/v1/users")
	protected.Use(middleware.AuthMiddleware(db, authService))
	{
		protected.PUT("/:id", func(c *gin.Context) { UpdateUser(c, db, userService) })
		protected.DELETE("/:id", func(c *gin.Context) { DeleteUser(c, db, userService) })
	}
}

// CreateUser registers an account. Anonymous signups always get the
// simple_user role; only an authenticated admin may set another role.
func CreateUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	var request createUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.SimpleUserRole
	if request.Role != "" {
		actor, ok := middleware.CurrentUser(c)
		if !ok || !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may assign roles"})
			return
		}
		role = models.RoleType(request.Role)
	}

	user, err := userService.CreateUser(db, request.Username, request.Password, role)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func GetUserById(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	id := c.Param("id")
	user, err := userService.GetUserById(db, id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func GetUsers(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	users, err := userService.GetUsers(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser patches the actor's own account.
func UpdateUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := userService.UpdateUser(db, actor, c.Param("id"), update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You may only edit your own account"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Admin only.
func DeleteUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := userService.DeleteUser(db, actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

// GetUserNotes lists a user's notes. Owners see everything they wrote;
// other callers only the public, active notes.
func GetUserNotes(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	var actor *models.User
	if user, ok := middleware.CurrentUser(c); ok {
		actor = &user
	}

	notes, err := userService.GetUserNotes(db, actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}
