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

func RegisterNoteRoutes(router *gin.Engine, db *database.Database, noteService services.NoteServiceInterface, tagService services.TagServiceInterface, authService services.AuthServiceInterface) {
	// Public listings: no authentication required.
	public := router.Group("/api/v1/notes")
	{
		public.GET("/public", func(c *gin.Context) { GetAllPublicNotes(c, db, noteService) })
		public.GET("/search", func(c *gin.Context) { SearchPublicNotes(c, db, noteService) })
	}

	group := router.Group("/api/v1/notes")
	group.Use(middleware.AuthMiddleware(db, authService))
	{
		group.GET("", func(c *gin.Context) { GetNotes(c, db, noteService) })
		group.POST("", func(c *gin.Context) { CreateNote(c, db, noteService) })
		group.GET("/archived", func(c *gin.Context) { GetArchivedNotes(c, db, noteService) })
		group.GET("/filter", func(c *gin.Context) { GetNotesByTag(c, db, noteService) })

		group.GET("/:id", func(c *gin.Context) { GetNoteById(c, db, noteService) })
		group.PUT("/:id", func(c *gin.Context) { UpdateNote(c, db, noteService) })
		group.DELETE("/:id", func(c *gin.Context) { ArchiveNote(c, db, noteService) })
		group.POST("/:id/restore", func(c *gin.Context) { RestoreNote(c, db, noteService) })
		group.POST("/:id/importance", func(c *gin.Context) { CycleImportance(c, db, noteService) })

		group.PUT("/:id/tags", func(c *gin.Context) { AddNoteTags(c, db, tagService) })
		group.DELETE("/:id/tags", func(c *gin.Context) { RemoveNoteTags(c, db, tagService) })
	}
}

// noteErrorStatus maps service errors to an HTTP response.
func noteErrorStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
	case errors.Is(err, services.ErrTagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this note"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input models.NoteCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.CreateNote(db, actor, input)
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func GetNoteById(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	note, err := noteService.GetNoteById(db, actor, c.Param("id"))
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var update models.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := noteService.UpdateNote(db, actor, c.Param("id"), update)
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// ArchiveNote soft-deletes a note; repeating it succeeds without change.
func ArchiveNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := noteService.ArchiveNote(db, actor, c.Param("id")); err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

func RestoreNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	note, err := noteService.RestoreNote(db, actor, c.Param("id"))
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func CycleImportance(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	note, err := noteService.CycleImportance(db, actor, c.Param("id"))
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// GetNotes lists the active notes visible to the actor: their own plus
// everyone's public ones.
func GetNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notes, err := noteService.GetVisibleNotes(db, actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

func GetArchivedNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notes, err := noteService.GetArchivedNotes(db, actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// GetNotesByTag lists the actor's own active notes carrying the tag named
// in the query string.
func GetNotesByTag(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tagName := c.Query("tag")
	if tagName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag query parameter is required"})
		return
	}

	notes, err := noteService.GetNotesByTag(db, actor, tagName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// SearchPublicNotes lists the public, active notes of the user named in
// the query string.
func SearchPublicNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username query parameter is required"})
		return
	}

	notes, err := noteService.GetPublicNotesByUsername(db, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

func GetAllPublicNotes(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	notes, err := noteService.GetAllPublicNotes(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// AddNoteTags attaches the given tag ids to a note the actor owns.
func AddNoteTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.NoteTagsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := tagService.AddTagsToNote(db, actor, c.Param("id"), request.Tags)
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// RemoveNoteTags detaches the given tag ids; unknown ids are skipped.
func RemoveNoteTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request models.NoteTagsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := tagService.RemoveTagsFromNote(db, actor, c.Param("id"), request.Tags)
	if err != nil {
		noteErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}
