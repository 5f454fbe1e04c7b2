package routes

import (
	"errors"
	"net/http"

	"quill-notes/quill/database"
	"quill-notes/quill/models"
	"quill-notes/quill/services"

	"github.com/gin-gonic/gin"
)

func RegisterTagRoutes(router *gin.Engine, db *database.Database, tagService services.TagServiceInterface) {
	group := router.Group("/api/v1/tags")
	{
		group.GET("", func(c *gin.Context) { GetTags(c, db, tagService) })
		group.POST("", func(c *gin.Context) { CreateTag(c, db, tagService) })
		group.GET("/:id", func(c *gin.Context) { GetTagById(c, db, tagService) })
		group.PUT("/:id", func(c *gin.Context) { UpdateTag(c, db, tagService) })
	}
}

func CreateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	var request models.TagRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := tagService.CreateTag(db, request.Name)
	if err != nil {
		if errors.Is(err, services.ErrTagExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tag name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func UpdateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	var request models.TagRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := tagService.UpdateTag(db, c.Param("id"), request.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		case errors.Is(err, services.ErrTagExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Tag name already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, tag)
}

func GetTagById(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tag, err := tagService.GetTagById(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tag)
}

func GetTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	tags, err := tagService.GetTags(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tags)
}
