package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type CreateTagRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Category string `json:"category" binding:"max=50"`
}

// ListTags returns the tag catalog
// GET /api/tags
// Query params:
//   - category: filter by category (optional)
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := strings.TrimSpace(c.Query("category"))
	tags, err := ctrl.tagService.ListTags(c.Request.Context(), category)
	if err != nil {
		log.Error("Failed to list tags", err, map[string]interface{}{
			"category": category,
		})
		apperrors.InternalError(c, "failed to load tags")
		return
	}
	apperrors.Success(c, tags)
}

// CreateTag adds a catalog entry
// POST /api/tags
func (ctrl *TagController) CreateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "tag name is required")
		return
	}

	tag, err := ctrl.tagService.CreateTag(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		respondServiceError(c, err, "create tag")
		return
	}

	log.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	apperrors.Created(c, "tag created", tag)
}
