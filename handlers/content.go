package handlers

import (
	"net/http"

	"pizza-api/config"
	"pizza-api/middleware"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// ListContent returns all content blocks (public).
func ListContent(c *gin.Context) {
	var blocks []models.ContentBlock
	config.DB.Preload("UpdatedByUser").Order("title asc").Find(&blocks)
	respondData(c, http.StatusOK, blocks)
}

// GetContent returns one content block by slug (public).
func GetContent(c *gin.Context) {
	var block models.ContentBlock
	if err := config.DB.Preload("UpdatedByUser").Where("slug = ?", c.Param("slug")).First(&block).Error; err != nil {
		respondError(c, http.StatusNotFound, "Content block not found")
		return
	}
	respondData(c, http.StatusOK, block)
}

type ContentRequest struct {
	Slug    string             `json:"slug" binding:"required"`
	Title   string             `json:"title" binding:"required"`
	Type    models.ContentType `json:"type"`
	Content string             `json:"content" binding:"required"`
}

// CreateContent adds a content block (admin).
func CreateContent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		req.Type = models.ContentText
	}
	if !models.ValidContentType(req.Type) {
		respondError(c, http.StatusBadRequest, "Invalid content type")
		return
	}

	var existing models.ContentBlock
	if err := config.DB.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "A content block with this slug already exists")
		return
	}

	block := models.ContentBlock{
		Slug:          req.Slug,
		Title:         req.Title,
		Type:          req.Type,
		Content:       req.Content,
		LastUpdatedBy: &user.ID,
	}
	if err := config.DB.Create(&block).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create content block")
		return
	}
	respondData(c, http.StatusCreated, block)
}

// UpdateContent edits a content block (admin).
func UpdateContent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var block models.ContentBlock
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&block).Error; err != nil {
		respondError(c, http.StatusNotFound, "Content block not found")
		return
	}

	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type != "" && !models.ValidContentType(req.Type) {
		respondError(c, http.StatusBadRequest, "Invalid content type")
		return
	}

	updates := map[string]interface{}{
		"title":           req.Title,
		"content":         req.Content,
		"last_updated_by": user.ID,
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if err := config.DB.Model(&block).Updates(updates).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Failed to update content block")
		return
	}
	respondData(c, http.StatusOK, block)
}

// DeleteContent removes a content block (admin).
func DeleteContent(c *gin.Context) {
	var block models.ContentBlock
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&block).Error; err != nil {
		respondError(c, http.StatusNotFound, "Content block not found")
		return
	}
	if err := config.DB.Delete(&block).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete content block")
		return
	}
	respondMessage(c, http.StatusOK, "Content block deleted")
}
