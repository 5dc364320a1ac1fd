package handlers

import (
	"net/http"
	"strings"

	"pizza-api/config"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// ListCategories returns all categories in display order (public).
func ListCategories(c *gin.Context) {
	var categories []models.Category
	config.DB.Order("sort_order asc, display_name asc").Find(&categories)
	respondData(c, http.StatusOK, categories)
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=60"`
	DisplayName string `json:"displayName" binding:"required,max=120"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
}

// CreateCategory adds a category (admin). Duplicate slugs are a conflict.
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Name))
	var existing models.Category
	if err := config.DB.Where("name = ?", slug).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "A category with this name already exists")
		return
	}

	category := models.Category{
		Name:        slug,
		DisplayName: req.DisplayName,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondData(c, http.StatusCreated, category)
}

// UpdateCategory edits a category (admin).
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{
		"name":         strings.ToLower(strings.TrimSpace(req.Name)),
		"display_name": req.DisplayName,
		"description":  req.Description,
		"sort_order":   req.SortOrder,
	}
	if err := config.DB.Model(&category).Updates(updates).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Failed to update category")
		return
	}
	respondData(c, http.StatusOK, category)
}

// DeleteCategory removes a category (admin).
func DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err := config.DB.Delete(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	respondMessage(c, http.StatusOK, "Category deleted")
}
