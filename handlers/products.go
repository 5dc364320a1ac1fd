package handlers

import (
	"net/http"

	"pizza-api/config"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the public catalog: available products only,
// filterable by category or search term.
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB.Where("is_available = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if popular := c.Query("popular"); popular == "true" {
		query = query.Where("is_popular = ?", true)
	}

	query.Order("sort_order asc, name asc").Find(&products)
	respondData(c, http.StatusOK, products)
}

// GetProduct returns a single product, available or not, so historical
// orders can still resolve their items.
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	respondData(c, http.StatusOK, product)
}

type ProductRequest struct {
	Name        string            `json:"name" binding:"required,min=2,max=100"`
	Description string            `json:"description"`
	Price       *float64          `json:"price" binding:"required,gte=0"`
	Category    string            `json:"category" binding:"required"`
	Image       string            `json:"image"`
	Ingredients models.StringList `json:"ingredients"`
	Sizes       string            `json:"sizes"`
	DietaryTags models.StringList `json:"dietaryTags"`
	IsAvailable *bool             `json:"isAvailable"`
	IsPopular   *bool             `json:"isPopular"`
	SortOrder   *int              `json:"sortOrder"`
}

// CreateProduct adds a catalog item (staff/admin).
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Ingredients: req.Ingredients,
		Sizes:       req.Sizes,
		DietaryTags: req.DietaryTags,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.IsPopular != nil {
		product.IsPopular = *req.IsPopular
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := config.DB.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondData(c, http.StatusCreated, product)
}

// UpdateProduct edits a catalog item (staff/admin). Already-placed orders
// keep their snapshot prices regardless.
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"description":  req.Description,
		"price":        *req.Price,
		"category":     req.Category,
		"image":        req.Image,
		"ingredients":  req.Ingredients,
		"sizes":        req.Sizes,
		"dietary_tags": req.DietaryTags,
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.IsPopular != nil {
		updates["is_popular"] = *req.IsPopular
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondData(c, http.StatusOK, product)
}

// DeleteProduct removes a catalog item. Products referenced by orders are
// only marked unavailable so historical orders stay resolvable.
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	var refs int64
	config.DB.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&refs)
	if refs > 0 {
		config.DB.Model(&product).Update("is_available", false)
		respondMessage(c, http.StatusOK, "Product is referenced by orders and was marked unavailable instead of deleted.")
		return
	}

	if err := config.DB.Delete(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted")
}
