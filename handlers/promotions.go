package handlers

import (
	"net/http"
	"time"

	"pizza-api/config"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// ListPromotions returns currently active promotions (public).
func ListPromotions(c *gin.Context) {
	var promotions []models.Promotion
	config.DB.Where("is_active = ?", true).Find(&promotions)

	now := time.Now()
	active := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.CurrentlyActive(now) {
			active = append(active, p)
		}
	}
	respondData(c, http.StatusOK, active)
}

// GetPromotion returns a single promotion by id (public).
func GetPromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := config.DB.First(&promotion, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Promotion not found")
		return
	}
	respondData(c, http.StatusOK, promotion)
}

// ValidatePromotion checks a code before checkout and reports the discount
// it would currently apply.
func ValidatePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := config.DB.Where("code = ?", c.Param("code")).First(&promotion).Error; err != nil {
		respondError(c, http.StatusNotFound, "Promotion code not found")
		return
	}
	if !promotion.CurrentlyActive(time.Now()) {
		respondError(c, http.StatusBadRequest, "This promotion is not currently active")
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"code":         promotion.Code,
		"discountType": promotion.DiscountType,
		"amount":       promotion.Amount,
		"description":  promotion.Description,
	})
}

type PromotionRequest struct {
	Code         string              `json:"code" binding:"required,max=50"`
	Description  string              `json:"description"`
	DiscountType models.DiscountType `json:"discountType" binding:"required"`
	Amount       *float64            `json:"amount" binding:"required,gte=0"`
	StartDate    *time.Time          `json:"startDate"`
	EndDate      *time.Time          `json:"endDate"`
	IsActive     *bool               `json:"isActive"`
}

func (r *PromotionRequest) validate() string {
	switch r.DiscountType {
	case models.DiscountPercentage:
		if *r.Amount <= 0 || *r.Amount > 100 {
			return "Percentage discounts must be between 0 and 100"
		}
	case models.DiscountFixed:
	default:
		return "Discount type must be 'percentage' or 'fixed'"
	}
	if r.StartDate != nil && r.EndDate != nil && !r.StartDate.Before(*r.EndDate) {
		return "End date must be after start date"
	}
	return ""
}

// CreatePromotion adds a promotion (admin).
func CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	var existing models.Promotion
	if err := config.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "A promotion with this code already exists")
		return
	}

	promotion := models.Promotion{
		Code:         req.Code,
		Description:  req.Description,
		DiscountType: req.DiscountType,
		Amount:       *req.Amount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
	}
	if req.IsActive != nil {
		promotion.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&promotion).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create promotion")
		return
	}
	respondData(c, http.StatusCreated, promotion)
}

// UpdatePromotion edits a promotion (admin). Orders that already used it
// keep their recorded discount.
func UpdatePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := config.DB.First(&promotion, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Promotion not found")
		return
	}

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	updates := map[string]interface{}{
		"code":          req.Code,
		"description":   req.Description,
		"discount_type": req.DiscountType,
		"amount":        *req.Amount,
		"start_date":    req.StartDate,
		"end_date":      req.EndDate,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := config.DB.Model(&promotion).Updates(updates).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Failed to update promotion")
		return
	}
	respondData(c, http.StatusOK, promotion)
}

// DeletePromotion removes a promotion (admin).
func DeletePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := config.DB.First(&promotion, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "Promotion not found")
		return
	}
	if err := config.DB.Delete(&promotion).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete promotion")
		return
	}
	respondMessage(c, http.StatusOK, "Promotion deleted")
}
