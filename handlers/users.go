package handlers

import (
	"net/http"

	"pizza-api/config"
	"pizza-api/middleware"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
)

// ListUsers returns all users for the admin panel, with optional search,
// role, and status filters.
func ListUsers(c *gin.Context) {
	var users []models.User
	query := config.DB

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("is_active = ?", status == "active")
	}
	if sortBy := c.Query("sortBy"); sortBy == "name" || sortBy == "email" || sortBy == "created_at" {
		dir := "asc"
		if c.Query("order") == "desc" {
			dir = "desc"
		}
		query = query.Order(sortBy + " " + dir)
	}

	query.Find(&users)
	respondData(c, http.StatusOK, users)
}

type UpdateProfileRequest struct {
	Name    string  `json:"name" binding:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile lets any authenticated user edit their own contact details.
// Email, role, and password all have dedicated flows and are untouchable here.
func UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		respondData(c, http.StatusOK, user)
		return
	}
	if err := config.DB.Model(user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	respondData(c, http.StatusOK, user)
}

// GetUser returns one user (admin).
func GetUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondData(c, http.StatusOK, user)
}

type UpdateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email" binding:"omitempty,email"`
	Role     models.UserRole `json:"role"`
	IsActive *bool           `json:"isActive"`
}

// UpdateUser edits a user's profile, role, or active flag (admin).
// Passwords are never set here; the reset flows own that.
func UpdateUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = models.NormalizeEmail(req.Email)
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			respondError(c, http.StatusBadRequest, "Invalid role. Must be: customer, staff, or admin")
			return
		}
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			respondError(c, http.StatusBadRequest, "Failed to update user")
			return
		}
	}
	respondData(c, http.StatusOK, user)
}

// DeleteUser hard-deletes a user (admin). Admins cannot delete themselves;
// deactivation via UpdateUser is the soft path.
func DeleteUser(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if user.ID == caller.ID {
		respondError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondMessage(c, http.StatusOK, "User deleted")
}
