package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"pizza-api/config"
	"pizza-api/mailer"
	"pizza-api/middleware"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL = 10 * time.Minute
	otpTTL        = 10 * time.Minute
)

// Auth bundles the credential flows: registration, login, password reset
// by token or OTP, forced-password updates, and admin staff creation.
type Auth struct {
	cfg  config.Config
	mail *mailer.Mailer
}

func NewAuth(cfg config.Config, mail *mailer.Mailer) *Auth {
	return &Auth{cfg: cfg, mail: mail}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// hashToken derives the at-rest form of a reset token or OTP. Only the
// hash is stored; the original value travels to the user once.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":                 user.ID,
		"name":               user.Name,
		"email":              user.Email,
		"role":               user.Role,
		"forcePasswordReset": user.ForcePasswordReset,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates a customer account. Staff and admin accounts are only
// created through the admin endpoints.
func (a *Auth) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	email := models.NormalizeEmail(req.Email)
	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	token, err := middleware.GenerateToken(&user, a.cfg.TokenLifetime)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": userPayload(&user)})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user. Unknown email and wrong password produce the
// same message so the response never reveals which check failed.
func (a *Auth) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	token, err := middleware.GenerateToken(&user, a.cfg.TokenLifetime)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": userPayload(&user)})
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(c *gin.Context) {
	respondData(c, http.StatusOK, middleware.CurrentUser(c))
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a one-time code by email. The response is the same
// whether or not the account exists.
func (a *Auth) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email is required")
		return
	}

	genericMsg := "If an account with this email exists, you will receive an OTP shortly."

	var user models.User
	if err := config.DB.Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		respondMessage(c, http.StatusOK, genericMsg)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	expires := time.Now().Add(otpTTL)
	updates := map[string]interface{}{
		"otp_code":    hashToken(otp),
		"otp_expires": expires,
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	// Email delivery is the entire point of this request, so a send
	// failure surfaces instead of being swallowed.
	if err := a.mail.SendOTP(&user, otp); err != nil {
		zap.S().Errorw("failed to send OTP email", "email", user.Email, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to send OTP email. Please try again.")
		return
	}

	respondMessage(c, http.StatusOK, genericMsg)
}

type ResetPasswordOTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPasswordOTP consumes a one-time code. The code is rejected after
// expiry and cleared on success so it can never be replayed.
func (a *Auth) ResetPasswordOTP(c *gin.Context) {
	var req ResetPasswordOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email, OTP, and new password are required")
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", models.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	if user.OTPCode == "" || user.OTPExpires == nil ||
		time.Now().After(*user.OTPExpires) || user.OTPCode != hashToken(req.OTP) {
		respondError(c, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	now := time.Now()
	updates := map[string]interface{}{
		"password_hash":       hash,
		"otp_code":            "",
		"otp_expires":         nil,
		"password_changed_at": now,
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	respondMessage(c, http.StatusOK, "Password reset successful. You can now login with your new password.")
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword consumes a single-use reset link token. The stored value
// is the token's hash, so the URL parameter is re-hashed and matched.
func (a *Auth) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please provide a new password.")
		return
	}

	var user models.User
	err := config.DB.
		Where("password_reset_token = ? AND password_reset_expires > ?", hashToken(c.Param("token")), time.Now()).
		First(&user).Error
	if err != nil {
		respondError(c, http.StatusBadRequest, "Token is invalid or has expired.")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while resetting your password.")
		return
	}
	now := time.Now()
	updates := map[string]interface{}{
		"password_hash":          hash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
		"password_changed_at":    now,
		"force_password_reset":   false,
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while resetting your password.")
		return
	}

	token, err := middleware.GenerateToken(&user, a.cfg.TokenLifetime)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while resetting your password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "message": "Password reset successful!"})
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword changes a logged-in user's password after verifying the
// current one.
func (a *Auth) UpdatePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		respondError(c, http.StatusUnauthorized, "Your current password is incorrect.")
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}
	now := time.Now()
	if err := config.DB.Model(user).Updates(map[string]interface{}{
		"password_hash":       hash,
		"password_changed_at": now,
	}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}

	token, err := middleware.GenerateToken(user, a.cfg.TokenLifetime)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "message": "Password updated successfully!", "user": userPayload(user)})
}

type UpdateForcedPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePasswordForced lets a user with a pending forced reset (admin-issued
// temporary credentials) choose their real password. No current-password
// check: the temporary one was already used to log in.
func (a *Auth) UpdatePasswordForced(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if !user.ForcePasswordReset {
		respondError(c, http.StatusForbidden, "You are not required to reset your password.")
		return
	}

	var req UpdateForcedPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "New password is required")
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}
	now := time.Now()
	if err := config.DB.Model(user).Updates(map[string]interface{}{
		"password_hash":        hash,
		"force_password_reset": false,
		"password_changed_at":  now,
	}).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}
	user.ForcePasswordReset = false

	token, err := middleware.GenerateToken(user, a.cfg.TokenLifetime)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while updating your password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "message": "Password updated successfully!", "user": userPayload(user)})
}

// CheckPasswordReset reports whether the caller must reset their password.
func (a *Auth) CheckPasswordReset(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "forcePasswordReset": user.ForcePasswordReset})
}

type CreateStaffRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateStaff creates a staff account with a temporary password that is
// returned exactly once. The new account must reset its password before
// doing anything else.
func (a *Auth) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	email := models.NormalizeEmail(req.Email)
	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "User with this email already exists")
		return
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create staff account")
		return
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create staff account")
		return
	}

	user := models.User{
		Name:               req.Name,
		Email:              email,
		PasswordHash:       hash,
		Role:               models.RoleStaff,
		Phone:              req.Phone,
		Address:            req.Address,
		IsActive:           true,
		ForcePasswordReset: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create staff account")
		return
	}

	// Best effort: account creation already succeeded.
	if err := a.mail.SendStaffInvitation(&user, tempPassword); err != nil {
		zap.S().Errorw("failed to send staff invitation email", "email", user.Email, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Staff account created successfully.",
		"user":              userPayload(&user),
		"temporaryPassword": tempPassword,
	})
}

// AdminResetPassword issues a reset link on a user's behalf. The token is
// stored hashed and only ever travels in the email; consuming it is the
// reset-password/:token endpoint's job.
func (a *Auth) AdminResetPassword(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	token, err := generateResetToken()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to initiate password reset")
		return
	}
	expires := time.Now().Add(resetTokenTTL)
	updates := map[string]interface{}{
		"password_reset_token":   hashToken(token),
		"password_reset_expires": expires,
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to initiate password reset")
		return
	}

	if err := a.mail.SendPasswordReset(&user, token); err != nil {
		zap.S().Errorw("failed to send password reset email", "email", user.Email, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to send password reset email. Please try again.")
		return
	}

	respondMessage(c, http.StatusOK, "A password reset link has been sent to the user.")
}
