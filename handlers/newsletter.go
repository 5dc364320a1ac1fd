package handlers

import (
	"net/http"

	"pizza-api/config"
	"pizza-api/mailer"
	"pizza-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Newsletter handles mailing-list subscriptions and admin marketing sends.
type Newsletter struct {
	mail *mailer.Mailer
}

func NewNewsletter(mail *mailer.Mailer) *Newsletter {
	return &Newsletter{mail: mail}
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe adds an email to the list, re-activating a previous
// unsubscribe if one exists.
func (h *Newsletter) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address.")
		return
	}

	email := models.NormalizeEmail(req.Email)
	var sub models.NewsletterSubscription
	if err := config.DB.Where("email = ?", email).First(&sub).Error; err == nil {
		if sub.IsActive {
			respondError(c, http.StatusBadRequest, "This email is already subscribed.")
			return
		}
		config.DB.Model(&sub).Update("is_active", true)
		respondMessage(c, http.StatusCreated, "Thank you for subscribing!")
		return
	}

	sub = models.NewsletterSubscription{Email: email, IsActive: true}
	if err := config.DB.Create(&sub).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Subscription failed. Please try again later.")
		return
	}
	respondMessage(c, http.StatusCreated, "Thank you for subscribing!")
}

// Unsubscribe deactivates a subscription without deleting the record.
func (h *Newsletter) Unsubscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address.")
		return
	}

	var sub models.NewsletterSubscription
	if err := config.DB.Where("email = ?", models.NormalizeEmail(req.Email)).First(&sub).Error; err != nil {
		respondError(c, http.StatusNotFound, "This email is not subscribed.")
		return
	}
	config.DB.Model(&sub).Update("is_active", false)
	respondMessage(c, http.StatusOK, "You have been unsubscribed.")
}

// ListSubscribers returns all active subscribers (admin).
func (h *Newsletter) ListSubscribers(c *gin.Context) {
	var subs []models.NewsletterSubscription
	config.DB.Where("is_active = ?", true).Order("created_at desc").Find(&subs)
	respondData(c, http.StatusOK, subs)
}

type MarketingEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SendMarketing sends a marketing email to every active subscriber.
// Individual send failures are logged and counted, not fatal.
func (h *Newsletter) SendMarketing(c *gin.Context) {
	var req MarketingEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email subject and content are required.")
		return
	}

	var subs []models.NewsletterSubscription
	config.DB.Where("is_active = ?", true).Find(&subs)

	sent, failed := 0, 0
	for _, sub := range subs {
		if err := h.mail.SendMarketing(sub.Email, req.Subject, req.Content); err != nil {
			zap.S().Errorw("failed to send marketing email", "email", sub.Email, "error", err)
			failed++
			continue
		}
		sent++
	}

	respondData(c, http.StatusOK, gin.H{"sent": sent, "failed": failed})
}
