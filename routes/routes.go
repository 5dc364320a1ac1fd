package routes

import (
	"pizza-api/config"
	"pizza-api/handlers"
	"pizza-api/mailer"
	"pizza-api/middleware"
	"pizza-api/models"
	"pizza-api/realtime"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Setup registers every route. The realtime hub and mailer are injected
// into the handlers that publish events or send email.
func Setup(r *gin.Engine, cfg config.Config, hub *realtime.Hub, mail *mailer.Mailer, rdb *redis.Client) {
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWin))

	auth := handlers.NewAuth(cfg, mail)
	orders := handlers.NewOrders(hub, mail)
	messages := handlers.NewMessages(hub)
	newsletter := handlers.NewNewsletter(mail)
	uploads := handlers.NewUploads(cfg.UploadDir)

	r.Static("/uploads", cfg.UploadDir)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", auth.Register)
		public.POST("/auth/login", auth.Login)
		public.POST("/auth/forgot-password", auth.ForgotPassword)
		public.POST("/auth/reset-password-otp", auth.ResetPasswordOTP)
		public.PUT("/auth/reset-password/:token", auth.ResetPassword)

		public.GET("/products", handlers.ListProducts)
		public.GET("/products/:id", handlers.GetProduct)
		public.GET("/categories", handlers.ListCategories)

		public.GET("/promotions", handlers.ListPromotions)
		public.GET("/promotions/validate/:code", handlers.ValidatePromotion)
		public.GET("/promotions/:id", handlers.GetPromotion)

		public.GET("/content", handlers.ListContent)
		public.GET("/content/:slug", handlers.GetContent)

		public.POST("/newsletter/subscribe", newsletter.Subscribe)
		public.POST("/newsletter/unsubscribe", newsletter.Unsubscribe)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/auth/me", auth.Me)
		authed.PUT("/users/me", handlers.UpdateProfile)
		authed.GET("/auth/check-password-reset", auth.CheckPasswordReset)
		authed.PUT("/auth/update-password", auth.UpdatePassword)
		authed.PUT("/auth/update-password-forced", auth.UpdatePasswordForced)

		authed.GET("/orders/:id", orders.Get)

		authed.GET("/messages/:orderId", messages.ListForOrder)
		authed.POST("/messages/:orderId", messages.Send)
	}

	// Realtime channel: token comes via query param on the handshake.
	r.GET("/ws", middleware.AuthRequired(), realtime.ServeWS(hub, handlers.CanAccessOrder))

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", orders.Create)
		customer.GET("/orders/my-orders", orders.MyOrders)
		customer.PUT("/orders/:id/cancel", orders.Cancel)
	}

	// ── Staff & admin routes ───────────────────────────────────────
	staff := r.Group("/api")
	staff.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
	{
		staff.GET("/orders", orders.List)
		staff.PUT("/orders/:id/status", orders.UpdateStatus)

		staff.POST("/products", handlers.CreateProduct)
		staff.PUT("/products/:id", handlers.UpdateProduct)
		staff.DELETE("/products/:id", handlers.DeleteProduct)

		staff.GET("/analytics/sales", handlers.SalesAnalytics)
		staff.GET("/analytics/products", handlers.ProductAnalytics)
		staff.GET("/analytics/overview", handlers.Overview)

		staff.POST("/uploads", uploads.Upload)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/auth/staff", auth.CreateStaff)

		admin.GET("/users", handlers.ListUsers)
		admin.GET("/users/:id", handlers.GetUser)
		admin.PUT("/users/:id", handlers.UpdateUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)
		admin.POST("/users/:id/reset-password", auth.AdminResetPassword)

		admin.POST("/categories", handlers.CreateCategory)
		admin.PUT("/categories/:id", handlers.UpdateCategory)
		admin.DELETE("/categories/:id", handlers.DeleteCategory)

		admin.POST("/promotions", handlers.CreatePromotion)
		admin.PUT("/promotions/:id", handlers.UpdatePromotion)
		admin.DELETE("/promotions/:id", handlers.DeletePromotion)

		admin.POST("/content", handlers.CreateContent)
		admin.PUT("/content/:slug", handlers.UpdateContent)
		admin.DELETE("/content/:slug", handlers.DeleteContent)

		admin.GET("/newsletter/subscribers", newsletter.ListSubscribers)
		admin.POST("/newsletter/send-marketing-email", newsletter.SendMarketing)
	}
}
