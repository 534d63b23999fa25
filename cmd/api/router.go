package api

import (
	"net/http"

	authDelivery "admissions-backend/internal/auth/delivery"
	"admissions-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireAuth := authDelivery.AuthMiddleware(h.authUsecase, h.config.SessionCookieName)
	optionalAuth := authDelivery.OptionalAuthMiddleware(h.authUsecase, h.config.SessionCookieName)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/google", h.authHandler.GoogleSignIn)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", requireAuth, h.authHandler.Me)
			auth.POST("/admin/login", h.authHandler.AdminLogin)
			auth.POST("/admin/logout", h.authHandler.AdminLogout)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(requireAuth)
		{
			fcm.POST("/register", h.authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", h.authHandler.UnregisterFCMToken)
		}

		// Feedback (anonymous submissions allowed, rate limited per IP)
		feedback := api.Group("/feedback")
		{
			feedback.POST("", h.submitLimiter.Middleware(), optionalAuth, h.feedbackHandler.Submit)
			feedback.GET("/mine", requireAuth, h.feedbackHandler.ListMine)
		}

		// Catalog routes (public)
		api.GET("/universities", h.catalogHandler.ListUniversities)
		api.GET("/universities/search", h.catalogHandler.SearchUniversities)
		api.GET("/universities/:id", h.catalogHandler.GetUniversity)
		api.GET("/extracurriculars", h.catalogHandler.ListExtracurriculars)

		// Career analysis (protected)
		profile := api.Group("/profile")
		profile.Use(requireAuth)
		{
			profile.POST("/analyze", h.profileHandler.Analyze)
			profile.GET("/analyses", h.profileHandler.History)
			profile.GET("/analyses/:id", h.profileHandler.Get)
		}

		// Admin routes: session cookie or bearer token of an admin
		admin := api.Group("/admin")
		admin.Use(requireAuth, authDelivery.RequireAdmin())
		{
			admin.GET("/feedback", h.feedbackHandler.List)
			admin.GET("/feedback/export", h.feedbackHandler.Export)
			admin.GET("/feedback/:id", h.feedbackHandler.Get)
			admin.POST("/feedback/sync", h.feedbackHandler.SyncReplies)

			admin.GET("/settings/ollama", h.settingsHandler.GetOllamaSettings)
			admin.PUT("/settings/ollama", h.settingsHandler.UpdateOllamaSettings)
			admin.POST("/settings/ollama/test", h.settingsHandler.TestOllamaConnection)
		}
	}
}
