package api

import (
	authDelivery "admissions-backend/internal/auth/delivery"
	authUsecase "admissions-backend/internal/auth/usecase"
	catalogDelivery "admissions-backend/internal/catalog/delivery"
	catalogUsecase "admissions-backend/internal/catalog/usecase"
	feedbackDelivery "admissions-backend/internal/feedback/delivery"
	feedbackUsecase "admissions-backend/internal/feedback/usecase"
	profileDelivery "admissions-backend/internal/profile/delivery"
	profileUsecase "admissions-backend/internal/profile/usecase"
	"admissions-backend/pkg/ai"
	"admissions-backend/pkg/config"
	"admissions-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	config      *config.Config

	authHandler     *authDelivery.AuthHandler
	feedbackHandler *feedbackDelivery.FeedbackHandler
	profileHandler  *profileDelivery.ProfileHandler
	catalogHandler  *catalogDelivery.CatalogHandler
	settingsHandler *SettingsHandler
	submitLimiter   *ratelimit.Pool
}

func NewHandler(
	cfg *config.Config,
	authUc authUsecase.AuthUsecase,
	feedbackUc feedbackUsecase.FeedbackUsecase,
	profileUc profileUsecase.ProfileUsecase,
	catalogUc catalogUsecase.CatalogUsecase,
	ollamaSettings *ai.OllamaSettings,
) *Handler {
	cookie := authDelivery.SessionCookie{
		Name:   cfg.SessionCookieName,
		MaxAge: int(cfg.JWTAccessExpiry.Seconds()),
		Secure: cfg.SessionCookieSecure,
	}

	return &Handler{
		authUsecase:     authUc,
		config:          cfg,
		authHandler:     authDelivery.NewAuthHandler(authUc, cookie),
		feedbackHandler: feedbackDelivery.NewFeedbackHandler(feedbackUc, cfg.Mail),
		profileHandler:  profileDelivery.NewProfileHandler(profileUc),
		catalogHandler:  catalogDelivery.NewCatalogHandler(catalogUc),
		settingsHandler: NewSettingsHandler(ollamaSettings),
		submitLimiter:   ratelimit.NewPool(cfg.FeedbackSubmitRate, cfg.FeedbackSubmitBurst),
	}
}

// Router builds the engine with CORS and every route attached
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}

func (h *Handler) Start(addr string) error {
	return h.Router().Run(addr)
}
