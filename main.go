package main

import (
	"context"
	"log"
	"os"
	"strings"

	api "admissions-backend/cmd/api"
	authdomain "admissions-backend/internal/auth/domain"
	authRepo "admissions-backend/internal/auth/repository"
	authUsecase "admissions-backend/internal/auth/usecase"
	catalogdomain "admissions-backend/internal/catalog/domain"
	catalogRepo "admissions-backend/internal/catalog/repository"
	catalogUsecase "admissions-backend/internal/catalog/usecase"
	feedbackdomain "admissions-backend/internal/feedback/domain"
	feedbackRepo "admissions-backend/internal/feedback/repository"
	feedbackScheduler "admissions-backend/internal/feedback/scheduler"
	feedbackUsecase "admissions-backend/internal/feedback/usecase"
	"admissions-backend/internal/notification"
	profiledomain "admissions-backend/internal/profile/domain"
	profileRepo "admissions-backend/internal/profile/repository"
	profileUsecase "admissions-backend/internal/profile/usecase"
	"admissions-backend/pkg/ai"
	"admissions-backend/pkg/config"
	"admissions-backend/pkg/database"
	"admissions-backend/pkg/fcm"
	"admissions-backend/pkg/imap"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.FCMToken{},
		&feedbackdomain.Feedback{},
		&profiledomain.ProfileAnalysis{},
		&catalogdomain.University{}, &catalogdomain.Extracurricular{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	feedbackRepository := feedbackRepo.NewGormFeedbackRepository(db)
	analysisRepo := profileRepo.NewGormAnalysisRepository(db)
	catalogRepository := catalogRepo.NewGormCatalogRepository(db)

	// Initialize IMAP service
	imapService := imap.NewService()

	// Initialize notification service; Pub/Sub and FCM are both optional
	var pushSender notification.PushSender
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			pushSender = fcmClient
		}
	} else {
		log.Printf("[DEBUG] No Firebase credentials configured, FCM disabled")
	}

	var notifService *notification.Service
	if cfg.GoogleProjectID != "" {
		// Extract short topic name from full resource name if necessary
		topicName := cfg.PubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		topic, err := notification.NewPubSubTopic(ctx, cfg.GoogleProjectID, topicName, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize Pub/Sub topic (events disabled): %v", err)
			notifService = notification.NewService(nil, fcmTokenRepo, pushSender)
		} else {
			defer topic.Stop()
			notifService = notification.NewService(topic, fcmTokenRepo, pushSender)
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, event publishing disabled")
		notifService = notification.NewService(nil, fcmTokenRepo, pushSender)
	}

	// Initialize AI provider
	ollamaSettings := ai.NewOllamaSettings(cfg.OllamaBaseURL, cfg.OllamaModel)
	generator, err := ai.NewGenerator(ctx, ai.Config{
		Provider:     ai.ProviderType(strings.ToLower(cfg.AIProvider)),
		GeminiAPIKey: cfg.GeminiApiKey,
		GeminiModel:  cfg.GeminiModel,
		Ollama:       ollamaSettings,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI provider:", err)
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg)
	feedbackUsecaseInstance := feedbackUsecase.NewFeedbackUsecase(feedbackRepository, imapService, notifService, notifService, cfg.FeedbackReplyWindowDays)
	profileUsecaseInstance := profileUsecase.NewProfileUsecase(analysisRepo, ai.NewCareerAdvisor(generator))
	catalogUsecaseInstance := catalogUsecase.NewCatalogUsecase(catalogRepository, cfg.CatalogCacheTTL)

	// Scheduled reply sync is opt-in
	if cfg.FeedbackSyncCron != "" {
		syncScheduler, err := feedbackScheduler.NewReplySyncScheduler(feedbackUsecaseInstance, cfg.Mail, cfg.FeedbackSyncCron)
		if err != nil {
			log.Fatal("Failed to create reply sync scheduler:", err)
		}
		syncScheduler.Start(ctx)
		defer syncScheduler.Stop()
	}

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, authUsecaseInstance, feedbackUsecaseInstance, profileUsecaseInstance, catalogUsecaseInstance, ollamaSettings)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
