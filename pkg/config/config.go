package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	DBLogLevel       string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin session cookie
	SessionCookieName   string
	SessionCookieSecure bool
	AdminEmails         []string

	GoogleClientID      string
	GoogleClientSecret  string
	GoogleProjectID     string
	GoogleCredentials   string
	PubSubTopic         string
	FirebaseCredentials string

	AIProvider    string
	GeminiApiKey  string
	GeminiModel   string
	OllamaBaseURL string
	OllamaModel   string

	Mail MailCredentials

	FeedbackReplyWindowDays int
	FeedbackSyncCron        string
	FeedbackSubmitRate      time.Duration
	FeedbackSubmitBurst     int

	CatalogCacheTTL time.Duration
}

// MailCredentials describes how to reach the mailbox that holds admin replies.
type MailCredentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	OAuthRefreshToken string
	OAuthClientID     string
	OAuthClientSecret string
	SentFolder        string
	AuthTimeout       time.Duration
}

// Configured reports whether enough is set to log in to the mailbox.
func (m MailCredentials) Configured() bool {
	if m.Host == "" || m.User == "" {
		return false
	}
	return m.Password != "" || m.OAuthRefreshToken != ""
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	googleClientID := getEnv("GOOGLE_CLIENT_ID", "")
	googleClientSecret := getEnv("GOOGLE_CLIENT_SECRET", "")

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=admissions port=5432 sslmode=disable"),
		DBLogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour), // 7 days

		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "admin_session"),
		SessionCookieSecure: getBool("SESSION_COOKIE_SECURE", true),
		AdminEmails:         getList("ADMIN_EMAILS"),

		GoogleClientID:      googleClientID,
		GoogleClientSecret:  googleClientSecret,
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials:   getEnv("GOOGLE_CREDENTIALS", ""),
		PubSubTopic:         getEnv("PUBSUB_TOPIC", "admissions-events"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		Mail: MailCredentials{
			Host:              getEnv("IMAP_HOST", "imap.gmail.com"),
			Port:              getInt("IMAP_PORT", 993),
			User:              getEnv("IMAP_USER", ""),
			Password:          getEnv("IMAP_PASSWORD", ""),
			OAuthRefreshToken: getEnv("IMAP_OAUTH_REFRESH_TOKEN", ""),
			OAuthClientID:     googleClientID,
			OAuthClientSecret: googleClientSecret,
			SentFolder:        getEnv("IMAP_SENT_FOLDER", "[Gmail]/Sent Mail"),
			AuthTimeout:       getDuration("IMAP_AUTH_TIMEOUT", 15*time.Second),
		},

		FeedbackReplyWindowDays: getInt("FEEDBACK_REPLY_WINDOW_DAYS", 30),
		FeedbackSyncCron:        getEnv("FEEDBACK_SYNC_CRON", ""),
		FeedbackSubmitRate:      getDuration("FEEDBACK_SUBMIT_RATE", time.Minute),
		FeedbackSubmitBurst:     getInt("FEEDBACK_SUBMIT_BURST", 5),

		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(strings.ToLower(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}
