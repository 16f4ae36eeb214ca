package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Session  SessionConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	BotLogFilePath     string
	CorsAllowedOrigins string
	RedisURL           string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type TelegramConfig struct {
	BotToken   string
	APIBaseURL string
	WebhookURL string
}

type StorageConfig struct {
	Provider    string // "local" or "supabase"
	LocalDir    string
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

type SessionConfig struct {
	TTL            time.Duration
	AcquireTimeout time.Duration
}

type APIKeys struct {
	Geoapify             string
	ReportFinalizedTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			BotLogFilePath:     getEnv("BOT_LOG_FILE_PATH", "logs/bot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("BOT_TOKEN", ""),
			APIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
			WebhookURL: getEnv("TELEGRAM_WEBHOOK_URL", ""),
		},
		Storage: StorageConfig{
			Provider:    getEnv("STORAGE_PROVIDER", "local"),
			LocalDir:    getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "evidence"),
		},
		Session: SessionConfig{
			TTL:            getEnvAsDuration("SESSION_TTL", time.Hour),
			AcquireTimeout: getEnvAsDuration("SESSION_ACQUIRE_TIMEOUT", 15*time.Second),
		},
		Keys: APIKeys{
			Geoapify:             getEnv("GEOAPIFY_API_KEY", ""),
			ReportFinalizedTopic: getEnv("REPORT_FINALIZED_TOPIC_NAME", "REPORT_FINALIZED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
