package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pizza-api/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs session tokens, read from env with a dev fallback.
var JWTSecret = []byte(GetEnv("JWT_SECRET", "pizza_api_dev_secret"))

// Config carries all externally supplied settings. No production secret
// is hard-coded; everything comes from the environment (.env in dev).
type Config struct {
	Port           string
	DBPath         string
	ClientURL      string
	AllowedOrigins []string
	TokenLifetime  time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	AppName      string

	RedisAddr     string
	RedisPassword string
	RateLimitMax  int
	RateLimitWin  time.Duration

	UploadDir string
}

func Load() Config {
	return Config{
		Port:           GetEnv("PORT", "8080"),
		DBPath:         GetEnv("DB_PATH", "pizza.db"),
		ClientURL:      GetEnv("CLIENT_URL", "http://localhost:3000"),
		AllowedOrigins: splitList(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		TokenLifetime:  GetDuration("JWT_EXPIRE", 24*time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     GetInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    GetEnv("EMAIL_FROM", "no-reply@pizza.local"),
		AppName:      GetEnv("APP_NAME", "Komorebi Pizza"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RateLimitMax:  GetInt("RATE_LIMIT_MAX", 100),
		RateLimitWin:  GetDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		UploadDir: GetEnv("UPLOAD_DIR", "uploads"),
	}
}

// GetEnv returns the value of key or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// InitDB opens the SQLite store and migrates all models.
func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		zap.S().Fatalw("failed to connect to database", "path", path, "error", err)
	}

	if err := Migrate(DB); err != nil {
		zap.S().Fatalw("failed to migrate database", "error", err)
	}

	zap.S().Infow("database connected and migrated", "path", path)
}

// Migrate runs the schema migration for every model. Exposed separately
// so tests can point an in-memory database at the same schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Promotion{},
		&models.Message{},
		&models.ContentBlock{},
		&models.NewsletterSubscription{},
	)
}
