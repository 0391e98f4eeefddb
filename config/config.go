package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	AppHost     string
	BaseURL     string
	Environment string // "development", "staging", "production"

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Security/JWT
	PublicKeyPath  string
	PrivateKeyPath string
	TokenTTL       time.Duration

	// Realtime
	OnlineWindow     time.Duration // liveness window for the online-admins snapshot
	SendBufferSize   int           // per-connection outbound queue
	AllowedOrigins   []string
	BroadcastPerMin  int // rate limit on the REST publish endpoint
	ArchiveBroadcast bool

	// SMTP / escalation
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	OnCallEmail string
}

func LoadConfig() Config {
	_ = godotenv.Load()

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "runners_awareness")
	dbURL := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost,
		dbUser,
		dbPassword,
		dbName,
		dbPort,
	)

	return Config{
		Port:        getEnv("PORT", "8080"),
		AppHost:     getEnv("APP_HOST", "localhost"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", dbURL),
		DBHost:      dbHost,
		DBPort:      dbPort,
		DBUser:      dbUser,
		DBPassword:  dbPassword,
		DBName:      dbName,

		PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public.pem"),
		PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private.pem"),
		TokenTTL:       mustParseDuration(getEnv("TOKEN_TTL", "12h")),

		OnlineWindow:     mustParseDuration(getEnv("ONLINE_WINDOW", "5m")),
		SendBufferSize:   mustParseInt(getEnv("SEND_BUFFER_SIZE", "16")),
		AllowedOrigins:   []string{getEnv("FRONTEND_BASE_URL", "http://localhost:5173")},
		BroadcastPerMin:  mustParseInt(getEnv("BROADCAST_PER_MINUTE", "60")),
		ArchiveBroadcast: getEnv("ARCHIVE_BROADCASTS", "true") == "true",

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    mustParseInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		OnCallEmail: getEnv("ONCALL_EMAIL", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustParseDuration(str string) time.Duration {
	d, err := time.ParseDuration(str)
	if err != nil {
		log.Printf("Invalid duration '%s', defaulting to 1h", str)
		return time.Hour
	}
	return d
}

func mustParseInt(str string) int {
	i, err := strconv.Atoi(str)
	if err != nil {
		log.Printf("Invalid integer '%s', defaulting to 0", str)
		return 0
	}
	return i
}
