package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Port           string
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	ReconcileSpec  string
	LockTTL        time.Duration
	AllowedOrigins []string
	LogLevel       string

	JWTSecret      string
	JWTExpiryHours int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string
}

// Load reads .env when present and fills Settings with defaults for anything unset.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		GetLogger().Info("No .env file found")
	}

	lockTTL, err := strconv.Atoi(getEnv("LOCK_TTL_SECONDS", "30"))
	if err != nil || lockTTL < 1 {
		lockTTL = 30
	}
	expiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || expiry < 1 {
		expiry = 24
	}

	return Settings{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DB_URL"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		ReconcileSpec:  getEnv("RECONCILE_SPEC", "@every 5s"),
		LockTTL:        time.Duration(lockTTL) * time.Second,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiryHours: expiry,

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
