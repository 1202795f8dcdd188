package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	CORE_URL       string
	CORE_TOKEN_TTL time.Duration

	OIDC_ISSUER        string
	OIDC_CLIENT_ID     string
	OIDC_CLIENT_SECRET string
	OIDC_REDIRECT_URL  string

	UPLOAD_DIR string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "*")

	CORE_URL = mustEnv("CORE_URL")
	CORE_TOKEN_TTL = getDurationEnv("CORE_TOKEN_TTL_SECONDS", 300)

	OIDC_ISSUER = mustEnv("OIDC_ISSUER")
	OIDC_CLIENT_ID = mustEnv("OIDC_CLIENT_ID")
	OIDC_CLIENT_SECRET = mustEnv("OIDC_CLIENT_SECRET")
	OIDC_REDIRECT_URL = mustEnv("OIDC_REDIRECT_URL")

	UPLOAD_DIR = getEnv("UPLOAD_DIR", "./uploads")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallbackSeconds int) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return time.Duration(fallbackSeconds) * time.Second
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		log.Fatalf("Invalid %s: %q", key, v)
	}
	return time.Duration(seconds) * time.Second
}
