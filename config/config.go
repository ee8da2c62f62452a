package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	APP_URL     string
	CORS_ORIGIN string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	PAYFAST_MERCHANT_ID  string
	PAYFAST_MERCHANT_KEY string
	PAYFAST_PASSPHRASE   string
	PAYFAST_HOST         string
	PAYFAST_VALIDATE_ITN bool

	YOCO_SECRET_KEY     string
	YOCO_WEBHOOK_SECRET string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	APP_URL = getEnv("APP_URL", "http://localhost:5173")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	PAYFAST_MERCHANT_ID = getEnv("PAYFAST_MERCHANT_ID", "")
	PAYFAST_MERCHANT_KEY = getEnv("PAYFAST_MERCHANT_KEY", "")
	PAYFAST_PASSPHRASE = getEnv("PAYFAST_PASSPHRASE", "")
	// sandbox.payfast.co.za for testing, www.payfast.co.za for live
	PAYFAST_HOST = getEnv("PAYFAST_HOST", "sandbox.payfast.co.za")
	PAYFAST_VALIDATE_ITN = getEnv("PAYFAST_VALIDATE_ITN", "true") == "true"

	YOCO_SECRET_KEY = getEnv("YOCO_SECRET_KEY", "")
	YOCO_WEBHOOK_SECRET = getEnv("YOCO_WEBHOOK_SECRET", "")
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
