package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is loaded once at startup and
// required keys fail fast instead of surfacing later as broken requests.
type Config struct {
	DatabaseURL string
	Port        string
	AppBaseURL  string

	JWTSecret string

	StripeSecretKey            string
	StripeWebhookSecret        string
	StripeConnectWebhookSecret string
	StripeProviderPriceID      string

	SMTPHost  string
	SMTPPort  string
	EmailUser string
	EmailPass string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RedisAddr string
}

var Cfg *Config

// Load reads the environment into Cfg. Missing required keys abort the process.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg := &Config{
		DatabaseURL:                os.Getenv("DATABASE_URL"),
		Port:                       getEnv("PORT", "8000"),
		AppBaseURL:                 getEnv("APP_BASE_URL", "http://localhost:8000"),
		JWTSecret:                  os.Getenv("JWT_SECRET"),
		StripeSecretKey:            os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:        os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeConnectWebhookSecret: os.Getenv("STRIPE_CONNECT_WEBHOOK_SECRET"),
		StripeProviderPriceID:      os.Getenv("STRIPE_PROVIDER_PRICE_ID"),
		SMTPHost:                   os.Getenv("SMTP_HOST"),
		SMTPPort:                   getEnv("SMTP_PORT", "587"),
		EmailUser:                  os.Getenv("EMAIL_USER"),
		EmailPass:                  os.Getenv("EMAIL_PASS"),
		TwilioAccountSID:           os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:            os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom:         os.Getenv("TWILIO_WHATSAPP_FROM"),
		CloudinaryCloudName:        os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:           os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:        os.Getenv("CLOUDINARY_API_SECRET"),
		RedisAddr:                  getEnv("REDIS_ADDR", "localhost:6379"),
	}

	required := map[string]string{
		"DATABASE_URL":                  cfg.DatabaseURL,
		"JWT_SECRET":                    cfg.JWTSecret,
		"STRIPE_SECRET_KEY":             cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET":         cfg.StripeWebhookSecret,
		"STRIPE_CONNECT_WEBHOOK_SECRET": cfg.StripeConnectWebhookSecret,
		"STRIPE_PROVIDER_PRICE_ID":      cfg.StripeProviderPriceID,
	}
	for key, val := range required {
		if val == "" {
			log.Fatalf("%s is not set", key)
		}
	}

	Cfg = cfg
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
