package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default addresses used when no receiver/sender is configured. The sender
// must be verified with the email provider.
const (
	DefaultReceiver = "careers@seventattoolv.com"
	DefaultSender   = "careers@seventattoolv.com"
	DefaultFromName = "Seven Tattoo"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// CORS
	CORSOrigin string

	// Email provider selection: "sendgrid" (default) or "ses"
	EmailProvider  string
	SendGridAPIKey string

	// Notification addressing
	BookingReceiver string
	ToEmail         string
	SendFrom        string
	FromEmail       string
	FromName        string

	// Persistence (optional; empty DatabaseURL disables the CRM write)
	DatabaseURL string

	// AWS (SES sender, Lambda deployments)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Outbound call bounds
	SendTimeout  time.Duration
	StoreTimeout time.Duration

	// Abuse throttling on the public intake endpoint
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		BookingReceiver: getEnv("BOOKING_RECEIVER", ""),
		ToEmail:         getEnv("TO_EMAIL", ""),
		SendFrom:        getEnv("SEND_FROM", ""),
		FromEmail:       getEnv("FROM_EMAIL", ""),
		FromName:        getEnv("FROM_NAME", DefaultFromName),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		SendTimeout:  getEnvAsDuration("SEND_TIMEOUT", 5*time.Second),
		StoreTimeout: getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 1),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
	}
}

// Receiver resolves the notification recipient, highest priority first.
// A payload-level override is resolved by the caller before falling back here.
func (c *Config) Receiver() string {
	if c.BookingReceiver != "" {
		return c.BookingReceiver
	}
	if c.ToEmail != "" {
		return c.ToEmail
	}
	return DefaultReceiver
}

// Sender resolves the from address.
func (c *Config) Sender() string {
	if c.SendFrom != "" {
		return c.SendFrom
	}
	if c.FromEmail != "" {
		return c.FromEmail
	}
	return DefaultSender
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
