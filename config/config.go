package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	CertificateApiURL string // Certificate renderer service base URL
	CertificateApiKey string // Certificate renderer API key

	PaymentExpiryDays int // Pending payments older than this are failed by the scheduler
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBPort:     getEnv("DB_PORT", "5432"),

		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),

		CertificateApiURL: getEnv("CERTIFICATE_API_URL", "https://certs.learnhub.io/v1/"),
		CertificateApiKey: getEnv("CERTIFICATE_API_KEY", ""),

		PaymentExpiryDays: getEnvInt("PAYMENT_EXPIRY_DAYS", 7),
	}

	if AppConfig.EmailSender == "" {
		log.Println("Warning: EMAIL_SENDER not set. Notification emails are disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
