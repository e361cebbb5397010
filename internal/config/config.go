package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends selectable through STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	ServerPort         string
	JWTSecret          string
	JWTExpiryHours     int
	RefreshExpiryHours int
	FederatedSecret    string
	FederatedIssuer    string
	Storage            string
	CookieSecure       bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "kanny_user"),
		DBPassword:         getEnv("DB_PASSWORD", "kanny_pass"),
		DBName:             getEnv("DB_NAME", "kanny_db"),
		ServerPort:         getEnv("SERVER_PORT", "3001"),
		JWTSecret:          getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours:     getEnvInt("JWT_EXPIRY_HOURS", 1),
		RefreshExpiryHours: getEnvInt("REFRESH_EXPIRY_HOURS", 24*7),
		FederatedSecret:    getEnv("FEDERATED_SECRET", ""),
		FederatedIssuer:    getEnv("FEDERATED_ISSUER", ""),
		Storage:            getEnv("STORAGE", StoragePostgres),
		CookieSecure:       getEnvBool("COOKIE_SECURE", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Ignoring invalid %s=%q", key, value)
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️  Ignoring invalid %s=%q", key, value)
		return defaultVal
	}
	return b
}
