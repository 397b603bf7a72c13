package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	RedisHost         string
	RedisPort         string
	SessionSecret     string
	GinMode           string
	IdentityVerifyURL string
	TakeTaskAtomic    bool
}

func Load() *Config {
	// Best-effort .env load; real env vars always win.
	_ = godotenv.Load()

	return &Config{
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "timebank"),
		DBPassword:        getEnv("DB_PASSWORD", "timebank"),
		DBName:            getEnv("DB_NAME", "timebank"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		SessionSecret:     getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		IdentityVerifyURL: getEnv("IDENTITY_VERIFY_URL", ""),
		TakeTaskAtomic:    getEnv("TAKE_TASK_ATOMIC", "true") != "false",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
