package config

import (
	"os"
	"strings"
)

type Config struct {
	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Security
	JWTSecret string

	// Server
	Port           string
	TrustedProxies []string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Seed account created when no snapshot exists
	SeedSuperAdminHouse string
	SeedSuperAdminPhone string
	SeedSuperAdminPIN   string

	// Default PIN applied when a reset omits a new one
	DefaultPIN string
}

func Load() *Config {
	cfg := &Config{
		DBUser:              getEnv("DB_USER", "root"),
		DBPassword:          getEnv("DB_PASSWORD", "password"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBName:              getEnv("DB_NAME", "societyhub"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-here"),
		Port:                getEnv("PORT", "8080"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		SeedSuperAdminHouse: getEnv("SEED_SUPER_ADMIN_HOUSE", "SA01"),
		SeedSuperAdminPhone: getEnv("SEED_SUPER_ADMIN_PHONE", "00000000000"),
		SeedSuperAdminPIN:   getEnv("SEED_SUPER_ADMIN_PIN", "123"),
		DefaultPIN:          getEnv("DEFAULT_PIN", "1234"),
	}

	// Handle trusted proxies
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		cfg.TrustedProxies = strings.Split(trustedProxies, ",")
		for i, proxy := range cfg.TrustedProxies {
			cfg.TrustedProxies[i] = strings.TrimSpace(proxy)
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
