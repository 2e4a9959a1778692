package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	DevelopmentEnvironment = "development"
	ProductionEnvironment  = "production"
)

type Config struct {
	Port        string
	DatabaseURL string
	Storage     string
	LogLevel    string
	Stage       string
	AutoMigrate bool
}

// Load reads configuration from the environment, after merging an optional
// .env file. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Stage:       strings.ToLower(getEnv("APP_ENV", DevelopmentEnvironment)),
		AutoMigrate: getBool("AUTO_MIGRATE", true),
	}

	switch cfg.Storage {
	case StoragePostgres:
		if len(strings.TrimSpace(cfg.DatabaseURL)) == 0 {
			return nil, fmt.Errorf("Missing an env variable `DATABASE_URL`")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE %q, want %q or %q", cfg.Storage, StoragePostgres, StorageMemory)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultVal)))
	if err != nil {
		return defaultVal
	}
	return v
}
