package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultSQLitePath = "task_manager.db"

type Config struct {
	ServerPort int
	Env        string

	// SecretKey signs bearer tokens. The server refuses to start
	// without it.
	SecretKey string

	// TokenTTLMinutes bounds the lifetime of issued tokens.
	TokenTTLMinutes int

	// DatabaseURL is either a postgres:// URL or a sqlite file path.
	DatabaseURL string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:      getEnvInt("SERVER_PORT", 8080),
		Env:             getEnv("ENV", ""),
		SecretKey:       strings.TrimSpace(os.Getenv("SECRET_KEY")),
		TokenTTLMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		DatabaseURL:     getEnv("DATABASE_URL", defaultSQLitePath),
	}
}

// IsPostgres reports whether DatabaseURL points at a postgres server
// rather than a local sqlite file.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}
