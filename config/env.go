package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from its environment.
type Config struct {
	Port           string
	PostgresURL    string
	AllowedOrigins []string
	GinMode        string
	GraceSeconds   int
	RoundSeconds   int
	Debug          bool
}

// Load reads the environment, after an optional .env file. Missing values
// fall back to defaults; required values are validated by the caller.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:           envOr("PORT", "3000"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		GinMode:        os.Getenv("GIN_MODE"),
		GraceSeconds:   envIntOr("GRACE_SECONDS", 120),
		RoundSeconds:   envIntOr("ROUND_SECONDS", 300),
		Debug:          os.Getenv("DEBUG") == "true",
	}
}

func envOr(key, fallback string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
