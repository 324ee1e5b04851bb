// Package config loads the widget server's settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/project"
)

// Config is the server configuration.
type Config struct {
	Port            int
	Debug           bool
	LogLevel        string
	LogFormat       string
	AllowOrigins    []string
	CatalogPath     string
	UIStatePath     string
	ShutdownTimeout time.Duration
	CRM             crm.Config
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset or unparsable.
func Load() *Config {
	debug := getEnv("GIN_MODE", "release") == "debug"
	level := "info"
	if debug {
		level = "debug"
	}
	return &Config{
		Port:            getEnvAsInt("PORT", 8080),
		Debug:           debug,
		LogLevel:        getEnv("GLASSQUOTE_LOG_LEVEL", level),
		LogFormat:       getEnv("GLASSQUOTE_LOG_FORMAT", "json"),
		AllowOrigins:    splitList(getEnv("GLASSQUOTE_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		CatalogPath:     getEnv("GLASSQUOTE_CATALOG", project.DefaultCatalogPath()),
		UIStatePath:     getEnv("GLASSQUOTE_UI_STATE", project.DefaultUIStatePath()),
		ShutdownTimeout: time.Duration(getEnvAsInt("GLASSQUOTE_SHUTDOWN_SECONDS", 5)) * time.Second,
		CRM:             crm.ConfigFromEnv(),
	}
}

// getEnv returns the environment value for key, or defaultValue when unset.
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
