package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           int
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	SentimentURL   string
	APIToken       string
	LogLevel       string
	CrisisKeywords []string
	Confidence     float64
	ExcludePending bool
}

func Load() Config {
	return Config{
		Port:           envInt("MINDLOG_PORT", 8760),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		SentimentURL:   envStr("SENTIMENT_URL", "http://sentiment:8200"),
		APIToken:       envStr("MINDLOG_API_TOKEN", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		CrisisKeywords: envList("CRISIS_KEYWORDS", nil),
		Confidence:     envFloat("CONFIDENCE_LEVEL", 0.95),
		ExcludePending: envBool("EXCLUDE_PENDING_CONVERSIONS", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList parses a comma-separated env var, trimming whitespace and
// dropping empty entries. Returns fallback when the var is unset.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
