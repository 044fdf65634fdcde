package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/apitap/apitap/conformance"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Matching defaults applied when a tool call omits them.
	MatchMode string
	TieBreak  string

	// Result paging.
	CheckLimit int
	MaxLimit   int

	// Inline payload ceiling, in bytes.
	MaxInlineSize int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APITAP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MatchMode:     envMatchMode("APITAP_MATCH_MODE"),
		TieBreak:      envTieBreak("APITAP_TIE_BREAK"),
		CheckLimit:    envInt("APITAP_CHECK_LIMIT", 100),
		MaxLimit:      envInt("APITAP_MAX_LIMIT", 1000),
		MaxInlineSize: envInt("APITAP_MAX_INLINE_SIZE", 4<<20),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envMatchMode(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if _, err := conformance.ParseMatchMode(v); err != nil {
		slog.Warn("invalid match mode env var, ignoring", "key", key, "value", v)
		return ""
	}
	return v
}

func envTieBreak(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if _, err := conformance.ParseTieBreak(v); err != nil {
		slog.Warn("invalid tie break env var, ignoring", "key", key, "value", v)
		return ""
	}
	return v
}
