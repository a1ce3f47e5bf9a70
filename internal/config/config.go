package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the process-level knobs read from the environment.
// Everything describing the watched server and the message lives in Settings.
type Config struct {
	SettingsFile    string        // path to the yaml settings file (ex: /app/config.yaml)
	Token           string        // optional, overrides discord.token from the settings file
	ListenAddr      string        // ex: ":8080", empty => ops HTTP server disabled
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel      string // "debug" | "info" | "warn" | "error"
	PrettyLog     bool   // true => zap dev (color), false => zap prod (JSON)
	LogFile       string // optional rotating JSON log file
	LogMaxSizeMB  int    // rotate after this many megabytes
	LogMaxBackups int    // rotated files to keep
	LogMaxAgeDays int    // days to keep rotated files
	LogCompress   bool   // gzip rotated files

	TickInterval time.Duration // interval between two status checks (default: 60s)
	TickTimeout  time.Duration // deadline for one whole tick (query + publish)
	QueryTimeout time.Duration // deadline for the server query alone

	AllowedCIDRS    []string      // optional, restrict /refresh, /readyz and /metrics to specific IPs
	TrustProxy      bool          // true => trust X-Forwarded-For headers
	RefreshCooldown time.Duration // per-IP refill interval on POST /refresh, 0 disables
	RefreshBurst    int           // per-IP burst on POST /refresh
}

func Load() *Config {
	cfg := &Config{
		SettingsFile:    getenv("NSTATUS_CONFIG_FILE", "config.yaml"),
		Token:           getenv("NSTATUS_TOKEN", ""),
		ListenAddr:      os.Getenv("NSTATUS_LISTEN_ADDR"),
		ShutdownTimeout: mustDuration("NSTATUS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:      getenv("NSTATUS_LOG_LEVEL", "info"),
		PrettyLog:     mustBool("NSTATUS_PRETTY_LOG", true),
		LogFile:       getenv("NSTATUS_LOG_FILE", ""),
		LogMaxSizeMB:  getenvInt("NSTATUS_LOG_MAX_SIZE_MB", 64),
		LogMaxBackups: getenvInt("NSTATUS_LOG_MAX_BACKUPS", 8),
		LogMaxAgeDays: getenvInt("NSTATUS_LOG_MAX_AGE_DAYS", 30),
		LogCompress:   mustBool("NSTATUS_LOG_COMPRESS", true),

		// Ticks
		TickInterval: mustDuration("NSTATUS_TICK_INTERVAL", 60*time.Second),
		TickTimeout:  mustDuration("NSTATUS_TICK_TIMEOUT", 30*time.Second),
		QueryTimeout: mustDuration("NSTATUS_QUERY_TIMEOUT", 5*time.Second),

		// Access restrictions
		AllowedCIDRS:    parseAllowedIPs(getenv("NSTATUS_ALLOWED_CIDRS", "")),
		TrustProxy:      mustBool("NSTATUS_TRUST_PROXY", false),
		RefreshCooldown: mustDuration("NSTATUS_REFRESH_COOLDOWN", 10*time.Second),
		RefreshBurst:    getenvInt("NSTATUS_REFRESH_BURST", 3),
	}

	if cfg.TickInterval <= 0 {
		panic("❌ FATAL: NSTATUS_TICK_INTERVAL must be > 0")
	}
	if cfg.TickTimeout <= 0 || cfg.TickTimeout > cfg.TickInterval {
		cfg.TickTimeout = cfg.TickInterval
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.Token != "" {
			cfgCopy.Token = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
