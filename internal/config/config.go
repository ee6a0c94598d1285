package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Progress backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultAdvanceDelay is how long a correct answer stays on screen before
// the next question is shown.
const DefaultAdvanceDelay = 1500 * time.Millisecond

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default XDG path.
	DBPath string
	// BankLocation is a file path or http(s) URL of the question bank.
	// Empty means the bank embedded in the binary.
	BankLocation string
	// ProgressBackend selects where progress snapshots live: sqlite, redis or memory.
	ProgressBackend string
	RedisURL        string
	AdvanceDelay    time.Duration
	LogLevel        string
	LogFormat       string
	// LogFile is where logs are written. The TUI owns stdout.
	LogFile string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing. Callers apply
// flag overrides and then call Validate.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	delay, err := getEnvDuration("QUIZ_ADVANCE_DELAY", DefaultAdvanceDelay)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:          os.Getenv("QUIZ_DB"),
		BankLocation:    os.Getenv("QUIZ_BANK"),
		ProgressBackend: strings.ToLower(getEnv("QUIZ_PROGRESS_BACKEND", BackendSQLite)),
		RedisURL:        getEnv("QUIZ_REDIS_URL", "redis://localhost:6379/0"),
		AdvanceDelay:    delay,
		LogLevel:        getEnv("QUIZ_LOG_LEVEL", "info"),
		LogFormat:       getEnv("QUIZ_LOG_FORMAT", "json"),
		LogFile:         os.Getenv("QUIZ_LOG_FILE"),
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.ProgressBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid progress backend %q: must be sqlite, redis or memory", c.ProgressBackend)
	}
	if c.AdvanceDelay <= 0 {
		return fmt.Errorf("advance delay must be positive, got %s", c.AdvanceDelay)
	}
	return nil
}

// DefaultLogPath resolves the log file path:
// 1. $XDG_STATE_HOME/quizmaster/quizmaster.log
// 2. ~/.local/state/quizmaster/quizmaster.log
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "quizmaster", "quizmaster.log"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
