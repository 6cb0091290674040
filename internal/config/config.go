package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/srs"
)

const (
	MinDailyQuota = 1
	MaxDailyQuota = 500
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	Timezone          string
	DailyQuota        int
	Intervals         []int
	StreakToLevelUp   int
	MaxLevel          int
	RolloverAt        string
	ImportWorkerCount int
	ImportQueueSize   int
	UploadDir         string
	CardGenAPIKey     string
	CardGenBaseURL    string
	CardGenModel      string
	CardGenTimeout    time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:wordflash.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		Timezone:          envOr("TIMEZONE", calendar.DefaultTimezone),
		DailyQuota:        envIntOr("DAILY_QUOTA", 20),
		Intervals:         envIntsOr("SRS_INTERVALS", srs.Intervals),
		StreakToLevelUp:   envIntOr("SRS_STREAK_TO_LEVEL_UP", srs.StreakToLevelUp),
		MaxLevel:          envIntOr("SRS_MAX_LEVEL", srs.MaxLevel),
		RolloverAt:        envOr("ROLLOVER_AT", "00:05"),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 16),
		UploadDir:         envOr("UPLOAD_DIR", os.TempDir()),
		CardGenAPIKey:     os.Getenv("CARDGEN_API_KEY"),
		CardGenBaseURL:    envOr("CARDGEN_BASE_URL", "https://api.openai.com/v1"),
		CardGenModel:      envOr("CARDGEN_MODEL", "gpt-4o-mini"),
		CardGenTimeout:    envDurationOr("CARDGEN_TIMEOUT", 30*time.Second),
	}
}

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known IANA zone", c.Timezone))
	}
	if c.DailyQuota < MinDailyQuota || c.DailyQuota > MaxDailyQuota {
		errs = append(errs, fmt.Errorf("DAILY_QUOTA must be between %d and %d (got %d)", MinDailyQuota, MaxDailyQuota, c.DailyQuota))
	}
	if err := c.Policy().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("SRS policy (SRS_INTERVALS, SRS_STREAK_TO_LEVEL_UP, SRS_MAX_LEVEL): %w", err))
	}
	if !clockRe.MatchString(c.RolloverAt) {
		errs = append(errs, fmt.Errorf("ROLLOVER_AT must be HH:MM (got %q)", c.RolloverAt))
	}
	if c.ImportWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKER_COUNT must be positive (got %d)", c.ImportWorkerCount))
	}
	if c.ImportQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("IMPORT_QUEUE_SIZE must be positive (got %d)", c.ImportQueueSize))
	}
	if c.CardGenAPIKey != "" {
		if c.CardGenModel == "" {
			errs = append(errs, errors.New("CARDGEN_MODEL cannot be empty when CARDGEN_API_KEY is set"))
		}
		if c.CardGenTimeout <= 0 {
			errs = append(errs, fmt.Errorf("CARDGEN_TIMEOUT must be positive (got %s)", c.CardGenTimeout))
		}
	}

	return errors.Join(errs...)
}

// Policy returns the scheduling policy described by the configuration.
func (c Config) Policy() srs.Policy {
	return srs.Policy{
		Intervals:       append([]int(nil), c.Intervals...),
		StreakToLevelUp: c.StreakToLevelUp,
		MaxLevel:        c.MaxLevel,
	}
}

// CardGenEnabled reports whether AI card generation is configured.
func (c Config) CardGenEnabled() bool {
	return c.CardGenAPIKey != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envIntsOr(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return append([]int(nil), def...)
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Printf("invalid value for %s=%q, using default %v", key, v, def)
			return append([]int(nil), def...)
		}
		out = append(out, i)
	}
	return out
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
