package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/calendar"
)

const (
	DefaultCatalogPath     = "data/wbs.json"
	DefaultCommitmentsPath = ".wbsplan/commitments.json"
	DefaultStartDate       = "2025-01-15"
	DefaultDeadline        = "2026-05-15"
	DefaultFallbackDays    = 30
)

// Config is the runtime configuration of wbsplan.
type Config struct {
	CatalogPath     string
	CommitmentsPath string
	DatabaseURL     string
	SessionID       string
	ProjectStart    time.Time
	Deadline        time.Time
	FallbackDays    int
	LogLevel        slog.Level
}

// Load reads an optional .env file, then the WBSPLAN_* environment
// variables. Real environment variables win over .env values.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	start, err := calendar.ParseDate(firstNonEmpty(os.Getenv("WBSPLAN_START_DATE"), DefaultStartDate))
	if err != nil {
		return nil, fmt.Errorf("WBSPLAN_START_DATE: %w", err)
	}
	deadline, err := calendar.ParseDate(firstNonEmpty(os.Getenv("WBSPLAN_DEADLINE"), DefaultDeadline))
	if err != nil {
		return nil, fmt.Errorf("WBSPLAN_DEADLINE: %w", err)
	}

	fallback := DefaultFallbackDays
	if raw := strings.TrimSpace(os.Getenv("WBSPLAN_FALLBACK_DAYS")); raw != "" {
		fallback, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("WBSPLAN_FALLBACK_DAYS: %w", err)
		}
		if fallback < 0 {
			return nil, fmt.Errorf("WBSPLAN_FALLBACK_DAYS must be >= 0, got %d", fallback)
		}
	}

	return &Config{
		CatalogPath:     firstNonEmpty(os.Getenv("WBSPLAN_CATALOG"), DefaultCatalogPath),
		CommitmentsPath: firstNonEmpty(os.Getenv("WBSPLAN_COMMITMENTS"), DefaultCommitmentsPath),
		DatabaseURL:     strings.TrimSpace(os.Getenv("WBSPLAN_PG_DSN")),
		SessionID:       strings.TrimSpace(os.Getenv("WBSPLAN_SESSION")),
		ProjectStart:    start,
		Deadline:        deadline,
		FallbackDays:    fallback,
		LogLevel:        parseLevel(os.Getenv("WBSPLAN_LOG_LEVEL")),
	}, nil
}

func parseLevel(raw string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
