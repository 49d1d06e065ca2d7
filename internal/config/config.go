package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Content config locations
	ConfigDir       string // organizations.json, events.json
	FeedsConfigPath string

	// Persisted engine state
	CitationsDir  string // citations_<date>_<theme>.json episode records
	StateFilePath string // rotation state JSON
	OutputDir     string // per-run continuity reports

	// Deduplication settings
	HistoryWindowDays   int
	SimilarityThreshold float64

	// Rotation settings
	MinDaysBetweenRepeats int
	EventLookaheadDays    int

	// Candidate fetch settings
	MaxCandidates  int
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Resolver settings
	ResolveMaxPerRun int
	ResolveCacheTTL  time.Duration

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ConfigDir:             "config",
		FeedsConfigPath:       "config/feeds.yaml",
		CitationsDir:          "podcasts",
		StateFilePath:         "podcasts/psa_rotation_state.json",
		OutputDir:             "podcasts",
		HistoryWindowDays:     7,
		SimilarityThreshold:   0.70,
		MinDaysBetweenRepeats: 7,
		EventLookaheadDays:    7,
		MaxCandidates:         40,
		RequestTimeout:        30 * time.Second,
		RetryAttempts:         3,
		RetryDelay:            5 * time.Second,
		ResolveMaxPerRun:      10,
		ResolveCacheTTL:       24 * time.Hour,
	}

	// Load from environment
	if v := os.Getenv("CONTINUITY_CONFIG_DIR"); v != "" {
		cfg.ConfigDir = v
	}
	if v := os.Getenv("CONTINUITY_FEEDS_CONFIG"); v != "" {
		cfg.FeedsConfigPath = v
	}
	if v := os.Getenv("CONTINUITY_CITATIONS_DIR"); v != "" {
		cfg.CitationsDir = v
	}
	if v := os.Getenv("CONTINUITY_STATE_FILE"); v != "" {
		cfg.StateFilePath = v
	}
	if v := os.Getenv("CONTINUITY_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	var err error
	if cfg.HistoryWindowDays, err = getEnvInt("CONTINUITY_HISTORY_WINDOW_DAYS", cfg.HistoryWindowDays); err != nil {
		return nil, err
	}
	if cfg.MinDaysBetweenRepeats, err = getEnvInt("CONTINUITY_MIN_DAYS_BETWEEN_REPEATS", cfg.MinDaysBetweenRepeats); err != nil {
		return nil, err
	}
	if cfg.EventLookaheadDays, err = getEnvInt("CONTINUITY_EVENT_LOOKAHEAD_DAYS", cfg.EventLookaheadDays); err != nil {
		return nil, err
	}
	if cfg.MaxCandidates, err = getEnvInt("CONTINUITY_MAX_CANDIDATES", cfg.MaxCandidates); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts, err = getEnvInt("CONTINUITY_RETRY_ATTEMPTS", cfg.RetryAttempts); err != nil {
		return nil, err
	}
	if cfg.ResolveMaxPerRun, err = getEnvInt("CONTINUITY_RESOLVE_MAX_PER_RUN", cfg.ResolveMaxPerRun); err != nil {
		return nil, err
	}
	if cfg.SimilarityThreshold, err = getEnvFloat("CONTINUITY_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold); err != nil {
		return nil, err
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in [0,1], got %v", cfg.SimilarityThreshold)
	}

	cfg.Debug = os.Getenv("DEBUG") == "true"

	return cfg, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
