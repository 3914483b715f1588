package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/llm-exam-tester/backend/internal/analytics"
	"github.com/llm-exam-tester/backend/internal/llm"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Inference service
	LLMURL         string  // e.g. "http://localhost:11434"
	LLMAPI         llm.API // "ollama" or "openai"
	LLMTimeout     time.Duration
	LLMTemperature float64

	// Runs
	DBPath         string
	RunWorkers     int
	RunMaxAttempts int

	// Leaderboard and difficulty constants, from SCORING_FILE then SCORE_* env.
	Scoring analytics.Scoring
}

// Load reads the configuration from the environment (and .env when present)
// and exits the process if it is invalid.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerAddress: getenvDefault("SERVER_ADDRESS", ":8080"),
		LLMURL:        getenvDefault("LLM_URL", "http://localhost:11434"),
		LLMAPI:        llm.API(getenvDefault("LLM_API", string(llm.APIOllama))),
		DBPath:        getenvDefault("DB_PATH", "results.db"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.LLMTemperature, err = getFloat("LLM_TEMPERATURE", 0); err != nil {
		return nil, err
	}
	if cfg.RunWorkers, err = getInt("RUN_WORKERS", 2); err != nil {
		return nil, err
	}
	if cfg.RunMaxAttempts, err = getInt("RUN_MAX_ATTEMPTS", 1); err != nil {
		return nil, err
	}

	switch cfg.LLMAPI {
	case llm.APIOllama, llm.APIOpenAI:
	default:
		return nil, fmt.Errorf("LLM_API=%q must be %q or %q", cfg.LLMAPI, llm.APIOllama, llm.APIOpenAI)
	}

	if cfg.Scoring, err = LoadScoring(os.Getenv("SCORING_FILE")); err != nil {
		return nil, err
	}
	if err := scoringFromEnv(&cfg.Scoring); err != nil {
		return nil, err
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadScoring reads scoring constants from a YAML file. Keys missing from
// the file keep their defaults; an empty path yields the defaults.
func LoadScoring(path string) (analytics.Scoring, error) {
	s := analytics.DefaultScoring()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read scoring file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse scoring file %s: %w", path, err)
	}
	return s, nil
}

func scoringFromEnv(s *analytics.Scoring) error {
	overrides := []struct {
		key string
		dst *float64
	}{
		{"SCORE_ACCURACY_WEIGHT", &s.AccuracyWeight},
		{"SCORE_SPEED_WEIGHT", &s.SpeedWeight},
		{"SCORE_SPEED_PENALTY", &s.SpeedPenaltyPerSecond},
		{"SCORE_HARD_BELOW", &s.HardBelow},
		{"SCORE_EASY_FROM", &s.EasyFrom},
	}
	for _, o := range overrides {
		v, err := getFloat(o.key, *o.dst)
		if err != nil {
			return err
		}
		*o.dst = v
	}
	return nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer: %w", k, v, err)
	}
	return n, nil
}

func getFloat(k string, fallback float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number: %w", k, v, err)
	}
	return f, nil
}
