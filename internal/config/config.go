package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpatel9/examforge/internal/quiz"
)

type Config struct {
	Port string

	// Content store (GitHub contents API)
	GitHubAPIURL string
	GitHubToken  string
	RepoOwner    string
	RepoName     string
	Branch       string
	StoreDir     string

	// Auth
	ExamforgeAPIKey string

	// Parsing
	MaxQuestions int
	NoiseTokens  []string

	// Scoring
	WrongPenalty float64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		GitHubAPIURL: envOr("GITHUB_API_URL", "https://api.github.com"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		RepoOwner:    os.Getenv("REPO_OWNER"),
		RepoName:     os.Getenv("REPO_NAME"),
		Branch:       envOr("BRANCH", "main"),
		StoreDir:     envOr("STORE_DIR", "quizzes"),

		ExamforgeAPIKey: os.Getenv("EXAMFORGE_API_KEY"),

		MaxQuestions: envInt("MAX_QUESTIONS", quiz.DefaultMaxQuestions),
		NoiseTokens:  envList("NOISE_TOKENS", quiz.DefaultNoiseTokens),

		WrongPenalty: envFloat("WRONG_PENALTY", 0),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = quiz.DefaultMaxQuestions
	}
	if cfg.WrongPenalty < 0 {
		cfg.WrongPenalty = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}
	if c.RepoOwner == "" {
		return fmt.Errorf("REPO_OWNER is required")
	}
	if c.RepoName == "" {
		return fmt.Errorf("REPO_NAME is required")
	}
	if c.ExamforgeAPIKey == "" {
		return fmt.Errorf("EXAMFORGE_API_KEY is required")
	}
	return nil
}

// QuizConfig builds the parser configuration from the service config.
func (c Config) QuizConfig() quiz.Config {
	return quiz.Config{
		NoiseTokens:  c.NoiseTokens,
		MaxQuestions: c.MaxQuestions,
	}
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
