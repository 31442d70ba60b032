package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	DocrankAPIKey string

	// Scoring weights (must sum to 1.0)
	KeywordWeight float64
	ContextWeight float64
	QualityWeight float64

	// Content quality thresholds
	QualityMinWords   int
	QualityIdealWords int
	QualityMaxWords   int

	// Subsection segmentation and tiers
	SubsectionTargetWords int
	TierHighMin           float64
	TierMediumMin         float64

	// Ranking
	TopSections    int
	TopSubsections int

	// Run budgets
	RunDeadline     time.Duration
	MemoryCeilingGB float64

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentScore int

	// Upload limits
	MaxUploadBytes int64

	// Section extraction
	MaxSectionsPerDoc int

	// Job state
	JobTTL time.Duration

	// Domain table
	DomainTablePath string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocrankAPIKey: os.Getenv("DOCRANK_API_KEY"),

		KeywordWeight: envFloat("KEYWORD_WEIGHT", 0.4),
		ContextWeight: envFloat("CONTEXT_WEIGHT", 0.4),
		QualityWeight: envFloat("QUALITY_WEIGHT", 0.2),

		QualityMinWords:   envInt("QUALITY_MIN_WORDS", 20),
		QualityIdealWords: envInt("QUALITY_IDEAL_WORDS", 200),
		QualityMaxWords:   envInt("QUALITY_MAX_WORDS", 1200),

		SubsectionTargetWords: envInt("SUBSECTION_TARGET_WORDS", 60),
		TierHighMin:           envFloat("TIER_HIGH_MIN", 0.6),
		TierMediumMin:         envFloat("TIER_MEDIUM_MIN", 0.3),

		TopSections:    envInt("TOP_SECTIONS", 5),
		TopSubsections: envInt("TOP_SUBSECTIONS", 10),

		RunDeadline:     envDuration("RUN_DEADLINE", 60*time.Second),
		MemoryCeilingGB: envFloat("MEMORY_CEILING_GB", 1.0),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentScore: envInt("MAX_CONCURRENT_SCORE", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxSectionsPerDoc: envInt("MAX_SECTIONS_PER_DOC", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DomainTablePath: os.Getenv("DOMAIN_TABLE_PATH"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.TopSections <= 0 {
		cfg.TopSections = 5
	}
	if cfg.TopSubsections <= 0 {
		cfg.TopSubsections = 10
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentScore <= 0 {
		cfg.MaxConcurrentScore = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxSectionsPerDoc <= 0 {
		cfg.MaxSectionsPerDoc = 50
	}
	if cfg.RunDeadline <= 0 {
		cfg.RunDeadline = 60 * time.Second
	}
	if cfg.MemoryCeilingGB <= 0 {
		cfg.MemoryCeilingGB = 1.0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DocrankAPIKey == "" {
		return fmt.Errorf("DOCRANK_API_KEY is required")
	}
	sum := c.KeywordWeight + c.ContextWeight + c.QualityWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", sum)
	}
	if c.QualityMinWords >= c.QualityIdealWords || c.QualityIdealWords >= c.QualityMaxWords {
		return fmt.Errorf("quality word thresholds must be strictly increasing")
	}
	if c.TierMediumMin >= c.TierHighMin {
		return fmt.Errorf("TIER_MEDIUM_MIN must be below TIER_HIGH_MIN")
	}
	return nil
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
