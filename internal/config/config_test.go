package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("Port = %q, want 8090", cfg.Port)
	}
	if cfg.KeywordWeight != 0.4 || cfg.ContextWeight != 0.4 || cfg.QualityWeight != 0.2 {
		t.Errorf("weights = %v/%v/%v, want 0.4/0.4/0.2",
			cfg.KeywordWeight, cfg.ContextWeight, cfg.QualityWeight)
	}
	if cfg.TopSections != 5 || cfg.TopSubsections != 10 {
		t.Errorf("top-K = %d/%d, want 5/10", cfg.TopSections, cfg.TopSubsections)
	}
	if cfg.RunDeadline != 60*time.Second {
		t.Errorf("RunDeadline = %v, want 60s", cfg.RunDeadline)
	}
	if cfg.MemoryCeilingGB != 1.0 {
		t.Errorf("MemoryCeilingGB = %v, want 1.0", cfg.MemoryCeilingGB)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("MaxUploadBytes = %d, want 52428800", cfg.MaxUploadBytes)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("PDFFallbackPdftotext should default to true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DOCRANK_API_KEY", "secret")
	t.Setenv("KEYWORD_WEIGHT", "0.5")
	t.Setenv("CONTEXT_WEIGHT", "0.3")
	t.Setenv("TOP_SECTIONS", "7")
	t.Setenv("RUN_DEADLINE", "90s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DocrankAPIKey != "secret" {
		t.Errorf("DocrankAPIKey = %q", cfg.DocrankAPIKey)
	}
	if cfg.KeywordWeight != 0.5 || cfg.ContextWeight != 0.3 {
		t.Errorf("weights = %v/%v", cfg.KeywordWeight, cfg.ContextWeight)
	}
	if cfg.TopSections != 7 {
		t.Errorf("TopSections = %d", cfg.TopSections)
	}
	if cfg.RunDeadline != 90*time.Second {
		t.Errorf("RunDeadline = %v", cfg.RunDeadline)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected PDF fallback disabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOP_SECTIONS", "not-a-number")
	t.Setenv("RUN_DEADLINE", "soon")
	t.Setenv("TOP_SUBSECTIONS", "-3")

	cfg := Load()
	if cfg.TopSections != 5 {
		t.Errorf("TopSections = %d, want fallback 5", cfg.TopSections)
	}
	if cfg.RunDeadline != 60*time.Second {
		t.Errorf("RunDeadline = %v, want fallback 60s", cfg.RunDeadline)
	}
	if cfg.TopSubsections != 10 {
		t.Errorf("TopSubsections = %d, want clamped 10", cfg.TopSubsections)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		t.Setenv("DOCRANK_API_KEY", "k")
		return Load()
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.DocrankAPIKey = "" }},
		{"weights off", func(c *Config) { c.KeywordWeight = 0.9 }},
		{"quality thresholds not increasing", func(c *Config) { c.QualityIdealWords = c.QualityMinWords }},
		{"tier bounds inverted", func(c *Config) { c.TierMediumMin = 0.8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
