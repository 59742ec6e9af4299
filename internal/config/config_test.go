package config

import (
	"testing"
	"time"

	apperrors "careerpath/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATASET_FILE", "careers.xlsx")
	t.Setenv("FEATURE_COUNT", "")
	t.Setenv("TEST_RATIO", "")
	t.Setenv("RANDOM_SEED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "careers.xlsx", cfg.Data.File)
	assert.Equal(t, DefaultSheet, cfg.Data.Sheet)
	assert.Equal(t, DefaultTargetColumn, cfg.Data.TargetColumn)
	assert.Equal(t, DefaultFeatureCount, cfg.Model.FeatureCount)
	assert.InDelta(t, DefaultTestRatio, cfg.Model.TestRatio, 1e-9)
	assert.Equal(t, int64(DefaultSeed), cfg.Model.Seed)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, DefaultCriterion, cfg.Model.Criterion)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATASET_FILE", "data.csv")
	t.Setenv("FEATURE_COUNT", "12")
	t.Setenv("TEST_RATIO", "0.25")
	t.Setenv("RANDOM_SEED", "7")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("ADMIN_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Model.FeatureCount)
	assert.InDelta(t, 0.25, cfg.Model.TestRatio, 1e-9)
	assert.Equal(t, int64(7), cfg.Model.Seed)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Admin.Enabled)
}

func TestLoad_MissingDataset(t *testing.T) {
	t.Setenv("DATASET_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestValidate_Ranges(t *testing.T) {
	base := func() *Config {
		return &Config{
			Data:    DataConfig{File: "x.xlsx", TargetColumn: DefaultTargetColumn},
			Model:   ModelConfig{FeatureCount: 30, TestRatio: 0.2},
			Session: SessionConfig{TTL: time.Hour},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero features", func(c *Config) { c.Model.FeatureCount = 0 }},
		{"ratio zero", func(c *Config) { c.Model.TestRatio = 0 }},
		{"ratio one", func(c *Config) { c.Model.TestRatio = 1 }},
		{"negative depth", func(c *Config) { c.Model.MaxDepth = -1 }},
		{"empty target", func(c *Config) { c.Data.TargetColumn = "" }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"unknown criterion", func(c *Config) { c.Model.Criterion = "mse" }},
	}

	require.NoError(t, Validate(base()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
