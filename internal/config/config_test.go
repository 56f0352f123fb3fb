package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "datasets/ab_testing.xlsx", cfg.Dataset.Path)
	assert.Equal(t, "Control Group", cfg.Dataset.ControlSheet)
	assert.Equal(t, "Test Group", cfg.Dataset.TestSheet)
	assert.Equal(t, "Purchase", cfg.Analysis.Metric)
	assert.InDelta(t, 0.05, cfg.Analysis.Alpha, 1e-12)
	assert.Equal(t, "ttest", cfg.Analysis.Test)
	assert.Equal(t, "median", cfg.Analysis.LeveneCenter)
	assert.Equal(t, 5, cfg.Analysis.HeadRows)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
dataset:
  path: data/campaign.xlsx
analysis:
  metric: Earning
  alpha: 0.01
  test: welch
log:
  level: debug
  format: json
report:
  format: markdown
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/campaign.xlsx", cfg.Dataset.Path)
	assert.Equal(t, "Earning", cfg.Analysis.Metric)
	assert.InDelta(t, 0.01, cfg.Analysis.Alpha, 1e-12)
	assert.Equal(t, "welch", cfg.Analysis.Test)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "markdown", cfg.Report.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "Control Group", cfg.Dataset.ControlSheet)
	assert.Equal(t, "median", cfg.Analysis.LeveneCenter)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
analysis:
  test: welch
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ABTEST_ANALYSIS_TEST", "mannwhitney")
	t.Setenv("ABTEST_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "mannwhitney", cfg.Analysis.Test)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ABTEST_DATASET_PATH", "/data/ab.xlsx")
	t.Setenv("ABTEST_ANALYSIS_ALPHA", "0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/ab.xlsx", cfg.Dataset.Path)
	assert.InDelta(t, 0.1, cfg.Analysis.Alpha, 1e-12)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("analysis: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Dataset.Path = "datasets/ab_testing.xlsx"
	cfg.Dataset.ControlSheet = "Control Group"
	cfg.Dataset.TestSheet = "Test Group"
	cfg.Analysis.Metric = "Purchase"
	cfg.Analysis.Alpha = 0.05
	cfg.Analysis.Test = "ttest"
	cfg.Analysis.LeveneCenter = "median"
	cfg.Analysis.HeadRows = 5
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty path", func(c *Config) { c.Dataset.Path = "  " }, "dataset.path is required"},
		{"no sheet", func(c *Config) { c.Dataset.TestSheet = "" }, "sheet names are required"},
		{"same sheet", func(c *Config) { c.Dataset.TestSheet = c.Dataset.ControlSheet }, "are both"},
		{"no metric", func(c *Config) { c.Analysis.Metric = "" }, "analysis.metric is required"},
		{"alpha zero", func(c *Config) { c.Analysis.Alpha = 0 }, "analysis.alpha must be in (0, 1)"},
		{"alpha one", func(c *Config) { c.Analysis.Alpha = 1 }, "analysis.alpha must be in (0, 1)"},
		{"head rows", func(c *Config) { c.Analysis.HeadRows = 0 }, "head_rows must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
