package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the campaign workbook.
type DatasetConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	ControlSheet string `yaml:"control_sheet" mapstructure:"control_sheet"`
	TestSheet    string `yaml:"test_sheet" mapstructure:"test_sheet"`
}

// AnalysisConfig configures the hypothesis tests.
type AnalysisConfig struct {
	Metric       string  `yaml:"metric" mapstructure:"metric"`
	Alpha        float64 `yaml:"alpha" mapstructure:"alpha"`
	Test         string  `yaml:"test" mapstructure:"test"`
	LeveneCenter string  `yaml:"levene_center" mapstructure:"levene_center"`
	HeadRows     int     `yaml:"head_rows" mapstructure:"head_rows"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ABTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "datasets/ab_testing.xlsx")
	v.SetDefault("dataset.control_sheet", "Control Group")
	v.SetDefault("dataset.test_sheet", "Test Group")
	v.SetDefault("analysis.metric", "Purchase")
	v.SetDefault("analysis.alpha", 0.05)
	v.SetDefault("analysis.test", "ttest")
	v.SetDefault("analysis.levene_center", "median")
	v.SetDefault("analysis.head_rows", 5)
	v.SetDefault("report.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values that cannot be caught by unmarshalling.
// Names of tests, centers and formats are resolved by the packages that
// own them.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return eris.New("config: dataset.path is required")
	}
	if c.Dataset.ControlSheet == "" || c.Dataset.TestSheet == "" {
		return eris.New("config: dataset sheet names are required")
	}
	if c.Dataset.ControlSheet == c.Dataset.TestSheet {
		return eris.Errorf("config: control and test sheet are both %q", c.Dataset.ControlSheet)
	}
	if c.Analysis.Metric == "" {
		return eris.New("config: analysis.metric is required")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return eris.Errorf("config: analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Analysis.HeadRows < 1 {
		return eris.Errorf("config: analysis.head_rows must be positive, got %d", c.Analysis.HeadRows)
	}
	return nil
}

// InitLogger initializes the global zap logger. Logs always go to stderr
// so stdout carries only the report.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
