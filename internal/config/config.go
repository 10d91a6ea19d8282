// Package config loads iApp settings from the environment and an optional config file.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables set by the TEE runtime.
const (
	EnvInputDir  = "IEXEC_IN"
	EnvOutputDir = "IEXEC_OUT"
)

// Config holds the full application configuration.
type Config struct {
	IO     IOConfig     `yaml:"io" mapstructure:"io"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IOConfig locates the rent roll and the files the run produces.
type IOConfig struct {
	InputDir     string `yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
	InputFile    string `yaml:"input_file" mapstructure:"input_file"`
	OutputFile   string `yaml:"output_file" mapstructure:"output_file"`
	ManifestFile string `yaml:"manifest_file" mapstructure:"manifest_file"`
}

// InputPath returns the full path of the rent roll.
func (c IOConfig) InputPath() string {
	return filepath.Join(c.InputDir, c.InputFile)
}

// OutputPath returns the full path of the result document.
func (c IOConfig) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}

// ManifestPath returns the full path of the computed.json manifest.
func (c IOConfig) ManifestPath() string {
	return filepath.Join(c.OutputDir, c.ManifestFile)
}

// OutputConfig toggles optional outputs.
type OutputConfig struct {
	ComputedManifest bool `yaml:"computed_manifest" mapstructure:"computed_manifest"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		IO: IOConfig{
			InputDir:     ".",
			OutputDir:    ".",
			InputFile:    "rent_roll.csv",
			OutputFile:   "result.json",
			ManifestFile: "computed.json",
		},
		Output: OutputConfig{ComputedManifest: true},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration from file and environment. A .env file in the
// working directory is applied first without overriding variables that are
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CREDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("io.input_dir", EnvInputDir); err != nil {
		return nil, eris.Wrap(err, "config: bind input dir")
	}
	if err := v.BindEnv("io.output_dir", EnvOutputDir); err != nil {
		return nil, eris.Wrap(err, "config: bind output dir")
	}

	// Defaults
	d := Default()
	v.SetDefault("io.input_dir", d.IO.InputDir)
	v.SetDefault("io.output_dir", d.IO.OutputDir)
	v.SetDefault("io.input_file", d.IO.InputFile)
	v.SetDefault("io.output_file", d.IO.OutputFile)
	v.SetDefault("io.manifest_file", d.IO.ManifestFile)
	v.SetDefault("output.computed_manifest", d.Output.ComputedManifest)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.IO.InputFile == "" {
		errs = append(errs, "io.input_file must not be empty")
	}
	if c.IO.OutputFile == "" {
		errs = append(errs, "io.output_file must not be empty")
	}
	if c.Output.ComputedManifest && c.IO.ManifestFile == "" {
		errs = append(errs, "io.manifest_file must not be empty when output.computed_manifest is set")
	}
	if c.IO.OutputFile != "" && c.IO.OutputFile == c.IO.ManifestFile {
		errs = append(errs, "io.output_file and io.manifest_file must differ")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, "log.format must be json or console")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger. Logs go to stderr so stdout
// carries only the result document.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

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
