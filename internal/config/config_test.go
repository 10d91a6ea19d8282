package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml or .env is found
	chdirTemp(t)
	t.Setenv(EnvInputDir, "")
	t.Setenv(EnvOutputDir, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.IO.InputDir)
	assert.Equal(t, ".", cfg.IO.OutputDir)
	assert.Equal(t, "rent_roll.csv", cfg.IO.InputFile)
	assert.Equal(t, "result.json", cfg.IO.OutputFile)
	assert.Equal(t, "computed.json", cfg.IO.ManifestFile)
	assert.True(t, cfg.Output.ComputedManifest)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "rent_roll.csv", cfg.IO.InputPath())
	assert.Equal(t, "result.json", cfg.IO.OutputPath())
}

func TestLoadTEEDirectories(t *testing.T) {
	chdirTemp(t)
	t.Setenv(EnvInputDir, "/iexec_in")
	t.Setenv(EnvOutputDir, "/iexec_out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/iexec_in/rent_roll.csv", cfg.IO.InputPath())
	assert.Equal(t, "/iexec_out/result.json", cfg.IO.OutputPath())
	assert.Equal(t, "/iexec_out/computed.json", cfg.IO.ManifestPath())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(EnvInputDir, "")

	yaml := `
io:
  input_dir: /data/in
output:
  computed_manifest: false
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.IO.InputDir)
	assert.False(t, cfg.Output.ComputedManifest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "rent_roll.csv", cfg.IO.InputFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
io:
  input_dir: /data/in
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv(EnvInputDir, "/iexec_in")
	t.Setenv("CREDIT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "/iexec_in", cfg.IO.InputDir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(EnvOutputDir, "/preset")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CREDIT_LOG_FORMAT=console\nIEXEC_OUT=/from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CREDIT_LOG_FORMAT") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	// Variables already present in the environment win over .env
	assert.Equal(t, "/preset", cfg.IO.OutputDir)
}

func TestLoadInvalidConfig(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CREDIT_LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("io: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty input file", func(c *Config) { c.IO.InputFile = "" }, "io.input_file"},
		{"empty output file", func(c *Config) { c.IO.OutputFile = "" }, "io.output_file"},
		{"empty manifest", func(c *Config) { c.IO.ManifestFile = "" }, "io.manifest_file"},
		{"empty manifest disabled", func(c *Config) {
			c.IO.ManifestFile = ""
			c.Output.ComputedManifest = false
		}, ""},
		{"manifest collides", func(c *Config) { c.IO.ManifestFile = c.IO.OutputFile }, "must differ"},
		{"bad format", func(c *Config) { c.Log.Format = "text" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.True(t, zap.L().Core().Enabled(zap.InfoLevel))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
