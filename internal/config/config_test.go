package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterGlobalFlags(fs)
	RegisterConvertFlags(fs)
	fs.String("host", Default().Host, "")
	fs.String("port", Default().Port, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	require.NoError(t, v.BindPFlags(newFlags(t)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Flags(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	require.NoError(t, v.BindPFlags(newFlags(t,
		"--recursive", "--keep-html", "--sanitize", "--grayscale",
		"--dpi", "300", "--page-size", "Letter",
		"--journal", "/tmp/x/../journal.db", "--log-level", "WARNING",
	)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.Recursive)
	assert.True(t, cfg.KeepHTML)
	assert.True(t, cfg.Sanitize)
	assert.True(t, cfg.Grayscale)
	assert.Equal(t, uint(300), cfg.DPI)
	assert.Equal(t, "Letter", cfg.PageSize)
	assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eml2pdf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page-size: Legal\nkeep-html: true\nport: \"9090\"\n"), 0o644))
	t.Setenv("EML2PDF_LOG_LEVEL", "debug")

	v, err := NewViper(path)
	require.NoError(t, err)
	require.NoError(t, v.BindPFlags(newFlags(t, "--page-size", "A5")))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "A5", cfg.PageSize, "Flags override the config file")
	assert.True(t, cfg.KeepHTML)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:9090", cfg.Address())
	assert.Equal(t, "http://localhost:9090", cfg.URL())
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"Port not a number", func(c *Config) { c.Port = "http" }},
		{"Port out of range", func(c *Config) { c.Port = "70000" }},
		{"Empty page size", func(c *Config) { c.PageSize = "" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
