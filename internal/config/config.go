package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. EML2PDF_LOG_LEVEL
const EnvPrefix = "EML2PDF"

// Config holds application configuration
type Config struct {
	// Conversion settings
	OutputDir string
	Recursive bool
	KeepHTML  bool
	Sanitize  bool

	// Journal database; empty disables it
	JournalPath string

	// Renderer settings
	WKHTMLToPDFPath string
	PageSize        string
	DPI             uint
	Grayscale       bool

	// Preview server settings
	Host string
	Port string

	LogLevel string
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		OutputDir: ".",
		PageSize:  "A4",
		Host:      "localhost",
		Port:      "8080",
		LogLevel:  "info",
	}
}

// DefaultJournalPath is the suggested journal location, ~/.eml2pdf/journal.db
func DefaultJournalPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".eml2pdf", "journal.db")
}

// RegisterConvertFlags attaches the conversion flags to fs
func RegisterConvertFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Bool("recursive", d.Recursive, "Also convert .eml files in subdirectories")
	fs.Bool("keep-html", d.KeepHTML, "Write the HTML intermediate next to each PDF")
	fs.Bool("sanitize", d.Sanitize, "Strip scripts and active content from HTML bodies")
	fs.String("wkhtmltopdf", d.WKHTMLToPDFPath, "Path to the wkhtmltopdf binary (default: look up on PATH)")
	fs.String("page-size", d.PageSize, "PDF page size, e.g. A4 or Letter")
	fs.Uint("dpi", d.DPI, "PDF rendering DPI (0 keeps the engine default)")
	fs.Bool("grayscale", d.Grayscale, "Render PDFs in grayscale")
}

// RegisterPreviewFlags attaches the preview server flags to fs
func RegisterPreviewFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("host", d.Host, "Preview server host")
	fs.String("port", d.Port, "Preview server port")
}

// RegisterGlobalFlags attaches the flags shared by every command to fs
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (default: ./eml2pdf.yaml or ~/.config/eml2pdf/eml2pdf.yaml)")
	fs.String("journal", d.JournalPath, "SQLite journal of conversions (e.g. "+DefaultJournalPath()+"); empty disables it")
	fs.String("log-level", d.LogLevel, "Logging level: debug, info, warn, error")
}

// NewViper returns a viper instance reading the config file (explicit path or
// the default search locations) and EML2PDF_* environment variables. A
// missing default config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("eml2pdf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "eml2pdf"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load builds a Config from defaults overlaid with v, which should already
// have the command's flags bound.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()

	setString(v, "journal", &cfg.JournalPath)
	setString(v, "log-level", &cfg.LogLevel)
	setString(v, "wkhtmltopdf", &cfg.WKHTMLToPDFPath)
	setString(v, "page-size", &cfg.PageSize)
	setString(v, "host", &cfg.Host)
	setString(v, "port", &cfg.Port)
	setBool(v, "recursive", &cfg.Recursive)
	setBool(v, "keep-html", &cfg.KeepHTML)
	setBool(v, "sanitize", &cfg.Sanitize)
	setBool(v, "grayscale", &cfg.Grayscale)
	if v.IsSet("dpi") {
		cfg.DPI = v.GetUint("dpi")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if cfg.JournalPath != "" {
		cfg.JournalPath = filepath.Clean(cfg.JournalPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", c.LogLevel)
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535, got %q", c.Port)
	}
	if c.PageSize == "" {
		return fmt.Errorf("--page-size must not be empty")
	}
	return nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// URL returns the full server URL
func (c *Config) URL() string {
	return "http://" + c.Address()
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}
