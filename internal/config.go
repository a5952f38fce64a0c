package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the pipeline configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	CMS    CMSConfig         `yaml:"cms"`
	Assets AssetsConfig      `yaml:"assets"`
	Ledger LedgerConfig      `yaml:"ledger"`
	Tools  ToolsConfig       `yaml:"tools"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.CMS.Validate(); err != nil {
		return err
	}
	if err := c.Assets.Validate(); err != nil {
		return err
	}
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	return c.Tools.Validate()
}

// ApplicationConfig holds application-level configuration.
//
// Mode selects the execution mode (development, production, preview).
// An empty or unknown value resolves to development; the --mode flag and
// the APP_MODE environment variable take precedence over this field.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Mode     string     `yaml:"mode"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the inspection server configuration (serve command).
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CMSConfig holds the headless CMS endpoints.
//
// BaseURL is where collections and uploads are fetched from. SiteURL is
// the public base prepended to some manifest URLs; it may be empty for
// site-relative paths.
type CMSConfig struct {
	BaseURL string `yaml:"base_url"`
	SiteURL string `yaml:"site_url"`
}

// Validate validates the CMS configuration.
func (c *CMSConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(isHTTPURL)),
	)
}

// AssetsConfig holds the public asset root that processed media and
// manifests are written under.
type AssetsConfig struct {
	PublicDir string `yaml:"public_dir"`
}

// Validate validates the assets configuration.
func (c *AssetsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PublicDir, validation.Required),
	)
}

// LedgerConfig holds the asset ledger database location.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the ledger configuration.
func (c *LedgerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ToolsConfig holds the external transcoder binaries.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// Validate validates the tools configuration.
func (c *ToolsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FFmpeg, validation.Required),
		validation.Field(&c.FFprobe, validation.Required),
	)
}

func isHTTPURL(value any) error {
	s, _ := value.(string)
	if len(s) < 8 || (s[:7] != "http://" && s[:8] != "https://") {
		return fmt.Errorf("must be an http(s) URL")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		CMS: CMSConfig{
			BaseURL: "http://localhost:1337",
		},
		Assets: AssetsConfig{
			PublicDir: "./public",
		},
		Ledger: LedgerConfig{
			Path: "./sivupaja.db",
		},
		Tools: ToolsConfig{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
	}
}
