// Package config maps TOTH_* environment variables into a typed Config.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/globalteceducacional/toth/internal/render"
)

// Config holds the runtime settings shared by the CLI and the server.
type Config struct {
	// Assets
	FontPath     string  `env:"TOTH_FONT_PATH"`
	LogoPath     string  `env:"TOTH_LOGO_PATH"`
	LogoWidth    int     `env:"TOTH_LOGO_WIDTH"     envDefault:"230"`
	LogoScale    float64 `env:"TOTH_LOGO_SCALE"     envDefault:"0.5"`
	LogoMarginCM float64 `env:"TOTH_LOGO_MARGIN_CM" envDefault:"1"`

	// Rendering
	Workers  int    `env:"TOTH_WORKERS"   envDefault:"0"`
	Author   string `env:"TOTH_AUTHOR"`
	Language string `env:"TOTH_LANGUAGE"  envDefault:"pt-BR"`
	LogLevel string `env:"TOTH_LOG_LEVEL" envDefault:"info"`

	// Google Drive
	GoogleCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS" envDefault:"service_account.json"`
	DriveCredentials  string `env:"TOTH_DRIVE_CREDENTIALS"`
	DriveFolderID     string `env:"TOTH_DRIVE_FOLDER_ID"`
	UploadRetries     int    `env:"TOTH_UPLOAD_RETRIES" envDefault:"3"`

	// Server
	SessionTTL  time.Duration `env:"TOTH_SESSION_TTL"   envDefault:"1h"`
	MaxUploadMB int64         `env:"TOTH_MAX_UPLOAD_MB" envDefault:"10"`
	RateLimit   int           `env:"TOTH_RATE_LIMIT"    envDefault:"30"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.LogoScale <= 0 || cfg.LogoScale > 1 {
		return nil, fmt.Errorf("config: TOTH_LOGO_SCALE must be in (0, 1], got %v", cfg.LogoScale)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("config: TOTH_WORKERS must not be negative, got %d", cfg.Workers)
	}
	if cfg.UploadRetries < 1 {
		cfg.UploadRetries = 1
	}
	return cfg, nil
}

// CredentialsFile returns the service-account file for Drive uploads.
// TOTH_DRIVE_CREDENTIALS wins over GOOGLE_APPLICATION_CREDENTIALS.
func (c *Config) CredentialsFile() string {
	if c.DriveCredentials != "" {
		return c.DriveCredentials
	}
	return c.GoogleCredentials
}

// LogoOptions returns the logo placement settings.
func (c *Config) LogoOptions() render.LogoOptions {
	return render.LogoOptions{
		MaxWidth: c.LogoWidth,
		Scale:    c.LogoScale,
		MarginCM: c.LogoMarginCM,
	}
}

// MaxUploadBytes is the request body limit for page uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// ParseLevel maps a level name to a slog.Level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
