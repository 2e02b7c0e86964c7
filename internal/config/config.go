package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quickcal/internal/event"
	appLog "quickcal/internal/log"
	"quickcal/internal/timeparse"
)

// QRConfig controls the /qr endpoint.
type QRConfig struct {
	// Size is the PNG edge length in pixels.
	Size int `yaml:"size" json:"size"`
	// Recovery is the error correction level: low, medium, high or highest.
	Recovery string `yaml:"recovery" json:"recovery"`
	// RatePerSecond and Burst bound QR rendering across all clients.
	// A RatePerSecond of zero disables limiting.
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `yaml:"burst" json:"burst"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// DefaultTitle and DefaultDescription are used when a request omits
	// the title or desc field.
	DefaultTitle       string `yaml:"default_title" json:"default_title"`
	DefaultDescription string `yaml:"default_description" json:"default_description"`

	// DefaultDuration is the event length used when only one endpoint
	// (or neither) is known, e.g. "1h" or "45m".
	DefaultDuration string `yaml:"default_duration" json:"default_duration"`

	// InvertedInterval decides what to do when end < start:
	//   - "pass" (default): keep the interval as given
	//   - "reject": answer 400
	InvertedInterval string `yaml:"inverted_interval" json:"inverted_interval"`

	// ProductID is written as the calendar PRODID.
	ProductID string `yaml:"product_id" json:"product_id"`

	QR QRConfig `yaml:"qr" json:"qr"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen    = "127.0.0.1:8080"
	defaultProductID = "-//quickcal//Event Link//EN"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             defaultListen,
		LogLevel:           "info",
		DefaultTitle:       event.DefaultTitle,
		DefaultDescription: event.DefaultDescription,
		DefaultDuration:    "1h",
		InvertedInterval:   string(event.InvertedPass),
		ProductID:          defaultProductID,
		QR: QRConfig{
			Size:          256,
			Recovery:      "medium",
			RatePerSecond: 10,
			Burst:         20,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DefaultTitle == "" {
		c.DefaultTitle = d.DefaultTitle
	}
	if c.DefaultDescription == "" {
		c.DefaultDescription = d.DefaultDescription
	}
	if strings.TrimSpace(c.DefaultDuration) == "" {
		c.DefaultDuration = d.DefaultDuration
	}
	if c.InvertedInterval == "" {
		c.InvertedInterval = d.InvertedInterval
	}
	if c.ProductID == "" {
		c.ProductID = d.ProductID
	}
	if c.QR.Size <= 0 {
		c.QR.Size = d.QR.Size
	}
	if c.QR.Recovery == "" {
		c.QR.Recovery = d.QR.Recovery
	}
	if c.QR.RatePerSecond < 0 {
		c.QR.RatePerSecond = 0
	}
	if c.QR.Burst <= 0 {
		c.QR.Burst = d.QR.Burst
	}
}

// Validate checks values that Normalize cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if d, err := timeparse.ParseDuration(c.DefaultDuration); err != nil {
		errs = append(errs, fmt.Errorf("default_duration: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("default_duration: must be positive, got %q", c.DefaultDuration))
	}
	if _, err := event.ParseInvertedPolicy(c.InvertedInterval); err != nil {
		errs = append(errs, fmt.Errorf("inverted_interval: %w", err))
	}
	switch strings.ToLower(c.QR.Recovery) {
	case "low", "medium", "high", "highest":
	default:
		errs = append(errs, fmt.Errorf("qr.recovery: unknown level %q", c.QR.Recovery))
	}
	return errors.Join(errs...)
}

// ResolverOptions converts the event-related settings. Call Validate first;
// invalid values fall back to the event package defaults.
func (c *Config) ResolverOptions() event.Options {
	d, _ := timeparse.ParseDuration(c.DefaultDuration)
	p, _ := event.ParseInvertedPolicy(c.InvertedInterval)
	return event.Options{DefaultDuration: d, Inverted: p}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".quickcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
