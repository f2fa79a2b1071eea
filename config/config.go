// Package config loads and validates the pitstop.yml server
// configuration.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values like "5s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full server configuration.
type Config struct {
	// Listen is the host:port the HTTP server binds to.
	Listen string `yaml:"listen"`
	// SeedFile optionally points at a yaml file with initial slice
	// values. Empty means the compiled-in defaults.
	SeedFile string `yaml:"seedFile"`
	// UploadDir is where uploaded images are stored.
	UploadDir string `yaml:"uploadDir"`

	Log    LogConfig    `yaml:"log"`
	Mirror MirrorConfig `yaml:"mirror"`
	Mail   MailConfig   `yaml:"mail"`

	// Extensions carries tool-specific sections that the core does not
	// interpret; see UnmarshalExtension.
	Extensions map[string]interface{} `yaml:"extensions"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// MirrorConfig controls the optional sqlite write-behind mirror. An
// empty path disables it; state then lives only in memory.
type MirrorConfig struct {
	Path          string   `yaml:"path"`
	FlushInterval Duration `yaml:"flushInterval"`
	// Restore reloads mirrored slices into the store at boot.
	Restore bool `yaml:"restore"`
}

// MailConfig controls the booking-confirmation sender. Mode "log" writes
// mails to the log, "smtp" delivers them.
type MailConfig struct {
	Mode     string `yaml:"mode"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:    ":8080",
		UploadDir: "uploads",
		Log:       LogConfig{Level: "info"},
		Mirror:    MirrorConfig{FlushInterval: Duration(5 * time.Second), Restore: true},
		Mail:      MailConfig{Mode: "log"},
	}
}

// Validate checks the configuration for mistakes that would only
// surface later.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	switch c.Mail.Mode {
	case "", "log":
	case "smtp":
		if c.Mail.Host == "" {
			return fmt.Errorf("mail.host is required when mail.mode is smtp")
		}
		if c.Mail.From == "" {
			return fmt.Errorf("mail.from is required when mail.mode is smtp")
		}
	default:
		return fmt.Errorf("unknown mail.mode %q", c.Mail.Mode)
	}
	if c.Mirror.Path != "" && c.Mirror.FlushInterval <= 0 {
		return fmt.Errorf("mirror.flushInterval must be positive")
	}
	return nil
}

// UnmarshalExtension decodes one named extension section into out.
// Returns nil without touching out when the section is absent.
func (c *Config) UnmarshalExtension(name string, out interface{}) error {
	raw, ok := c.Extensions[name]
	if !ok {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "yaml",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode extension %q: %w", name, err)
	}
	return nil
}
