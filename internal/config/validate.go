package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"trackscan/internal/services"
)

// Validate ensures the configuration is usable. The TMDB API key is
// deliberately not required here; it is checked when a command actually needs
// a lookup.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must not be empty")
	}
	return validateHomeLanguage(c.Scan.HomeLanguage)
}

func (c *Config) validateTMDB() error {
	parsed, err := url.Parse(c.TMDB.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("tmdb.base_url %q is not a valid URL", c.TMDB.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

// RequireTMDBKey returns an error describing how to configure the API key when
// it is missing. Called by commands that perform canonical-language lookups.
func (c *Config) RequireTMDBKey() error {
	if c.TMDB.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/trackscan/config.toml"
	}
	return services.Wrap(services.ErrConfiguration, "config", "require tmdb key",
		fmt.Sprintf("tmdb.api_key is required for canonical-language lookups. Set TMDB_API_KEY or edit %s (create with 'trackscan config init')", defaultPath), nil)
}
