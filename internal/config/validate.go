package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBinds(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateRelay(); err != nil {
		return err
	}
	if err := c.validateWeb(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.MediaRoot == "" {
		return errors.New("paths.media_root must be set")
	}
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateBinds() error {
	binds := map[string]string{
		"storage.bind": c.Storage.Bind,
		"relay.bind":   c.Relay.Bind,
		"web.bind":     c.Web.Bind,
	}
	seen := make(map[string]string, len(binds))
	for _, key := range []string{"storage.bind", "relay.bind", "web.bind"} {
		value := binds[key]
		if value == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if other, ok := seen[value]; ok {
			return fmt.Errorf("%s and %s both bind %s", other, key, value)
		}
		seen[value] = key
	}
	if len(seen) == 0 {
		return errors.New("at least one of storage.bind, relay.bind or web.bind must be set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.MaxUploadMB > maxUploadMBUpperBound {
		return fmt.Errorf("storage.max_upload_mb must be at most %d", maxUploadMBUpperBound)
	}
	if c.Storage.PublicBaseURL != "" {
		if err := validateHTTPURL(c.Storage.PublicBaseURL); err != nil {
			return fmt.Errorf("storage.public_base_url: %w", err)
		}
	}
	return nil
}

func (c *Config) validateRelay() error {
	if c.Relay.RequestTimeout > maxRelayTimeoutSeconds {
		return fmt.Errorf("relay.request_timeout must be at most %d seconds", maxRelayTimeoutSeconds)
	}
	// An unset webhook is reported per request, not at startup.
	if c.Relay.WebhookURL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Relay.WebhookURL); err != nil {
		return fmt.Errorf("relay.webhook_url: %w", err)
	}
	return nil
}

func (c *Config) validateWeb() error {
	if c.Web.StorageOrigin == "" {
		return nil
	}
	if err := validateHTTPURL(c.Web.StorageOrigin); err != nil {
		return fmt.Errorf("web.storage_origin: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q is missing a host", raw)
	}
	return nil
}
