package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeRelay()
	c.normalizeWeb()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MediaRoot) == "" {
		if value, ok := os.LookupEnv(mediaRootEnv); ok && strings.TrimSpace(value) != "" {
			c.Paths.MediaRoot = strings.TrimSpace(value)
		} else {
			c.Paths.MediaRoot = defaultMediaRoot
		}
	}
	if c.Paths.MediaRoot, err = expandPath(c.Paths.MediaRoot); err != nil {
		return fmt.Errorf("paths.media_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Bind = strings.TrimSpace(c.Storage.Bind)
	c.Storage.MediaURL = strings.TrimSpace(c.Storage.MediaURL)
	if c.Storage.MediaURL == "" {
		c.Storage.MediaURL = defaultMediaURL
	}
	if !strings.HasPrefix(c.Storage.MediaURL, "/") {
		c.Storage.MediaURL = "/" + c.Storage.MediaURL
	}
	if !strings.HasSuffix(c.Storage.MediaURL, "/") {
		c.Storage.MediaURL += "/"
	}
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = defaultMaxUploadMB
	}
}

func (c *Config) normalizeRelay() {
	c.Relay.Bind = strings.TrimSpace(c.Relay.Bind)
	c.Relay.WebhookURL = strings.TrimSpace(c.Relay.WebhookURL)
	if c.Relay.WebhookURL == "" {
		if value, ok := os.LookupEnv(discordWebhookEnv); ok {
			c.Relay.WebhookURL = strings.TrimSpace(value)
		}
	}
	if c.Relay.RequestTimeout <= 0 {
		c.Relay.RequestTimeout = defaultRelayTimeout
	}
	c.Relay.UserAgent = strings.TrimSpace(c.Relay.UserAgent)
	if c.Relay.UserAgent == "" {
		c.Relay.UserAgent = defaultRelayUserAgent
	}
}

// normalizeWeb resolves the remote storage origin. A STORAGE_API_URL that is
// present but empty disables the remote fallback.
func (c *Config) normalizeWeb() {
	c.Web.Bind = strings.TrimSpace(c.Web.Bind)
	c.Web.StorageOrigin = strings.TrimSpace(c.Web.StorageOrigin)
	if c.Web.StorageOrigin == "" {
		if value, ok := os.LookupEnv(storageOriginEnv); ok {
			c.Web.StorageOrigin = strings.TrimSpace(value)
		} else {
			c.Web.StorageOrigin = defaultStorageOrigin
		}
	}
	c.Web.StorageOrigin = strings.TrimRight(c.Web.StorageOrigin, "/")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
