package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediadock/internal/config"
	"mediadock/internal/store"
)

// commandContext loads the configuration at most once per invocation and
// hands it to subcommands.
type commandContext struct {
	configFlag *string
	load       func() (loadedConfig, error)
}

type loadedConfig struct {
	cfg    *config.Config
	path   string
	exists bool
}

func newCommandContext(configFlag *string) *commandContext {
	c := &commandContext{configFlag: configFlag}
	c.load = sync.OnceValues(c.loadConfig)
	return c
}

func (c *commandContext) loadConfig() (loadedConfig, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return loadedConfig{}, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return loadedConfig{}, err
	}
	return loadedConfig{cfg: cfg, path: resolved, exists: exists}, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	loaded, err := c.load()
	return loaded.cfg, err
}

// configSource reports where the configuration came from. exists is false
// when no file was found and defaults were used.
func (c *commandContext) configSource() (path string, exists bool) {
	loaded, _ := c.load()
	return loaded.path, loaded.exists
}

// withStore opens the database for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()
	return fn(cfg, st)
}

// shouldSkipConfig reports whether cmd or a parent opted out of config
// loading through the skipConfigLoad annotation.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
