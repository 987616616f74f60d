package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediadock/internal/config"
	"mediadock/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

type envOption func(*envSettings)

type envSettings struct {
	relayBind  string
	webhookURL string
}

func withRelay(bind, webhook string) envOption {
	return func(s *envSettings) {
		s.relayBind = bind
		s.webhookURL = webhook
	}
}

func setupCLITestEnv(t *testing.T, opts ...envOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("STORAGE_API_URL", "")
	t.Setenv("MEDIADOCK_MEDIA_ROOT", "")

	var settings envSettings
	for _, opt := range opts {
		opt(&settings)
	}

	cfg := testsupport.NewConfig(t)
	cfg.Storage.Bind = "127.0.0.1:18001"
	cfg.Relay.Bind = settings.relayBind
	cfg.Relay.WebhookURL = settings.webhookURL
	cfg.Web.Bind = ""

	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "mediadock.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
media_root = %q
data_dir = %q
log_dir = %q

[storage]
bind = %q
public_base_url = %q

[relay]
bind = %q
webhook_url = %q

[web]
bind = %q
storage_origin = %q
`,
		cfg.Paths.MediaRoot,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Storage.Bind,
		cfg.Storage.PublicBaseURL,
		cfg.Relay.Bind,
		cfg.Relay.WebhookURL,
		cfg.Web.Bind,
		cfg.Web.StorageOrigin,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
