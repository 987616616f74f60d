package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestStatusReportsStorage(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"user", "add", "carol"}, env.configPath); err != nil {
		t.Fatalf("user add: %v", err)
	}

	out, _, err := runCLI(t, []string{"status", "--no-checks"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Daemon ==")
	requireContains(t, out, "[INFO] not running")
	requireContains(t, out, "[INFO] 127.0.0.1:18001")
	requireContains(t, out, "[INFO] disabled")
	requireContains(t, out, "0 stored, 0 B")
	requireContains(t, out, "1 (1 active)")
	if strings.Contains(out, "== Checks ==") {
		t.Fatalf("expected checks to be skipped:\n%s", out)
	}
}

func TestStatusFailsOnMissingWebhook(t *testing.T) {
	env := setupCLITestEnv(t, withRelay("127.0.0.1:18080", ""))

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight check") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "Discord webhook:")
	requireContains(t, out, "[ERROR] not configured")
}

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"version", "--config", "/nonexistent/dir/that/is/not/a/config.toml"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "mediadock")
}
