package daemon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"mediadock/internal/daemon"
	"mediadock/internal/logging"
	"mediadock/internal/metrics"
	"mediadock/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, logging.NewNop(), metrics.New())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if len(status.Surfaces) != 3 {
		t.Fatalf("expected three surfaces, got %+v", status.Surfaces)
	}
	for _, s := range status.Surfaces {
		if s.Address == "" || strings.HasSuffix(s.Address, ":0") {
			t.Fatalf("surface %s not bound: %+v", s.Name, s)
		}
		resp, err := http.Get("http://" + s.Address + "/health")
		if err != nil {
			t.Fatalf("%s health: %v", s.Name, err)
		}
		var body map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
			t.Fatalf("%s health = %d %v", s.Name, resp.StatusCode, body)
		}
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestSecondDaemonIsLockedOut(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, store, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	err = second.Start(ctx)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestDaemonSkipsDisabledSurfaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Web.Bind = ""
	cfg.Relay.Bind = ""
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	status := d.Status(context.Background())
	if len(status.Surfaces) != 1 || status.Surfaces[0].Name != "storage" {
		t.Fatalf("expected only storage surface, got %+v", status.Surfaces)
	}

	cfg.Storage.Bind = ""
	if _, err := daemon.New(cfg, store, logging.NewNop(), nil); err == nil {
		t.Fatal("expected error with every surface disabled")
	}
}
