package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mediadock/internal/api"
	"mediadock/internal/config"
	"mediadock/internal/metrics"
	"mediadock/internal/notifications"
	"mediadock/internal/relay"
	"mediadock/internal/server"
	"mediadock/internal/testsupport"
)

type fakeDiscord struct {
	mu       sync.Mutex
	status   int
	body     string
	received []string
}

func (d *fakeDiscord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	d.mu.Lock()
	d.received = append(d.received, payload.Content)
	d.mu.Unlock()
	if d.status != 0 {
		w.WriteHeader(d.status)
		_, _ = io.WriteString(w, d.body)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func newRelayServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	reg := metrics.New()
	r := relay.New(notifications.NewService(cfg), nil, reg)
	srv := httptest.NewServer(server.NewRelayHandler(server.Deps{Config: cfg, Relay: r, Metrics: reg}))
	t.Cleanup(srv.Close)
	return srv
}

func postWebhook(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestWebhookResponses(t *testing.T) {
	tests := []struct {
		name        string
		discordCode int
		discordBody string
		payload     string
		wantStatus  int
		wantOK      bool
		wantError   string
		wantContent string
	}{
		{
			name:        "delivered",
			payload:     `{"alerts":[{"status":"firing","labels":{"alertname":"DiskFull","severity":"critical"}}]}`,
			wantStatus:  http.StatusOK,
			wantOK:      true,
			wantContent: "[FIRING] DiskFull (severity: critical)",
		},
		{
			name:        "empty batch sends placeholder",
			payload:     `{"alerts":[]}`,
			wantStatus:  http.StatusOK,
			wantOK:      true,
			wantContent: "Received alert",
		},
		{
			name:        "upstream rejection",
			discordCode: http.StatusBadRequest,
			discordBody: `{"message": "Cannot send an empty message"}`,
			payload:     `{"status":"firing"}`,
			wantStatus:  http.StatusBadGateway,
			wantError:   `{"message": "Cannot send an empty message"}`,
		},
		{
			name:       "malformed json",
			payload:    `{"alerts":`,
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discord := &fakeDiscord{status: tt.discordCode, body: tt.discordBody}
			upstream := httptest.NewServer(discord)
			defer upstream.Close()

			cfg := testsupport.NewConfig(t, testsupport.WithWebhookURL(upstream.URL))
			srv := newRelayServer(t, cfg)

			status, out := postWebhook(t, srv, tt.payload)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", status, tt.wantStatus, out)
			}
			if ok, _ := out["ok"].(bool); ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK {
				if _, present := out["error"]; present {
					t.Fatalf("unexpected error field in %v", out)
				}
			} else if msg, _ := out["error"].(string); msg == "" || (tt.wantError != "" && msg != tt.wantError) {
				t.Fatalf("error = %q, want %q", msg, tt.wantError)
			}
			if tt.wantContent != "" {
				if len(discord.received) != 1 || discord.received[0] != tt.wantContent {
					t.Fatalf("discord received %q, want %q", discord.received, tt.wantContent)
				}
			}
		})
	}
}

func TestWebhookWithoutConfiguredURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newRelayServer(t, cfg)

	status, out := postWebhook(t, srv, `{"status":"firing"}`)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if out["error"] != notifications.ErrWebhookNotConfigured.Error() {
		t.Fatalf("error = %v", out["error"])
	}

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil || resp.StatusCode != http.StatusOK || health.Status != "ok" {
		t.Fatalf("health = %d %#v %v", resp.StatusCode, health, err)
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newRelayServer(t, cfg)
	resp, err := http.Get(srv.URL + "/webhook")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
