package alerts_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"mediadock/internal/alerts"
)

func mustDecode(t *testing.T, body string) map[string]any {
	t.Helper()
	obj, err := alerts.Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode(%s): %v", body, err)
	}
	return obj
}

func TestFormatEmptyAlert(t *testing.T) {
	if got := alerts.Format(map[string]any{}); got != "[INFO] Alert (severity: info)" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := alerts.Format(nil); got != "[INFO] Alert (severity: info)" {
		t.Fatalf("unexpected message for nil alert %q", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "alertmanager alert",
			body: `{
				"status": "firing",
				"labels": {"alertname": "HighCPU", "severity": "critical", "instance": "web-1", "job": "node"},
				"annotations": {"summary": "CPU above 90%"},
				"startsAt": "2024-05-01T12:00:00Z",
				"generatorURL": "http://prometheus/graph?g0.expr=up"
			}`,
			want: "[FIRING] HighCPU (severity: critical)\n" +
				"CPU above 90%\n" +
				"since: 2024-05-01 12:00:00 UTC\n" +
				"source: http://prometheus/graph?g0.expr=up\n" +
				"labels: instance=web-1, job=node",
		},
		{
			name: "grafana state and rule_name",
			body: `{"state": "alerting", "labels": {"rule_name": "DiskFull"}, "annotations": {"description": "disk at 99%"}}`,
			want: "[ALERTING] DiskFull (severity: info)\ndisk at 99%\nlabels: rule_name=DiskFull",
		},
		{
			name: "offset converted to utc",
			body: `{"status": "resolved", "starts_at": "2024-05-01T14:30:00+02:00"}`,
			want: "[RESOLVED] Alert (severity: info)\nsince: 2024-05-01 12:30:00 UTC",
		},
		{
			name: "fractional seconds",
			body: `{"status": "firing", "startsAt": "2024-05-01T12:00:00.123456789Z"}`,
			want: "[FIRING] Alert (severity: info)\nsince: 2024-05-01 12:00:00 UTC",
		},
		{
			name: "unparsable timestamp passes through",
			body: `{"status": "firing", "startsAt": "yesterday"}`,
			want: "[FIRING] Alert (severity: info)\nsince: yesterday",
		},
		{
			name: "severity without status",
			body: `{"labels": {"severity": "warning"}}`,
			want: "[WARNING] Alert (severity: warning)",
		},
		{
			name: "empty status falls back to state",
			body: `{"status": "", "state": "pending"}`,
			want: "[PENDING] Alert (severity: info)",
		},
		{
			name: "non-string label values",
			body: `{"status": "firing", "labels": {"replicas": 3, "paged": true, "ratio": 0.5}}`,
			want: "[FIRING] Alert (severity: info)\nlabels: paged=true, ratio=0.5, replicas=3",
		},
		{
			name: "wrong types degrade",
			body: `{"status": "firing", "labels": "oops", "annotations": [1, 2], "startsAt": 1714564800}`,
			want: "[FIRING] Alert (severity: info)\nsince: 1714564800",
		},
		{
			name: "unicode status",
			body: `{"status": "straße"}`,
			want: "[STRASSE] Alert (severity: info)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alerts.Format(mustDecode(t, tt.body))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatListsAtMostSixLabels(t *testing.T) {
	labels := make(map[string]any)
	for i := 0; i < 10; i++ {
		labels[fmt.Sprintf("l%d", i)] = "v"
	}
	labels["alertname"] = "Many"
	labels["severity"] = "page"
	got := alerts.Format(map[string]any{"labels": labels})
	want := "[PAGE] Many (severity: page)\nlabels: l0=v, l1=v, l2=v, l3=v, l4=v, l5=v"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestFormatTruncates(t *testing.T) {
	labels := make(map[string]any)
	for i := 0; i < 50; i++ {
		labels[fmt.Sprintf("label_%02d", i)] = strings.Repeat("x", 100)
	}
	alert := map[string]any{
		"status":      "firing",
		"labels":      labels,
		"annotations": map[string]any{"summary": strings.Repeat("é", 3000)},
	}
	got := alerts.Format(alert)
	if n := utf8.RuneCountInString(got); n != alerts.MaxMessageRunes {
		t.Fatalf("expected %d runes, got %d", alerts.MaxMessageRunes, n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multi-byte rune")
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
		first string
	}{
		{name: "alerts list", body: `{"alerts": [{"status": "firing"}, {"status": "resolved"}]}`, count: 2, first: "[FIRING] Alert (severity: info)"},
		{name: "eval matches", body: `{"evalMatches": [{"metric": "cpu", "value": 99}]}`, count: 1, first: "[INFO] Alert (severity: info)"},
		{name: "empty alerts falls through to eval matches", body: `{"alerts": [], "evalMatches": [{"state": "alerting"}]}`, count: 1, first: "[ALERTING] Alert (severity: info)"},
		{name: "empty alerts", body: `{"alerts": []}`, count: 0},
		{name: "single alert body", body: `{"status": "firing", "labels": {"alertname": "Solo"}}`, count: 1, first: "[FIRING] Solo (severity: info)"},
		{name: "non-list alerts", body: `{"alerts": {"status": "firing"}, "status": "firing"}`, count: 1, first: "[FIRING] Alert (severity: info)"},
		{name: "non-object item", body: `{"alerts": ["nope"]}`, count: 1, first: "[INFO] Alert (severity: info)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := alerts.Extract(mustDecode(t, tt.body))
			if len(batch) != tt.count {
				t.Fatalf("expected %d alerts, got %d", tt.count, len(batch))
			}
			if tt.count > 0 {
				if got := alerts.Format(batch[0]); got != tt.first {
					t.Fatalf("first alert = %q, want %q", got, tt.first)
				}
			}
		})
	}
}

func TestCompose(t *testing.T) {
	if got := alerts.Compose(nil); got != alerts.Placeholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
	batch := alerts.Extract(mustDecode(t, `{"alerts": [{"status": "firing"}, {"status": "resolved"}]}`))
	want := "[FIRING] Alert (severity: info)\n\n[RESOLVED] Alert (severity: info)"
	if got := alerts.Compose(batch); got != want {
		t.Fatalf("Compose = %q, want %q", got, want)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[]`, `"text"`, `42`, `{`, `{} {}`, ``} {
		if _, err := alerts.Decode([]byte(body)); err == nil {
			t.Fatalf("expected error for body %q", body)
		}
	}
}
