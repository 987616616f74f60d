package alerts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxMessageRunes bounds a formatted alert, leaving headroom below
	// Discord's 2000 character content limit.
	MaxMessageRunes = 1900
	// MaxLabels is the number of extra labels listed per alert.
	MaxLabels = 6

	defaultRuleName = "Alert"
	defaultSeverity = "info"
	timestampLayout = "2006-01-02 15:04:05 UTC"
)

var upper = cases.Upper(language.Und)

// Format renders one alert as a short multi-line chat message. Missing or
// mistyped fields fall back to defaults; Format never fails.
//
//	[FIRING] HighCPU (severity: critical)
//	CPU above 90% for 5 minutes
//	since: 2024-05-01 12:00:00 UTC
//	source: http://grafana/alerting/1
//	labels: instance=web-1, job=node
func Format(alert map[string]any) string {
	labels := mapField(alert, "labels")
	annotations := mapField(alert, "annotations")

	status := firstText(alert, "status", "state")
	rule := firstText(labels, "alertname", "rule_name")
	if rule == "" {
		rule = defaultRuleName
	}
	severity := defaultSeverity
	if value, ok := labels["severity"]; ok && value != nil {
		severity = stringify(value)
	}
	summary := firstText(annotations, "summary", "description")
	since := formatTimestamp(firstValue(alert, "startsAt", "starts_at"))
	generator := firstText(alert, "generatorURL")

	badge := status
	if badge == "" {
		badge = severity
	}

	parts := []string{fmt.Sprintf("[%s] %s (severity: %s)", upper.String(badge), rule, severity)}
	if summary != "" {
		parts = append(parts, summary)
	}
	if since != "" {
		parts = append(parts, "since: "+since)
	}
	if generator != "" {
		parts = append(parts, "source: "+generator)
	}
	if pairs := labelPairs(labels); len(pairs) > 0 {
		parts = append(parts, "labels: "+strings.Join(pairs, ", "))
	}

	return truncate(strings.Join(parts, "\n"), MaxMessageRunes)
}

func labelPairs(labels map[string]any) []string {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		if key == "alertname" || key == "severity" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > MaxLabels {
		keys = keys[:MaxLabels]
	}
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+stringify(labels[key]))
	}
	return pairs
}

// formatTimestamp renders an ISO-8601 value in UTC. Unparsable strings are
// returned as they are; a missing value yields "".
func formatTimestamp(value any) string {
	if value == nil {
		return ""
	}
	raw, ok := value.(string)
	if !ok {
		return stringify(value)
	}
	if ts, ok := parseTimestamp(raw); ok {
		return ts.UTC().Format(timestampLayout)
	}
	return raw
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp accepts the ISO-8601 shapes alerting systems emit. Values
// without an offset are taken as UTC.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func mapField(m map[string]any, key string) map[string]any {
	if value, ok := m[key].(map[string]any); ok {
		return value
	}
	return nil
}

// firstValue returns the first present value that is not empty.
func firstValue(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := m[key]; ok && !isEmpty(value) {
			return value
		}
	}
	return nil
}

func firstText(m map[string]any, keys ...string) string {
	value := firstValue(m, keys...)
	if value == nil {
		return ""
	}
	return stringify(value)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case float64:
		return v == 0
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

// stringify renders scalar JSON values as plain text and composite values
// as compact JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprint(v)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
