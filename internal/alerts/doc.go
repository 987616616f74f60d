// Package alerts turns Prometheus Alertmanager and Grafana webhook payloads
// into short chat messages.
//
// Payloads are decoded into generic JSON objects. Senders disagree on field
// names (status or state, startsAt or starts_at, alerts or evalMatches), so
// Format checks each spelling in turn and falls back to a default when a
// value is absent or has an unexpected type.
package alerts
