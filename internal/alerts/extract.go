package alerts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Placeholder is sent when a webhook carries no alerts.
const Placeholder = "Received alert"

// ErrNotObject is returned when a webhook body is valid JSON but not an object.
var ErrNotObject = errors.New("webhook body must be a JSON object")

// batchKeys are checked in order: Alertmanager and unified Grafana alerting
// use "alerts", legacy Grafana alerting uses "evalMatches".
var batchKeys = []string{"alerts", "evalMatches"}

// Decode parses a webhook body into a generic JSON object. Numbers keep
// their original text.
func Decode(body []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("decode webhook body: trailing data after JSON value")
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Extract returns the alerts carried by a webhook body. The first non-empty
// batch list wins; a batch key holding an empty list means "no alerts"; a
// body without any batch list is itself a single alert.
func Extract(body map[string]any) []map[string]any {
	sawEmptyList := false
	for _, key := range batchKeys {
		items, ok := body[key].([]any)
		if !ok {
			continue
		}
		if len(items) == 0 {
			sawEmptyList = true
			continue
		}
		batch := make([]map[string]any, 0, len(items))
		for _, item := range items {
			alert, _ := item.(map[string]any)
			batch = append(batch, alert)
		}
		return batch
	}
	if sawEmptyList || body == nil {
		return nil
	}
	return []map[string]any{body}
}

// Compose formats every alert in the batch and joins them with blank lines.
// An empty batch yields Placeholder.
func Compose(batch []map[string]any) string {
	if len(batch) == 0 {
		return Placeholder
	}
	messages := make([]string, 0, len(batch))
	for _, alert := range batch {
		messages = append(messages, Format(alert))
	}
	return strings.Join(messages, "\n\n")
}
