// Package metrics owns the Prometheus collectors exported on /metrics by every
// mediadock HTTP surface.
package metrics
