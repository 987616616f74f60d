// Package server builds the HTTP surfaces of mediadock and runs their
// listeners.
//
// Three surfaces exist, each on its own bind address:
//
//   - storage: the image API under /images/ and public files under the media URL
//   - relay: POST /webhook forwarding Prometheus and Grafana alerts to Discord
//   - web: the authenticated /profile page and local media files
//
// Every surface answers GET /health and, when enabled, GET /metrics. Routing
// uses gorilla/mux with encoded paths preserved so stored names containing
// %2F reach the handlers intact. Requests get a correlation id that is echoed
// in X-Request-ID and attached to every log line written for the request.
package server
