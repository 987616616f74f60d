// Package relay accepts Prometheus and Grafana alert webhooks and forwards a
// formatted summary to Discord.
//
// A webhook is decoded, split into alerts by the alerts package, rendered as
// one message, and sent with a single attempt through the notifications
// service. The HTTP mapping of the outcome (200, 502 or 500) lives with the
// relay routes in the server package.
package relay
