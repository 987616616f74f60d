// Package notifications delivers chat messages to a Discord webhook.
//
// The webhook URL comes from config.toml or DISCORD_WEBHOOK_URL. Each message
// is a single POST of {"content": ...} with a bounded client timeout and no
// retries. Responses with status 400 or above surface as *UpstreamError so
// callers can relay the upstream text; a missing webhook URL surfaces as
// ErrWebhookNotConfigured on every call rather than at startup.
package notifications
