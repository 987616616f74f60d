package relay

import (
	"context"
	"errors"
	"log/slog"

	"mediadock/internal/alerts"
	"mediadock/internal/logging"
	"mediadock/internal/metrics"
	"mediadock/internal/notifications"
)

// Relay formats inbound alert webhooks and forwards them to chat.
type Relay struct {
	notifier notifications.Service
	logger   *slog.Logger
	metrics  *metrics.Registry
}

// New builds a relay. A nil logger or metrics registry disables that output.
func New(notifier notifications.Service, logger *slog.Logger, reg *metrics.Registry) *Relay {
	return &Relay{
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "relay"),
		metrics:  reg,
	}
}

// Forward decodes body, formats every alert it carries and sends the result
// as one chat message. Upstream rejections are returned as
// *notifications.UpstreamError.
func (r *Relay) Forward(ctx context.Context, body []byte) error {
	logger := logging.WithContext(ctx, r.logger)

	obj, err := alerts.Decode(body)
	if err != nil {
		r.metrics.RelayForwarded(metrics.OutcomeInvalid, 0)
		logger.Warn("webhook body rejected", logging.Error(err), logging.Int("bytes", len(body)))
		return err
	}

	batch := alerts.Extract(obj)
	content := alerts.Compose(batch)

	if err := r.notifier.Send(ctx, content); err != nil {
		var upstream *notifications.UpstreamError
		if errors.As(err, &upstream) {
			r.metrics.RelayForwarded(metrics.OutcomeRejected, len(batch))
			logging.WarnWithContext(logger, "discord rejected alert message", "relay_rejected",
				logging.Int("status", upstream.StatusCode),
				logging.Int("alerts", len(batch)),
				logging.String(logging.FieldErrorHint, "check the webhook URL and message size"),
			)
			return err
		}
		r.metrics.RelayForwarded(metrics.OutcomeFailed, len(batch))
		logging.ErrorWithContext(logger, "alert delivery failed", "relay_failed",
			logging.Error(err),
			logging.Int("alerts", len(batch)),
		)
		return err
	}

	r.metrics.RelayForwarded(metrics.OutcomeDelivered, len(batch))
	logger.Info("alerts forwarded", logging.Int("alerts", len(batch)), logging.Int("chars", len([]rune(content))))
	return nil
}
