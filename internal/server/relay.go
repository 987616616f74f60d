package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"mediadock/internal/api"
	"mediadock/internal/notifications"
	"mediadock/internal/relay"
)

// maxWebhookBytes bounds inbound alert payloads.
const maxWebhookBytes = 4 << 20

type relayHandlers struct {
	relay  *relay.Relay
	logger *slog.Logger
}

func (h *relayHandlers) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeJSON(w, h.logger, http.StatusInternalServerError, api.RelayFailure{Error: fmt.Sprintf("read body: %v", err)})
		return
	}
	if err := h.relay.Forward(r.Context(), body); err != nil {
		var upstream *notifications.UpstreamError
		if errors.As(err, &upstream) {
			writeJSON(w, h.logger, http.StatusBadGateway, api.RelayFailure{Error: upstream.Body})
			return
		}
		writeJSON(w, h.logger, http.StatusInternalServerError, api.RelayFailure{Error: err.Error()})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, api.RelayResponse{OK: true})
}
