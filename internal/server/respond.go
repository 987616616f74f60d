package server

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"mediadock/internal/api"
	"mediadock/internal/logging"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: message})
}

// attachment returns a Content-Disposition value for filename.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `attachment; filename="` + strings.NewReplacer(`"`, "", `\`, "").Replace(filename) + `"`
}

// requestBaseURL returns scheme://host for the request, honouring
// X-Forwarded-Proto set by a TLS terminating proxy.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		if first, _, _ := strings.Cut(proto, ","); strings.TrimSpace(first) != "" {
			scheme = strings.ToLower(strings.TrimSpace(first))
		}
	}
	return scheme + "://" + r.Host
}
