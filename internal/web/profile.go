package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"mediadock/internal/auth"
	"mediadock/internal/config"
	"mediadock/internal/logging"
	"mediadock/internal/mediaurl"
	"mediadock/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var profileTemplate = template.Must(template.ParseFS(templateFS, "templates/profile.html"))

// profile adapts a store user to mediaurl.ImageOwner.
type profile struct {
	user     *store.User
	mediaURL string
}

// ProfileImage classifies the stored reference. Paths and URLs are plain
// text; anything else is a stored name served below the media URL.
func (p *profile) ProfileImage() mediaurl.Source {
	if p == nil || p.user == nil || p.user.Image == "" {
		return nil
	}
	image := p.user.Image
	prefix := p.mediaURL
	if prefix == "" {
		prefix = mediaurl.DefaultPrefix
	}
	for _, lead := range []string{"/", "http://", "https://", strings.TrimPrefix(prefix, "/")} {
		if strings.HasPrefix(image, lead) {
			return mediaurl.Text(image)
		}
	}
	return mediaurl.FieldFile{Name: image, BaseURL: prefix}.Source()
}

// Handler serves the profile page.
type Handler struct {
	binder   mediaurl.Binder
	mediaURL string
	logger   *slog.Logger
}

// NewHandler builds a profile handler resolving media against the local
// media root and the configured storage origin.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	normalizer := mediaurl.Normalizer{Prefix: cfg.Storage.MediaURL}
	return &Handler{
		binder: mediaurl.Binder{Resolver: mediaurl.Resolver{
			Normalizer: normalizer,
			MediaRoot:  cfg.Paths.MediaRoot,
			Origin:     cfg.Web.StorageOrigin,
		}},
		mediaURL: cfg.Storage.MediaURL,
		logger:   logging.NewComponentLogger(logger, "web"),
	}
}

// Context returns the template context for user.
func (h *Handler) Context(user *store.User) map[string]any {
	var owner mediaurl.ImageOwner
	if user != nil {
		owner = &profile{user: user, mediaURL: h.mediaURL}
	}
	data := h.binder.Bind(owner)
	if user != nil {
		data["username"] = user.Username
	}
	return data
}

// ServeHTTP renders the page for the authenticated user.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, h.Context(user)); err != nil {
		logging.ErrorWithContext(logging.WithContext(r.Context(), h.logger), "profile render failed", "render_failed",
			logging.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
