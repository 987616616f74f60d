package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mediadock/internal/api"
	"mediadock/internal/auth"
	"mediadock/internal/config"
	"mediadock/internal/images"
	"mediadock/internal/logging"
	"mediadock/internal/metrics"
	"mediadock/internal/relay"
	"mediadock/internal/web"
)

// Surface names used in logs and metric labels.
const (
	SurfaceStorage = "storage"
	SurfaceRelay   = "relay"
	SurfaceWeb     = "web"
)

// Deps carries the services the surfaces dispatch to.
type Deps struct {
	Config  *config.Config
	Images  *images.Service
	Tokens  auth.TokenLookup
	Relay   *relay.Relay
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

func newRouter(surface string, d Deps) (*mux.Router, *slog.Logger) {
	logger := logging.NewComponentLogger(d.Logger, surface+"-server")
	router := mux.NewRouter().UseEncodedPath()
	router.NotFoundHandler = requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusNotFound, "not found")
	}))
	router.MethodNotAllowedHandler = requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	}))
	router.Use(requestID, observe(surface, logger, d.Metrics))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, api.HealthResponse{Status: "ok"})
	}).Methods(http.MethodGet, http.MethodHead)
	if d.Config != nil && d.Config.Metrics.Enabled && d.Metrics != nil {
		router.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}
	return router, logger
}

// NewStorageHandler returns the image API and public media routes.
func NewStorageHandler(d Deps) http.Handler {
	router, logger := newRouter(SurfaceStorage, d)
	h := &imageHandlers{
		images:   d.Images,
		cfg:      d.Config,
		logger:   logger,
		maxBytes: d.Config.MaxUploadBytes(),
	}
	protected := auth.Middleware(d.Tokens, d.Logger)

	imagesRouter := router.PathPrefix("/images").Subrouter()
	imagesRouter.HandleFunc("/", h.list).Methods(http.MethodGet)
	imagesRouter.Handle("/upload/", protected(http.HandlerFunc(h.upload))).Methods(http.MethodPost)
	imagesRouter.HandleFunc("/{filename:.+}/download/", h.downloadByFilename).Methods(http.MethodGet)
	imagesRouter.Handle("/{id}/content/", protected(http.HandlerFunc(h.downloadByID))).Methods(http.MethodGet)
	imagesRouter.Handle("/{id}/delete/", protected(http.HandlerFunc(h.delete))).Methods(http.MethodDelete)
	imagesRouter.Handle("/{id}/", protected(http.HandlerFunc(h.get))).Methods(http.MethodGet)

	mountMedia(router, d.Config)
	return router
}

// NewRelayHandler returns the alert webhook routes.
func NewRelayHandler(d Deps) http.Handler {
	router, logger := newRouter(SurfaceRelay, d)
	h := &relayHandlers{relay: d.Relay, logger: logger}
	router.HandleFunc("/webhook", h.webhook).Methods(http.MethodPost)
	return router
}

// NewWebHandler returns the profile page and local media routes.
func NewWebHandler(d Deps) http.Handler {
	router, _ := newRouter(SurfaceWeb, d)
	protected := auth.Middleware(d.Tokens, d.Logger)
	router.Handle("/profile", protected(web.NewHandler(d.Config, d.Logger))).Methods(http.MethodGet)
	mountMedia(router, d.Config)
	return router
}

// mountMedia serves files below the media root at the media URL. Directory
// listings are not exposed.
func mountMedia(router *mux.Router, cfg *config.Config) {
	prefix := cfg.Storage.MediaURL
	if prefix == "" {
		return
	}
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Paths.MediaRoot)))
	router.PathPrefix(prefix).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})).Methods(http.MethodGet, http.MethodHead)
}
