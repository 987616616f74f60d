package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"mediadock/internal/api"
	"mediadock/internal/config"
	"mediadock/internal/images"
	"mediadock/internal/logging"
)

// multipartMemory is the part of an upload kept in memory; the rest spills
// to temporary files.
const multipartMemory = 8 << 20

type imageHandlers struct {
	images   *images.Service
	cfg      *config.Config
	logger   *slog.Logger
	maxBytes int64
}

func (h *imageHandlers) urlBuilder(r *http.Request) api.URLBuilder {
	base := h.cfg.Storage.PublicBaseURL
	if base == "" {
		base = requestBaseURL(r)
	}
	return func(stored string) string {
		return api.ImageURL(base, h.cfg.Storage.MediaURL, stored)
	}
}

func (h *imageHandlers) log(r *http.Request) *slog.Logger {
	return logging.WithContext(r.Context(), h.logger)
}

func (h *imageHandlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.images.List(r.Context())
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, api.FromImages(items, h.urlBuilder(r)))
}

func (h *imageHandlers) upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, http.StatusRequestEntityTooLarge,
				"Upload exceeds the "+strconv.FormatInt(tooLarge.Limit>>20, 10)+" MB limit")
			return
		}
		writeError(w, h.logger, http.StatusBadRequest, api.MsgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.MsgNoFile)
		return
	}
	defer file.Close()

	img, err := h.images.Upload(r.Context(), images.Upload{
		Title:       r.FormValue("title"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		logging.ErrorWithContext(h.log(r), "image upload failed", "upload_failed", logging.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, api.FromUpload(img, h.urlBuilder(r)))
}

func (h *imageHandlers) get(w http.ResponseWriter, r *http.Request) {
	img, err := h.images.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, api.FromImage(img, h.urlBuilder(r)))
}

func (h *imageHandlers) downloadByID(w http.ResponseWriter, r *http.Request) {
	img, f, err := h.images.Open(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	defer f.Close()

	name := img.OriginalFilename
	if name == "" {
		name = img.File
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", attachment(name))
	http.ServeContent(w, r, "", img.UploadedAt, f)
}

func (h *imageHandlers) downloadByFilename(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, api.MsgImageNotFound)
		return
	}
	f, name, err := h.images.OpenByFilename(r.Context(), raw)
	if err != nil {
		if errors.Is(err, images.ErrNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.MsgImageNotFound)
			return
		}
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", attachment(name))
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func (h *imageHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.images.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, api.MessageResponse{Message: api.MsgImageDeleted})
}

// writeLookupError answers every id lookup failure. Malformed and unknown
// ids share one 404 body.
func (h *imageHandlers) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, images.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, api.MsgInvalidID)
		return
	}
	logging.ErrorWithContext(h.log(r), "image request failed", "image_request_failed", logging.Error(err))
	writeError(w, h.logger, http.StatusInternalServerError, err.Error())
}
