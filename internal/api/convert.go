package api

import (
	"strings"

	"mediadock/internal/mediaurl"
	"mediadock/internal/store"
)

// URLBuilder turns a stored name into an absolute URL.
type URLBuilder func(stored string) string

// ImageURL joins base, the media URL prefix and the escaped stored name, e.g.
// http://host:8001 + /media/ + images/<uuid>.png.
func ImageURL(base, mediaURL, stored string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(mediaURL, "/") {
		mediaURL = "/" + mediaURL
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return mediaurl.FieldFile{Name: stored, BaseURL: base + mediaURL}.URL()
}

// FromImage converts a stored image to its API representation.
func FromImage(img *store.Image, url URLBuilder) Image {
	if img == nil {
		return Image{}
	}
	dto := Image{
		ID:               img.ID,
		Title:            img.Title,
		Filename:         img.File,
		Size:             img.Size,
		ContentType:      img.ContentType,
		OriginalFilename: img.OriginalFilename,
	}
	if url != nil {
		dto.URL = url(img.File)
	}
	if !img.UploadedAt.IsZero() {
		dto.UploadedAt = img.UploadedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromImages converts a slice of stored images. The result is never nil so
// an empty store encodes as [].
func FromImages(images []*store.Image, url URLBuilder) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		out = append(out, FromImage(img, url))
	}
	return out
}

// FromUpload builds the 201 payload for a freshly stored image.
func FromUpload(img *store.Image, url URLBuilder) UploadResponse {
	dto := FromImage(img, url)
	return UploadResponse{
		ID:               dto.ID,
		Filename:         dto.Filename,
		URL:              dto.URL,
		OriginalFilename: dto.OriginalFilename,
	}
}
