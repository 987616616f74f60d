package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mediadock/internal/api"
	"mediadock/internal/store"
)

func TestImageURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		mediaURL string
		stored   string
		want     string
	}{
		{name: "plain", base: "http://localhost:8001", mediaURL: "/media/", stored: "images/a.png", want: "http://localhost:8001/media/images/a.png"},
		{name: "trailing slash base", base: "https://cdn.example/", mediaURL: "/media/", stored: "images/a.png", want: "https://cdn.example/media/images/a.png"},
		{name: "bare media url", base: "http://h", mediaURL: "files", stored: "images/a.png", want: "http://h/files/images/a.png"},
		{name: "escaped name", base: "http://h", mediaURL: "/media/", stored: "images/a b.png", want: "http://h/media/images/a%20b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := api.ImageURL(tt.base, tt.mediaURL, tt.stored); got != tt.want {
				t.Fatalf("ImageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromImage(t *testing.T) {
	img := &store.Image{
		ID:               "2f1c7a52-0b5e-4f5f-9a53-7d3c0c7e9a10",
		Title:            "Cat",
		File:             "images/2f1c7a52-0b5e-4f5f-9a53-7d3c0c7e9a10.png",
		OriginalFilename: "cat.png",
		ContentType:      "image/png",
		Size:             42,
		UploadedAt:       time.Date(2024, 5, 1, 12, 30, 0, 500000000, time.UTC),
	}
	url := func(stored string) string { return api.ImageURL("http://h", "/media/", stored) }

	want := api.Image{
		ID:               img.ID,
		Title:            "Cat",
		Filename:         img.File,
		Size:             42,
		ContentType:      "image/png",
		URL:              "http://h/media/" + img.File,
		OriginalFilename: "cat.png",
		UploadedAt:       "2024-05-01T12:30:00.500000Z",
	}
	if diff := cmp.Diff(want, api.FromImage(img, url)); diff != "" {
		t.Fatalf("FromImage mismatch (-want +got):\n%s", diff)
	}

	upload := api.FromUpload(img, url)
	if upload.ID != img.ID || upload.Filename != img.File || upload.URL != want.URL || upload.OriginalFilename != "cat.png" {
		t.Fatalf("unexpected upload payload %#v", upload)
	}
}

func TestFromImagesEncodesEmptyAsArray(t *testing.T) {
	data, err := json.Marshal(api.FromImages(nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}
