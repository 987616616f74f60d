package images_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mediadock/internal/images"
	"mediadock/internal/metrics"
	"mediadock/internal/store"
	"mediadock/internal/testsupport"
)

func newService(t *testing.T) (*images.Service, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return images.NewService(st, cfg.Paths.MediaRoot, nil, metrics.New()), cfg.Paths.MediaRoot
}

func TestStoredName(t *testing.T) {
	const id = "11111111-2222-3333-4444-555555555555"
	tests := []struct {
		original string
		want     string
	}{
		{original: "cat.png", want: "images/" + id + ".png"},
		{original: "archive.tar.gz", want: "images/" + id + ".gz"},
		{original: "README", want: "images/" + id},
		{original: "trailing.", want: "images/" + id},
		{original: "weird.p/ng", want: "images/" + id},
		{original: "", want: "images/" + id},
	}
	for _, tt := range tests {
		if got := images.StoredName(id, tt.original); got != tt.want {
			t.Fatalf("StoredName(%q) = %q, want %q", tt.original, got, tt.want)
		}
	}
}

func TestUploadWritesFileAndMetadata(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, images.Upload{Filename: "cat.png", Body: strings.NewReader("pixels")})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if _, err := uuid.Parse(img.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", img.ID)
	}
	if img.File != "images/"+img.ID+".png" {
		t.Fatalf("unexpected stored name %q", img.File)
	}
	if img.Title != "cat.png" || img.OriginalFilename != "cat.png" {
		t.Fatalf("unexpected title/original %q/%q", img.Title, img.OriginalFilename)
	}
	if img.ContentType != "image/png" || img.Size != int64(len("pixels")) {
		t.Fatalf("unexpected content type/size %q/%d", img.ContentType, img.Size)
	}
	data, err := os.ReadFile(filepath.Join(root, "images", img.ID+".png"))
	if err != nil || string(data) != "pixels" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	fetched, err := svc.Get(ctx, img.ID)
	if err != nil || fetched.ID != img.ID {
		t.Fatalf("Get = %#v, %v", fetched, err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}
}

type failingStore struct {
	images.Store
}

func (failingStore) InsertImage(context.Context, *store.Image) error {
	return errors.New("disk full")
}

func TestUploadRemovesFileWhenInsertFails(t *testing.T) {
	root := t.TempDir()
	svc := images.NewService(failingStore{}, root, nil, nil)

	if _, err := svc.Upload(context.Background(), images.Upload{Filename: "a.jpg", Body: strings.NewReader("x")}); err == nil {
		t.Fatal("expected insert error")
	}
	entries, err := os.ReadDir(filepath.Join(root, "images"))
	if err != nil {
		t.Fatalf("read images dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected orphaned file to be removed, found %d entries", len(entries))
	}
}

func TestLookupsCollapseMalformedAndMissingIDs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, id := range []string{"not-a-uuid", uuid.NewString(), ""} {
		if _, err := svc.Get(ctx, id); !errors.Is(err, images.ErrNotFound) {
			t.Fatalf("Get(%q) error = %v", id, err)
		}
		if _, _, err := svc.Open(ctx, id); !errors.Is(err, images.ErrNotFound) {
			t.Fatalf("Open(%q) error = %v", id, err)
		}
		if err := svc.Delete(ctx, id); !errors.Is(err, images.ErrNotFound) {
			t.Fatalf("Delete(%q) error = %v", id, err)
		}
	}
}

func TestOpenAndOpenByFilename(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()
	img, err := svc.Upload(ctx, images.Upload{Filename: "dog.gif", Body: strings.NewReader("gif")})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	meta, f, err := svc.Open(ctx, img.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	body, _ := io.ReadAll(f)
	f.Close()
	if meta.ID != img.ID || string(body) != "gif" {
		t.Fatalf("Open returned %#v %q", meta, body)
	}

	bare := strings.TrimPrefix(img.File, "images/")
	for _, name := range []string{bare, "images/" + bare, "/images/" + bare} {
		f, got, err := svc.OpenByFilename(ctx, name)
		if err != nil {
			t.Fatalf("OpenByFilename(%q) failed: %v", name, err)
		}
		f.Close()
		if got != "dog.gif" {
			t.Fatalf("OpenByFilename(%q) name = %q", name, got)
		}
	}

	// Files without a metadata row are still served under their stored name.
	if err := os.WriteFile(filepath.Join(root, "images", "loose.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write loose file: %v", err)
	}
	f, got, err := svc.OpenByFilename(ctx, "loose.png")
	if err != nil {
		t.Fatalf("OpenByFilename(loose.png) failed: %v", err)
	}
	f.Close()
	if got != "loose.png" {
		t.Fatalf("OpenByFilename(loose.png) name = %q", got)
	}

	for _, name := range []string{"", "images/", "../mediadock.db", "images/../../etc/passwd", "..", "missing.png"} {
		if _, _, err := svc.OpenByFilename(ctx, name); !errors.Is(err, images.ErrNotFound) {
			t.Fatalf("OpenByFilename(%q) error = %v", name, err)
		}
	}
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()
	img, err := svc.Upload(ctx, images.Upload{Filename: "x.png", Body: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := svc.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(img.File))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	if _, err := svc.Get(ctx, img.ID); !errors.Is(err, images.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	svc, root := newService(t)
	ctx := context.Background()
	img, err := svc.Upload(ctx, images.Upload{Filename: "x.png", Body: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := os.Remove(filepath.Join(root, filepath.FromSlash(img.File))); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
