package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediadock/internal/logging"
	"mediadock/internal/metrics"
	"mediadock/internal/store"
)

// ErrNotFound reports a malformed id, an unknown id or a missing file.
var ErrNotFound = errors.New("image not found")

// storedDir is the directory, relative to the media root, holding uploads.
const storedDir = "images"

// Store abstracts the metadata persistence used by the service.
type Store interface {
	InsertImage(ctx context.Context, img *store.Image) error
	GetImage(ctx context.Context, id string) (*store.Image, error)
	GetImageByFile(ctx context.Context, file string) (*store.Image, error)
	ListImages(ctx context.Context) ([]*store.Image, error)
	DeleteImage(ctx context.Context, id string, finalize func(*store.Image) error) (bool, error)
}

// Service stores and serves image files.
type Service struct {
	store     Store
	mediaRoot string
	logger    *slog.Logger
	metrics   *metrics.Registry
	now       func() time.Time
}

// NewService builds a service rooted at mediaRoot.
func NewService(st Store, mediaRoot string, logger *slog.Logger, reg *metrics.Registry) *Service {
	return &Service{
		store:     st,
		mediaRoot: mediaRoot,
		logger:    logging.NewComponentLogger(logger, "images"),
		metrics:   reg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Upload describes one incoming file.
type Upload struct {
	Title       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// Upload writes the file under a fresh UUID name and records its metadata.
// The file is removed again when the metadata insert fails.
func (s *Service) Upload(ctx context.Context, up Upload) (*store.Image, error) {
	if up.Body == nil {
		return nil, errors.New("upload: no file body")
	}
	id := uuid.NewString()
	name := StoredName(id, up.Filename)
	target := filepath.Join(s.mediaRoot, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	size, copyErr := io.Copy(f, up.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(target)
		if copyErr != nil {
			return nil, fmt.Errorf("write image file: %w", copyErr)
		}
		return nil, fmt.Errorf("close image file: %w", closeErr)
	}

	title := strings.TrimSpace(up.Title)
	if title == "" {
		title = up.Filename
	}
	img := &store.Image{
		ID:               id,
		Title:            title,
		File:             name,
		OriginalFilename: up.Filename,
		ContentType:      contentType(up.ContentType, up.Filename),
		Size:             size,
		UploadedAt:       s.now(),
	}
	if err := s.store.InsertImage(ctx, img); err != nil {
		if rmErr := os.Remove(target); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.log(ctx).Warn("failed to remove orphaned upload", logging.String("path", target), logging.Error(rmErr))
		}
		return nil, err
	}

	s.metrics.ImageStored(size)
	s.log(ctx).Info("image stored",
		logging.String(logging.FieldImageID, id),
		logging.String("file", name),
		logging.Int64("bytes", size),
	)
	return img, nil
}

// Get returns the metadata of one image.
func (s *Service) Get(ctx context.Context, rawID string) (*store.Image, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrNotFound
	}
	img, err := s.store.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrNotFound
	}
	return img, nil
}

// List returns every image, newest first.
func (s *Service) List(ctx context.Context) ([]*store.Image, error) {
	return s.store.ListImages(ctx)
}

// Open returns the metadata and an open handle on the file of one image.
// The caller closes the file.
func (s *Service) Open(ctx context.Context, rawID string) (*store.Image, *os.File, error) {
	img, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, nil, err
	}
	p, ok := s.localPath(img.File)
	if !ok {
		return nil, nil, ErrNotFound
	}
	f, err := openRegular(p)
	if err != nil {
		return nil, nil, err
	}
	return img, f, nil
}

// OpenByFilename opens a stored file by name. An optional "images/" or
// "/images/" prefix is stripped; names that are empty or would leave the
// images directory are reported as ErrNotFound. Existence is decided on disk.
// The returned name is the original upload filename when a metadata row
// exists for the file, and the bare stored name otherwise.
func (s *Service) OpenByFilename(ctx context.Context, filename string) (*os.File, string, error) {
	name := strings.TrimPrefix(filename, "/")
	name = strings.TrimPrefix(name, storedDir+"/")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return nil, "", ErrNotFound
	}
	f, err := openRegular(filepath.Join(s.mediaRoot, storedDir, name))
	if err != nil {
		return nil, "", err
	}
	img, err := s.store.GetImageByFile(ctx, path.Join(storedDir, name))
	if err != nil {
		s.log(ctx).Warn("image metadata lookup failed", logging.String("file", name), logging.Error(err))
	} else if img != nil && img.OriginalFilename != "" {
		return f, img.OriginalFilename, nil
	}
	return f, name, nil
}

// Delete removes the metadata row and the file together. When the file cannot
// be removed the row is kept.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, ok := parseID(rawID)
	if !ok {
		return ErrNotFound
	}
	found, err := s.store.DeleteImage(ctx, id, func(img *store.Image) error {
		p, ok := s.localPath(img.File)
		if !ok {
			return nil
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove image file: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.metrics.ImageDeleted()
	s.log(ctx).Info("image deleted", logging.String(logging.FieldImageID, id))
	return nil
}

// StoredName returns images/<id>.<ext>, taking ext from the text after the
// last dot of the original filename. Names without a usable extension get
// no suffix.
func StoredName(id, original string) string {
	ext := ""
	if i := strings.LastIndex(original, "."); i >= 0 {
		ext = original[i+1:]
	}
	if ext == "" || !isSafeExt(ext) {
		return path.Join(storedDir, id)
	}
	return path.Join(storedDir, id+"."+ext)
}

func isSafeExt(ext string) bool {
	for _, r := range ext {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func parseID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func contentType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

// localPath maps a stored name to a path under the media root.
func (s *Service) localPath(stored string) (string, bool) {
	clean := path.Clean("/" + stored)
	if clean == "/" {
		return "", false
	}
	return filepath.Join(s.mediaRoot, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), true
}

func openRegular(p string) (*os.File, error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image file: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}
