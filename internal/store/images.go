package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// InsertImage records a new image. UploadedAt defaults to now.
func (s *Store) InsertImage(ctx context.Context, img *Image) error {
	if img == nil {
		return errors.New("insert image: nil image")
	}
	if strings.TrimSpace(img.ID) == "" || strings.TrimSpace(img.File) == "" {
		return errors.New("insert image: id and file are required")
	}
	if img.UploadedAt.IsZero() {
		img.UploadedAt = time.Now().UTC()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO images (`+imageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.Title, img.File, img.OriginalFilename, img.ContentType, img.Size, formatTime(img.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

// GetImage fetches an image by id. It returns nil, nil when no row matches.
func (s *Store) GetImage(ctx context.Context, id string) (*Image, error) {
	var row imageRow
	err := s.db.GetContext(ensureContext(ctx), &row, `SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return row.image(), nil
}

// GetImageByFile fetches an image by its stored name. It returns nil, nil
// when no row matches.
func (s *Store) GetImageByFile(ctx context.Context, file string) (*Image, error) {
	var row imageRow
	err := s.db.GetContext(ensureContext(ctx), &row, `SELECT `+imageColumns+` FROM images WHERE file = ?`, file)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image by file: %w", err)
	}
	return row.image(), nil
}

// ListImages returns every image, newest first.
func (s *Store) ListImages(ctx context.Context) ([]*Image, error) {
	var rows []imageRow
	if err := s.db.SelectContext(ensureContext(ctx), &rows,
		`SELECT `+imageColumns+` FROM images ORDER BY uploaded_at DESC, id`,
	); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	images := make([]*Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.image())
	}
	return images, nil
}

// ImageStats summarizes stored images.
type ImageStats struct {
	Count      int64 `db:"count"`
	TotalBytes int64 `db:"total_bytes"`
}

// ImageStats returns the number of images and their combined size.
func (s *Store) ImageStats(ctx context.Context) (ImageStats, error) {
	var stats ImageStats
	if err := s.db.GetContext(ensureContext(ctx), &stats,
		`SELECT COUNT(1) AS count, COALESCE(SUM(size), 0) AS total_bytes FROM images`,
	); err != nil {
		return ImageStats{}, fmt.Errorf("image stats: %w", err)
	}
	return stats, nil
}

// DeleteImage removes the image row with the given id and then calls finalize
// with the deleted metadata inside the same transaction. When finalize fails
// the deletion is rolled back and its error returned. The boolean reports
// whether a row existed.
func (s *Store) DeleteImage(ctx context.Context, id string, finalize func(*Image) error) (bool, error) {
	ctx = ensureContext(ctx)
	found := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		found = false
		var row imageRow
		err := tx.GetContext(ctx, &row, `SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load image: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
		found = true
		if finalize != nil {
			return finalize(row.image())
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
