package store

import "time"

// Image is the metadata of one stored image file.
type Image struct {
	ID               string
	Title            string
	File             string // stored name relative to the media root, e.g. images/<uuid>.png
	OriginalFilename string
	ContentType      string
	Size             int64
	UploadedAt       time.Time
}

// User is an account that can authenticate against the image API.
type User struct {
	ID        int64
	Username  string
	IsActive  bool
	Image     string // profile image: stored name or URL, empty when unset
	CreatedAt time.Time
}

// Token is an opaque API key owned by exactly one user.
type Token struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}

type imageRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	File             string `db:"file"`
	OriginalFilename string `db:"original_filename"`
	ContentType      string `db:"content_type"`
	Size             int64  `db:"size"`
	UploadedAt       string `db:"uploaded_at"`
}

func (r imageRow) image() *Image {
	return &Image{
		ID:               r.ID,
		Title:            r.Title,
		File:             r.File,
		OriginalFilename: r.OriginalFilename,
		ContentType:      r.ContentType,
		Size:             r.Size,
		UploadedAt:       parseTime(r.UploadedAt),
	}
}

type userRow struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	IsActive  bool   `db:"is_active"`
	Image     string `db:"image"`
	CreatedAt string `db:"created_at"`
}

func (r userRow) user() *User {
	return &User{
		ID:        r.ID,
		Username:  r.Username,
		IsActive:  r.IsActive,
		Image:     r.Image,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

const (
	imageColumns = "id, title, file, original_filename, content_type, size, uploaded_at"
	userColumns  = "id, username, is_active, image, created_at"
)
