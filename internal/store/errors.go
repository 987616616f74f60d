package store

import "errors"

var (
	// ErrNotFound is returned by updates that target a missing row.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")
)
