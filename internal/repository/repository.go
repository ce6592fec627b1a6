package repository

import "errors"

var (
	// ErrNotFound indicates a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a unique index rejected the write.
	ErrAlreadyExists = errors.New("record already exists")
)
