package storage

import "errors"

// ErrNotFound means the requested record does not exist.
var ErrNotFound = errors.New("not found")
