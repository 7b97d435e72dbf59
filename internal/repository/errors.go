package repository

import "errors"

// ErrNotFound is returned when a row does not exist for the caller's
// user. Services map it to a 404.
var ErrNotFound = errors.New("not found")
