package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is not visible to
// the requesting user. Callers must not distinguish the two cases.
var ErrNotFound = errors.New("not found")
