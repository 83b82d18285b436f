package repositories

import "errors"

// ErrNotFound marks lookups for rows that do not exist, as opposed to
// infrastructure failures. Callers discriminate with errors.Is.
var ErrNotFound = errors.New("record not found")
