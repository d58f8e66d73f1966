package cache

import "errors"

// ErrNotFound is returned by GetJSON when the key has no live entry.
var ErrNotFound = errors.New("not found")
