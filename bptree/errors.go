package bptree

import "errors"

// ErrKeyExists is returned by Add when the key is already present and the
// caller asked for strict uniqueness instead of update-on-duplicate.
var ErrKeyExists = errors.New("bptree: key already exists")
