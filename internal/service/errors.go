package service

import "errors"

// ErrNoSuchEntry indicates an index outside the collection being edited.
var ErrNoSuchEntry = errors.New("no such entry")
