package editor

import "errors"

// ErrUnknownRow is returned when a handler names a row that is not rendered.
var ErrUnknownRow = errors.New("unknown rule row")
