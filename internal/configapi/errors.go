package configapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps every failure to reach the configuration service or
	// to get a usable answer from it.
	ErrTransport = errors.New("config service transport failure")

	// ErrUnavailable indicates the configuration service could not be reached.
	ErrUnavailable = fmt.Errorf("%w: service unavailable", ErrTransport)

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrTransport)

	// ErrStatus indicates a non-success HTTP response.
	ErrStatus = fmt.Errorf("%w: unexpected response status", ErrTransport)

	// ErrDecode indicates a response body that is not the expected JSON list.
	ErrDecode = fmt.Errorf("%w: malformed response", ErrTransport)

	// ErrUnknownResource indicates a collection name outside Resources.
	ErrUnknownResource = errors.New("unknown configuration resource")
)

// ErrInvalidShape indicates a document that does not decode as the
// resource's list type.
var ErrInvalidShape = errors.New("document does not match resource shape")
