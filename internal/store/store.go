// Package store keeps the three configuration documents (settings, presets,
// statuses) as whole JSON lists and reports when one changes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/snowoball/statusrota/internal/configapi"
)

// Store reads and replaces configuration documents. A document that was
// never written reads as an empty list.
type Store interface {
	Read(ctx context.Context, resource configapi.Resource) ([]byte, error)
	Write(ctx context.Context, resource configapi.Resource, body []byte) error

	// Changes reports each resource whose document changed, until ctx is
	// done. The channel is closed afterwards.
	Changes(ctx context.Context) (<-chan configapi.Resource, error)

	Close() error
}

var (
	// ErrRead indicates a document could not be loaded.
	ErrRead = errors.New("reading configuration document")

	// ErrWrite indicates a document could not be replaced.
	ErrWrite = errors.New("writing configuration document")
)

var emptyList = []byte("[]")

// Driver names a Store implementation.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// Options selects and configures a Store for Open.
type Options struct {
	Driver     Driver
	Dir        string
	SQLitePath string
}

// Open creates the store selected by opts.Driver.
func Open(opts Options, fileOpts ...FileOption) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Dir, fileOpts...)
	case DriverSQLite:
		return OpenSQLiteStore(opts.SQLitePath)
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
