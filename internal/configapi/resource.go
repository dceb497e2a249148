// Package configapi reads and replaces whole configuration collections.
//
// A collection is always transferred as one JSON list: there are no partial
// updates. Replace returns the stored state as echoed by the backing service.
package configapi

import (
	"context"
	"fmt"
	"slices"
)

// Resource names a configuration collection.
type Resource string

const (
	Settings Resource = "settings"
	Presets  Resource = "presets"
	Statuses Resource = "statuses"
)

// Resources lists every known collection.
var Resources = []Resource{Settings, Presets, Statuses}

// ParseResource validates name as a collection name.
func ParseResource(name string) (Resource, error) {
	r := Resource(name)
	if !slices.Contains(Resources, r) {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return r, nil
}

// Client fetches and replaces collections. dst must be a pointer to the
// collection's list type.
type Client interface {
	// Fetch decodes the stored collection into dst.
	Fetch(ctx context.Context, resource Resource, dst any) error

	// Replace overwrites the collection with records and decodes the stored
	// state into dst. A nil dst discards the echo.
	Replace(ctx context.Context, resource Resource, records any, dst any) error
}
