package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/snowoball/statusrota/internal/configapi"
)

// Local serves the configapi.Client contract straight from a Store, for
// editing without a running server.
type Local struct {
	store Store
}

var _ configapi.Client = (*Local)(nil)

func NewLocal(store Store) *Local {
	return &Local{store: store}
}

func (l *Local) Fetch(ctx context.Context, resource configapi.Resource, dst any) error {
	if _, err := configapi.ParseResource(string(resource)); err != nil {
		return err
	}
	body, err := l.store.Read(ctx, resource)
	if err != nil {
		return fmt.Errorf("%w: %v", configapi.ErrTransport, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", configapi.ErrDecode, resource, err)
	}
	return nil
}

// Replace writes records in the same canonical form the server stores and
// reads the stored document back into dst.
func (l *Local) Replace(ctx context.Context, resource configapi.Resource, records any, dst any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", resource, err)
	}
	body, err := configapi.Canonicalize(resource, data)
	if err != nil {
		return err
	}
	if err := l.store.Write(ctx, resource, body); err != nil {
		return fmt.Errorf("%w: %v", configapi.ErrTransport, err)
	}
	if dst == nil {
		return nil
	}
	return l.Fetch(ctx, resource, dst)
}
