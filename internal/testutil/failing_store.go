package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/store"
)

// ErrInjected is the default failure returned by FailingStore.
var ErrInjected = errors.New("injected store failure")

// FailingStore wraps a store and fails writes while FailWrites is set.
// Reads pass through.
type FailingStore struct {
	store.Store
	FailWrites atomic.Bool
	Err        error
	Writes     atomic.Int32
}

func NewFailingStore(inner store.Store) *FailingStore {
	return &FailingStore{Store: inner, Err: ErrInjected}
}

func (s *FailingStore) Write(ctx context.Context, resource configapi.Resource, body []byte) error {
	s.Writes.Add(1)
	if s.FailWrites.Load() {
		return s.Err
	}
	return s.Store.Write(ctx, resource, body)
}
