package service

import (
	"context"
	"sync"
	"testing"

	"github.com/snowoball/statusrota/internal/store"
	"github.com/snowoball/statusrota/internal/testutil"
)

func setupClient(t *testing.T) (*store.Local, *store.SQLiteStore) {
	t.Helper()
	st := testutil.NewTestStore(t)
	return testutil.NewTestClient(st), st
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}
