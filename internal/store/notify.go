package store

import (
	"context"
	"sync"

	"github.com/snowoball/statusrota/internal/configapi"
)

// notifier fans change notifications out to subscribers. Slow subscribers
// miss notifications instead of blocking writers.
type notifier struct {
	mu   sync.Mutex
	subs map[chan configapi.Resource]struct{}
}

func (n *notifier) subscribe(ctx context.Context) <-chan configapi.Resource {
	ch := make(chan configapi.Resource, len(configapi.Resources))

	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[chan configapi.Resource]struct{})
	}
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch
}

func (n *notifier) publish(resource configapi.Resource) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- resource:
		default:
		}
	}
}
