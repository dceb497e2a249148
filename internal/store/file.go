package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/snowoball/statusrota/internal/configapi"
)

// DefaultDebounce coalesces bursts of file events into one change.
const DefaultDebounce = 100 * time.Millisecond

// FileStore keeps each document as <dir>/<resource>.json. Documents may
// contain comments; they are stripped on read. Plain JSON is returned as
// stored.
type FileStore struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	mu       sync.Mutex
}

type FileOption func(*FileStore)

func WithDebounce(d time.Duration) FileOption {
	return func(s *FileStore) { s.debounce = d }
}

func WithLogger(logger *slog.Logger) FileOption {
	return func(s *FileStore) { s.logger = logger }
}

// NewFileStore opens the document directory, creating it if needed.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	s := &FileStore{
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file backing resource.
func (s *FileStore) Path(resource configapi.Resource) string {
	return filepath.Join(s.dir, string(resource)+".json")
}

func (s *FileStore) Read(_ context.Context, resource configapi.Resource) ([]byte, error) {
	data, err := os.ReadFile(s.Path(resource))
	if errors.Is(err, fs.ErrNotExist) {
		return emptyList, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrRead, resource, err)
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		// Hand-edited documents may carry comments.
		data = bytes.TrimSpace(jsonc.ToJSON(data))
	}
	if len(data) == 0 {
		return emptyList, nil
	}
	return data, nil
}

// Write replaces the document atomically through a temporary file in the
// same directory.
func (s *FileStore) Write(_ context.Context, resource configapi.Resource, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+string(resource)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	if err := os.Rename(tmpName, s.Path(resource)); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}
	return nil
}

// Changes watches the document directory. Events within the debounce
// window are reported once per resource.
func (s *FileStore) Changes(ctx context.Context) (<-chan configapi.Resource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting file watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	out := make(chan configapi.Resource, len(configapi.Resources))
	go s.watch(ctx, watcher, out)
	return out, nil
}

func (s *FileStore) watch(ctx context.Context, watcher *fsnotify.Watcher, out chan<- configapi.Resource) {
	defer close(out)
	defer watcher.Close()

	pending := make(map[configapi.Resource]bool)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			resource, ok := resourceForFile(ev.Name)
			if !ok {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				pending[resource] = true
				if flush == nil {
					flush = time.After(s.debounce)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("store_watch_error", "dir", s.dir, "error", err)

		case <-flush:
			flush = nil
			for _, r := range configapi.Resources {
				if !pending[r] {
					continue
				}
				delete(pending, r)
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func resourceForFile(name string) (configapi.Resource, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	r, err := configapi.ParseResource(strings.TrimSuffix(base, ".json"))
	if err != nil {
		return "", false
	}
	return r, true
}

func (s *FileStore) Close() error { return nil }
