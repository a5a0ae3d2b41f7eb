// Package watcher reports changes to the grievance data file, using fsnotify
// when available and falling back to polling otherwise.
package watcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when fsnotify cannot watch the directory
const DefaultPollInterval = time.Second

// Watcher calls onChange after the watched file is created, written,
// replaced or removed
type Watcher struct {
	path         string
	onChange     func()
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	logger       *slog.Logger

	fsw      *fsnotify.Watcher
	deb      *debouncer
	done     chan struct{}
	wg       sync.WaitGroup
	polling  bool
	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling period used without fsnotify
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithPolling skips fsnotify entirely
func WithPolling() Option {
	return func(w *Watcher) { w.forcePoll = true }
}

// WithLogger sets the logger for watch errors
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, onChange func(), opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch path is required")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	w := &Watcher{
		path:         abs,
		onChange:     onChange,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.pollInterval <= 0 {
		w.pollInterval = DefaultPollInterval
	}
	w.deb = newDebouncer(w.debounce, w.onChange)
	return w, nil
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	if w.started {
		return errors.New("watcher already started")
	}
	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	w.started = true

	if !w.forcePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			// Watch the directory: atomic saves replace the file, which drops
			// a watch placed on the file itself.
			if err = fsw.Add(dir); err == nil {
				w.fsw = fsw
				w.wg.Add(1)
				go w.watchEvents()
				return nil
			}
			fsw.Close()
		}
		w.logger.Warn("file notifications unavailable, polling instead", "path", w.path, "error", err)
	}

	w.polling = true
	w.wg.Add(1)
	go w.poll()
	return nil
}

// Polling reports whether the watcher fell back to polling
func (w *Watcher) Polling() bool {
	return w.polling
}

// Stop ends watching and drops any pending notification
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
		w.wg.Wait()
		w.deb.cancel()
	})
}

func (w *Watcher) watchEvents() {
	defer w.wg.Done()
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&relevant == 0 {
				continue
			}
			w.logger.Debug("data file changed", "op", ev.Op.String())
			w.deb.trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", "path", w.path, "error", err)
		}
	}
}

// fileState is what polling compares between ticks
type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func (s fileState) equal(o fileState) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (w *Watcher) poll() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	last := stat(w.path)
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := stat(w.path)
			if !cur.equal(last) {
				last = cur
				w.deb.trigger()
			}
		}
	}
}
