package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before it is
// processed.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is called with the watched path whenever its content changes.
type ChangeFunc func(path string) error

// Watcher calls a ChangeFunc whenever a transaction file's content changes.
// It watches the parent directory so editors that save by rename are seen,
// debounces bursts of writes, and skips events that leave the content hash
// unchanged.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	onChange ChangeFunc
	logger   *slog.Logger

	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu   sync.Mutex
	hash string
	runs int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher for path.
func New(path string, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch path cannot be empty")
	}
	if onChange == nil {
		return nil, errors.New("change callback cannot be nil")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   slog.Default(),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Runs returns how many times the callback has been invoked.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Start processes the file once if it exists, then watches it until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	w.process()

	w.wg.Add(1)
	go w.run()

	w.logger.Info("watching transaction file", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop halts the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	// settle is nil until an event arrives; every further event pushes the
	// deadline back by the debounce delay.
	var timer *time.Timer
	var settle <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debug("transaction file event", "path", w.path, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			settle = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)

		case <-settle:
			settle = nil
			w.process()

		case <-w.stopCh:
			return
		}
	}
}

// process hashes the file and calls onChange when the hash differs from
// the last one seen.
func (w *Watcher) process() {
	content, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Warn("transaction file missing, waiting for it to appear", "path", w.path)
			w.mu.Lock()
			w.hash = ""
			w.mu.Unlock()
			return
		}
		w.logger.Warn("failed to read transaction file", "path", w.path, "error", err)
		return
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	w.mu.Lock()
	if hash == w.hash {
		w.mu.Unlock()
		w.logger.Debug("transaction file unchanged", "path", w.path)
		return
	}
	w.hash = hash
	w.runs++
	w.mu.Unlock()

	if err := w.onChange(w.path); err != nil {
		w.logger.Error("change handler failed", "path", w.path, "error", err)
	}
}
