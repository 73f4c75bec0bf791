// Package watcher reports changes to the seed CSV so the terminal UI can
// rebuild the chart without a restart.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/orgchart/pkg/debug"
)

// DefaultPollInterval is the stat interval in polling mode.
const DefaultPollInterval = 2 * time.Second

// ForcePollEnvVar forces stat polling, for network mounts where inotify
// events never arrive.
const ForcePollEnvVar = "ORGCHART_FORCE_POLL"

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the quiet period before a change is reported.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.interval = d }
}

// WithOnChange registers a callback run on every reported change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError registers a callback for removal, permission and fsnotify
// errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) { w.forcePoll = force }
}

// fileState is what polling compares between ticks.
type fileState struct {
	exists bool
	mod    time.Time
	size   int64
}

func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, err
	}
	return fileState{exists: true, mod: info.ModTime(), size: info.Size()}, nil
}

func (s fileState) differs(o fileState) bool {
	return s.exists != o.exists || !s.mod.Equal(o.mod) || s.size != o.size
}

// Watcher watches one file, through fsnotify on its parent directory or by
// polling when notifications are unavailable.
type Watcher struct {
	path      string
	debounce  time.Duration
	interval  time.Duration
	forcePoll bool
	onChange  func()
	onError   func(error)

	changes   chan struct{}
	debouncer *Debouncer

	mu      sync.Mutex
	running bool
	polling bool
	last    fileState
	notify  *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher returns an unstarted watcher for path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounceDuration,
		interval: DefaultPollInterval,
		onChange: func() {},
		onError:  func(error) {},
		changes:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching until ctx is cancelled or Stop is called. A file
// that does not exist yet is reported once it appears.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}

	st, err := statFile(w.path)
	if err != nil && os.IsPermission(err) {
		return ErrPermission
	}
	w.last = st

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.polling = w.forcePoll || envBool(ForcePollEnvVar)
	if !w.polling {
		n, err := w.openNotify()
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.notify = n
		}
	}

	if w.polling {
		go w.poll(ctx, w.done)
	} else {
		go w.listen(ctx, w.notify, w.done)
	}
	w.running = true
	return nil
}

// openNotify watches the parent directory so replace-by-rename saves from
// spreadsheet tools are seen.
func (w *Watcher) openNotify() (*fsnotify.Watcher, error) {
	n, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := n.Add(filepath.Dir(w.path)); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// Stop ends the watch. Changed stays open so a blocked receiver does not
// spin on a closed channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	if w.notify != nil {
		w.notify.Close()
		w.notify = nil
	}
	done := w.done
	w.mu.Unlock()

	<-done
	w.debouncer.Cancel()
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Changed delivers one value per debounced change. Sends never block; a
// change seen while a value is pending is merged into it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changes
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) listen(ctx context.Context, n *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				w.onError(ErrFileRemoved)
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.debouncer.Trigger(w.fire)
			}
		case err, ok := <-n.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check compares the file against the last seen state.
func (w *Watcher) check() {
	st, err := statFile(w.path)
	w.mu.Lock()
	prev := w.last
	if err == nil || os.IsNotExist(err) {
		w.last = st
	}
	w.mu.Unlock()

	switch {
	case err == nil:
		if st.differs(prev) {
			w.debouncer.Trigger(w.fire)
		}
	case os.IsNotExist(err):
		if prev.exists {
			w.onError(ErrFileRemoved)
		}
	case os.IsPermission(err):
		w.onError(ErrPermission)
	default:
		w.onError(err)
	}
}

func (w *Watcher) fire() {
	if !w.IsStarted() {
		return
	}
	w.onChange()
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
