// Package watcher reports changes to an outline source on disk, either a
// single file or a directory tree, so the viewer can reload it.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/stickytree/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// MaxWatchedDirs caps how many directories a directory source registers with
// fsnotify. Larger trees fall back to polling.
const MaxWatchedDirs = 4096

// ForcePollEnv forces polling when set to a truthy value.
const ForcePollEnv = "STV_FORCE_POLL"

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched path was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the source changes.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// snapshot is what polling compares between ticks. For a directory it
// aggregates every entry below it.
type snapshot struct {
	mtime   time.Time
	size    int64
	entries int
	exists  bool
}

func (s snapshot) differs(o snapshot) bool {
	return s.exists != o.exists || !s.mtime.Equal(o.mtime) || s.size != o.size || s.entries != o.entries
}

// Watcher monitors a file or directory using fsnotify with polling fallback.
type Watcher struct {
	path             string
	isDir            bool
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool
	forcePollEnv     bool
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	last        snapshot

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewWatcher creates a new watcher for the given file or directory.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.useFallback = false
	w.forcePollEnv = envBool(ForcePollEnv)
	w.fsType = detectFilesystemTypeFunc(w.path)
	if isRemoteFilesystem(w.fsType) {
		w.useFallback = true
	}
	forcePoll := w.forcePoll || w.forcePollEnv
	if forcePoll {
		w.useFallback = true
	}

	info, err := os.Stat(w.path)
	if err != nil && os.IsPermission(err) {
		return ErrPermission
	}
	w.isDir = err == nil && info.IsDir()
	w.last = w.takeSnapshot()

	if !w.useFallback {
		if fsw, err := w.newFsnotify(); err == nil {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		} else {
			debug.Log("watcher: fsnotify unavailable for %s: %v", w.path, err)
			w.useFallback = true
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	debug.Log("watcher: started on %s (dir=%v, fs=%s, polling=%v)", w.path, w.isDir, w.fsType, w.useFallback)
	w.started = true
	return nil
}

// newFsnotify registers the watch set. A file source watches its parent
// directory so atomic renames are seen; a directory source watches every
// directory below it.
func (w *Watcher) newFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := []string{filepath.Dir(w.path)}
	if w.isDir {
		dirs, err = listDirs(w.path, MaxWatchedDirs)
		if err != nil {
			fsw.Close()
			return nil, err
		}
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fsw, nil
}

var errTooManyDirs = errors.New("too many directories to watch")

func listDirs(root string, limit int) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		if len(dirs) > limit {
			return errTooManyDirs
		}
		return nil
	})
	return dirs, err
}

// Stop stops watching.
// The change channel is not closed: a goroutine blocked in WatchCmd would
// otherwise wake up with a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when the source changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the best-effort filesystem classification for the watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// relevant reports whether an fsnotify event concerns the watched source.
func (w *Watcher) relevant(name string) bool {
	if !w.isDir {
		return filepath.Base(name) == filepath.Base(w.path)
	}
	rel, err := filepath.Rel(w.path, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." {
			return false
		}
	}
	return true
}

func (w *Watcher) watchFsnotify() {
	// Capture channel references to avoid racing Stop() setting fsWatcher to nil.
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	fsw := w.fsWatcher
	events := fsw.Events
	errs := fsw.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}

			switch {
			case event.Name == w.path && event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0:
				if w.isDir && event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						// New subdirectories join the watch set.
						_ = fsw.Add(event.Name)
					}
				}
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// takeSnapshot stats the source. Directories aggregate the newest mtime,
// total size and entry count of everything visible below them.
func (w *Watcher) takeSnapshot() snapshot {
	info, err := os.Stat(w.path)
	if err != nil {
		return snapshot{}
	}
	s := snapshot{mtime: info.ModTime(), size: info.Size(), exists: true}
	if !info.IsDir() {
		return s
	}
	s.size = 0
	_ = filepath.WalkDir(w.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p != w.path && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		s.entries++
		if fi.ModTime().After(s.mtime) {
			s.mtime = fi.ModTime()
		}
		if !d.IsDir() {
			s.size += fi.Size()
		}
		return nil
	})
	return s
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			if _, err := os.Stat(w.path); err != nil {
				if os.IsNotExist(err) {
					w.mu.Lock()
					hadFile := w.last.exists
					w.last = snapshot{}
					w.mu.Unlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				} else if os.IsPermission(err) {
					w.onError(ErrPermission)
				} else {
					w.onError(err)
				}
				continue
			}

			cur := w.takeSnapshot()
			w.mu.Lock()
			changed := cur.differs(w.last)
			w.last = cur
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	if !started {
		return
	}

	debug.Log("watcher: change in %s", w.path)
	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
