// Package fswatch mirrors a directory into a tree view. A watcher
// goroutine turns filesystem notifications into messages on the UI's bus;
// the Browser widget applies them on the UI thread.
package fswatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/logging"
)

// DefaultDelay is how long bursts of filesystem activity are coalesced.
const DefaultDelay = 100 * time.Millisecond

// Op is the coarse kind of a change.
type Op uint8

const (
	Created  Op = iota // a file or directory appeared
	Removed            // a file or directory disappeared or was renamed away
	Modified           // file contents changed
	Rescan             // the watcher lost track; reload everything
)

func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "rescan"
	}
}

// Changed is the message payload the watcher sends. Path is absolute and
// cleaned; it is empty for Rescan.
type Changed struct {
	Op   Op
	Path string
}

// ChangedMsg builds a Changed message.
func ChangedMsg(dest arbor.Handle, op Op, path string) *arbor.Message {
	return arbor.NewMessage(dest, arbor.ToWidget, Changed{Op: op, Path: path})
}

// Watcher watches a directory tree. Start it with Watch.
type Watcher struct {
	dir   string
	dest  arbor.Handle
	out   arbor.Sender
	delay time.Duration
	log   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides the coalescing delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// Watch starts watching dir and sends Changed messages addressed to dest
// through out until ctx is cancelled. It returns once the watcher is set
// up. Setup errors are returned; callers typically log them and carry on
// without live updates.
func Watch(ctx context.Context, dir string, out arbor.Sender, dest arbor.Handle, opts ...Option) error {
	w := &Watcher{dest: dest, out: out, delay: DefaultDelay}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.For(w.log, "fswatch")

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("fswatch: resolve %s: %w", dir, err)
	}
	w.dir = abs

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fswatch: create watcher: %w", err)
	}
	dirs, err := collectDirs(w.dir)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("fswatch: enumerate directories: %w", err)
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			watcher.Close()
			return fmt.Errorf("fswatch: watch %s: %w", d, err)
		}
	}
	w.log.Info("watching", "dir", w.dir, "dirs", len(dirs))

	go w.run(ctx, watcher, dirs)
	return nil
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, dirs []string) {
	defer func() {
		if err := watcher.Close(); err != nil {
			w.log.Warn("watcher close", "error", err)
		}
	}()

	watched := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		watched[d] = struct{}{}
	}

	send := func(c Changed) { w.out.Send(ChangedMsg(w.dest, c.Op, c.Path)) }
	throttle := newThrottle(w.delay)
	defer throttle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error, requesting rescan", "error", err)
			throttle.Enqueue(Changed{Op: Rescan}, send)
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(evt.Name)
			switch {
			case evt.Has(fsnotify.Create):
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if _, found := watched[path]; !found {
						if err := watcher.Add(path); err != nil {
							w.log.Warn("watch new directory", "dir", path, "error", err)
						} else {
							watched[path] = struct{}{}
						}
					}
				}
				throttle.Enqueue(Changed{Op: Created, Path: path}, send)
			case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
				delete(watched, path)
				throttle.Enqueue(Changed{Op: Removed, Path: path}, send)
			case evt.Has(fsnotify.Write):
				throttle.Enqueue(Changed{Op: Modified, Path: path}, send)
			}
		}
	}
}

// collectDirs walks base and returns all directories to watch.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// throttle coalesces rapid changes per path so the tree is updated once
// per burst. The latest op for a path wins; a Rescan supersedes all.
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]Changed
	order   []string
	rescan  bool
	delay   time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay, pending: make(map[string]Changed)}
}

func (t *throttle) Enqueue(c Changed, send func(Changed)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.Op == Rescan {
		t.rescan = true
	} else {
		if _, ok := t.pending[c.Path]; !ok {
			t.order = append(t.order, c.Path)
		}
		t.pending[c.Path] = c
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

func (t *throttle) flush(send func(Changed)) {
	t.mu.Lock()
	pending, order, rescan := t.pending, t.order, t.rescan
	t.pending = make(map[string]Changed)
	t.order = nil
	t.rescan = false
	t.timer = nil
	t.mu.Unlock()

	if rescan {
		send(Changed{Op: Rescan})
		return
	}
	for _, p := range order {
		send(pending[p])
	}
}

func (t *throttle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
