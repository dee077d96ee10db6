// Package watcher notices when another kit process changes the local session
// state (account database or device token) and publishes a debounced Change.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kitdeneme/kit/internal/log"
	"github.com/kitdeneme/kit/internal/pubsub"
)

// Change lists the watched files touched during one debounce window.
type Change struct {
	Paths []string
}

// Watcher monitors a set of files and publishes a Change when any of them is
// written, created or removed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	dirs      []string
	debounce  time.Duration
	broker    *pubsub.Broker[Change]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Paths are the files to watch. Their parent directories are watched so
	// files that do not exist yet (or are replaced by rename) are still seen.
	// SQLite's -wal and -journal companions count as the file itself.
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new watcher. Empty paths are ignored.
func New(cfg Config) (*Watcher, error) {
	files := make(map[string]struct{})
	seenDir := make(map[string]struct{})
	var dirs []string
	for _, p := range cfg.Paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		files[p] = struct{}{}
		dir := filepath.Dir(p)
		if _, ok := seenDir[dir]; !ok {
			seenDir[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("watcher: no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		files:     files,
		dirs:      dirs,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[Change](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker Changes are published on.
func (w *Watcher) Broker() *pubsub.Broker[Change] {
	return w.broker
}

// Start begins watching the parent directories of the configured files.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "Watching directory", "dir", dir)
	}

	go w.loop()
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			path, relevant := w.match(event)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) > 0 {
				change := Change{Paths: make([]string, 0, len(pending))}
				for p := range pending {
					change.Paths = append(change.Paths, p)
				}
				sort.Strings(change.Paths)
				pending = make(map[string]struct{})

				log.Debug(log.CatWatcher, "Session files changed", "paths", change.Paths)
				w.broker.Publish(pubsub.UpdatedEvent, change)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// match reports which watched file an event concerns.
func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}

	name := filepath.Clean(event.Name)
	for _, suffix := range []string{"", "-wal", "-journal"} {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		base := strings.TrimSuffix(name, suffix)
		if _, ok := w.files[base]; ok {
			return base, true
		}
	}
	return "", false
}
