package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher reports files in one directory whose base name matches a set of
// glob patterns once they stop changing for the debounce interval
type DirWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	patterns []string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool

	changes chan string
	errors  chan error
	done    chan struct{}
}

// NewDirWatcher creates a watcher for dir
func NewDirWatcher(dir string, patterns []string, debounce time.Duration) (*DirWatcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(absDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}

	return &DirWatcher{
		watcher:  watcher,
		dir:      absDir,
		patterns: patterns,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 16),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}, nil
}

// Changes delivers base names of settled files
func (fw *DirWatcher) Changes() <-chan string {
	return fw.changes
}

// Errors delivers watcher failures; older unread errors are dropped
func (fw *DirWatcher) Errors() <-chan error {
	return fw.errors
}

// Start begins watching for file changes
func (fw *DirWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				// Only trigger on write or create events
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				select {
				case fw.errors <- err:
				default:
				}

			case <-fw.done:
				return
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of a matching file
func (fw *DirWatcher) handleFileChange(path string) {
	if filepath.Dir(path) != fw.dir {
		return
	}
	name := filepath.Base(path)
	if !Matches(name, fw.patterns) {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return
	}
	if timer, exists := fw.timers[name]; exists {
		timer.Stop()
	}

	fw.timers[name] = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		delete(fw.timers, name)
		fw.mu.Unlock()

		select {
		case fw.changes <- name:
		case <-fw.done:
		}
	})
}

// Close stops the watcher and all pending timers
func (fw *DirWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()

	close(fw.done)
	return fw.watcher.Close()
}

// Matches reports whether a base name matches any of the patterns. The
// comparison ignores case so "*.stl" also picks up "PART.STL".
func Matches(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if ok, _ := filepath.Match(strings.ToLower(p), lower); ok {
			return true
		}
	}
	return false
}
