// ABOUTME: fsnotify-based watcher for config and reply-template hot reload
// ABOUTME: Directories are watched recursively, files via their parent; bursts are debounced

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Watcher calls onChange after files under the watched paths change.
type Watcher struct {
	fw       *fsnotify.Watcher
	onChange func()
	debounce time.Duration

	trees []string        // directories watched recursively
	files map[string]bool // individual files watched through their parent

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher creates a watcher for paths. Directories are watched with all
// their subdirectories; files (existing or not yet created) are watched through
// their parent directory. Paths whose directory does not exist are skipped.
func NewWatcher(paths []string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		files:    make(map[string]bool),
		done:     make(chan struct{}),
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			w.trees = append(w.trees, abs)
			w.addTree(abs)
		default:
			w.files[abs] = true
			if err := fw.Add(filepath.Dir(abs)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Debug("watch %s: %v", filepath.Dir(abs), err)
			}
		}
	}
	return w, nil
}

// SetDebounce overrides the default quiet period (200ms) before onChange runs.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// WatchList returns the directories currently registered with the OS.
func (w *Watcher) WatchList() []string {
	return w.fw.WatchList()
}

// Start begins watching in a goroutine. Safe to call multiple times; subsequent calls are no-ops.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

// Stop halts the watcher and releases OS resources. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fw.Close()
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) && w.inTree(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(ev.Name)
				}
			}
			w.mu.Lock()
			d := w.debounce
			w.mu.Unlock()
			if timer == nil {
				timer = time.AfterFunc(d, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(d)
			}
		case <-fire:
			w.onChange()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	return w.files[ev.Name] || w.inTree(ev.Name)
}

func (w *Watcher) inTree(path string) bool {
	for _, root := range w.trees {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				log.Debug("watch %s: %v", path, err)
			}
		}
		return nil
	})
}
