// Package watch re-runs a callback when source files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("comb.watch")

// FileWatcher reports changed files under a root path. Events for the same
// file that arrive within the debounce interval are reported once.
type FileWatcher struct {
	root       string
	extensions []string
	only       string
	watcher    *fsnotify.Watcher
	debounce   *Debouncer
}

// New creates a watcher for root, which may be a file or a directory. Only
// files with one of the given extensions are reported; with no extensions,
// every file is.
func New(root string, interval time.Duration, extensions ...string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	fw := &FileWatcher{
		root:       root,
		extensions: extensions,
		watcher:    w,
		debounce:   NewDebouncer(interval),
	}
	if err := fw.add(root); err != nil {
		w.Close()
		return nil, err
	}
	return fw, nil
}

// Watch blocks until ctx is cancelled, calling onChange with the changed
// files after each quiet period.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(paths []string)) error {
	defer fw.watcher.Close()
	defer fw.debounce.Stop()

	log.Infof("watching %s", fw.root)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.add(event.Name); err != nil {
						log.Warningf("%s", err)
					}
					continue
				}
			}
			if !fw.Wanted(event) {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			fw.debounce.Trigger(event.Name, onChange)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Errorf("watch: %s", err)
		}
	}
}

// Wanted reports whether an event names a file the watcher reports.
func (fw *FileWatcher) Wanted(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if fw.only != "" {
		return filepath.Clean(event.Name) == fw.only
	}
	if len(fw.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, e := range fw.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Editors replace files on save, so watch the directory.
		fw.only = filepath.Clean(path)
		return fw.watcher.Add(filepath.Dir(path))
	}
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// Debouncer collects keys and hands them to a callback once no new key has
// arrived for the interval. Callbacks never run concurrently; keys that arrive
// while one runs go to the next.
type Debouncer struct {
	interval time.Duration
	running  sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records key and restarts the quiet period. The callback receives
// all keys recorded since it last ran, sorted.
func (d *Debouncer) Trigger(key string, callback func(keys []string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[key] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.running.Lock()
		defer d.running.Unlock()

		d.mu.Lock()
		if d.stopped || len(d.pending) == 0 {
			d.mu.Unlock()
			return
		}
		keys := make([]string, 0, len(d.pending))
		for k := range d.pending {
			keys = append(keys, k)
		}
		clear(d.pending)
		d.mu.Unlock()

		sort.Strings(keys)
		callback(keys)
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}
