// Package watcher invalidates cached network state when seed files change
// on disk.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"netpulse/internal/codec"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a seed directory and reports changed network ids
type Watcher struct {
	dir      string
	onChange func(networkID string)
	debounce time.Duration
}

// New creates a seed directory watcher. onChange receives the network id
// derived from the changed file's name.
func New(dir string, onChange func(networkID string)) *Watcher {
	return &Watcher{
		dir:      dir,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until the context is cancelled or an error occurs, firing
// onChange once per network id per debounce window.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	log.Printf("Watching %s for seed changes", w.dir)

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			id, ok := networkIDForPath(event.Name)
			if !ok {
				continue
			}

			// Debounce per network id; editors fire several events per save
			mu.Lock()
			if t, exists := timers[id]; exists {
				t.Stop()
			}
			timers[id] = time.AfterFunc(w.debounce, func() {
				mu.Lock()
				delete(timers, id)
				mu.Unlock()
				log.Printf("Seed changed for network %s", id)
				w.onChange(id)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			mu.Lock()
			for _, t := range timers {
				t.Stop()
			}
			mu.Unlock()
			return ctx.Err()
		}
	}
}

// networkIDForPath maps a seed file path to its network id
func networkIDForPath(path string) (string, bool) {
	base := filepath.Base(path)
	for _, ext := range codec.Extensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext), true
		}
	}
	return "", false
}
