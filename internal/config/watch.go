package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileWatcher polls file modification times and reports changed paths.
// Directories are expanded to the *.yaml files directly inside them on
// every scan, so files added later are picked up.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func([]string) // paths that changed during one scan
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func([]string)) *FileWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done. The first scan only primes the cache.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	w.Scan(true)
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return
		}
	}
}

// Scan checks mtimes once and invokes onChange with every path that is
// new, newer or gone since the previous scan. It is not safe to call
// concurrently with Run.
func (w *FileWatcher) Scan(prime bool) []string {
	seen := make(map[string]bool)
	var changed []string
	for _, p := range w.expand() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if !ok || mt.After(last) {
			w.lastMTime[p] = mt
			if !prime {
				changed = append(changed, p)
			}
		}
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			if !prime {
				changed = append(changed, p)
			}
		}
	}
	sort.Strings(changed)
	if len(changed) > 0 && w.onChange != nil {
		w.onChange(changed)
	}
	return changed
}

func (w *FileWatcher) expand() []string {
	var out []string
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.IsDir() {
			out = append(out, p)
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(p, "*.yaml"))
		out = append(out, matches...)
	}
	return out
}
