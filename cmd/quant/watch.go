package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ScriptWatcher reruns a macro script whenever it is saved
type ScriptWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	run     func(path string)
	stdout  io.Writer
	stderr  io.Writer

	// Track last change time to debounce rapid changes
	mu         sync.Mutex
	lastChange time.Time
	runs       int
}

// NewScriptWatcher creates a watcher for the script at path
func NewScriptWatcher(path string, run func(path string), stdout, stderr io.Writer) (*ScriptWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ScriptWatcher{
		watcher: fsWatcher,
		path:    abs,
		run:     run,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// Start begins watching. The script's directory is watched rather than the
// file, so editors that save by renaming are still seen.
func (w *ScriptWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logInfo("watching script: %s", w.path)

	go w.eventLoop(ctx)
	return nil
}

// eventLoop processes file system events
func (w *ScriptWatcher) eventLoop(ctx context.Context) {
	// Debounce duration - wait for rapid changes to settle
	const debounce = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			w.mu.Lock()
			if time.Since(w.lastChange) < debounce {
				w.mu.Unlock()
				continue
			}
			w.lastChange = time.Now()
			w.mu.Unlock()

			w.handleFileChange(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// handleFileChange reruns the script
func (w *ScriptWatcher) handleFileChange(path string) {
	w.logInfo("script changed: %s", path)
	w.run(w.path)

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()
}

// Runs returns how many times the script has been rerun
func (w *ScriptWatcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Close stops the watcher
func (w *ScriptWatcher) Close() error {
	return w.watcher.Close()
}

func (w *ScriptWatcher) logInfo(format string, args ...interface{}) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *ScriptWatcher) logError(format string, args ...interface{}) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}
