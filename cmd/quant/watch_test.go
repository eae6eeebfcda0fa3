package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestScriptWatcherReruns(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "trip.qm")
	if err := os.WriteFile(script, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr syncBuffer
	ran := make(chan string, 10)
	w, err := NewScriptWatcher(script, func(path string) { ran <- path }, &stdout, &stderr)
	if err != nil {
		t.Fatalf("NewScriptWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("x = 2"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-ran:
		if path != w.path {
			t.Errorf("expected rerun of %q, got %q", w.path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("script was not rerun after a write")
	}

	if !strings.Contains(stdout.String(), "[WATCH] watching script: "+w.path) {
		t.Errorf("missing start message in %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "[WATCH] script changed: ") {
		t.Errorf("missing change message in %q", stdout.String())
	}
}

func TestScriptWatcherHandleFileChange(t *testing.T) {
	var stdout, stderr syncBuffer
	runs := 0
	w, err := NewScriptWatcher("trip.qm", func(string) { runs++ }, &stdout, &stderr)
	if err != nil {
		t.Fatalf("NewScriptWatcher failed: %v", err)
	}
	defer w.Close()

	if !filepath.IsAbs(w.path) {
		t.Errorf("expected absolute script path, got %q", w.path)
	}

	w.handleFileChange(w.path)
	w.handleFileChange(w.path)
	if runs != 2 || w.Runs() != 2 {
		t.Errorf("expected 2 runs, got %d (Runs %d)", runs, w.Runs())
	}
}

func TestScriptWatcherMissingDir(t *testing.T) {
	var stdout, stderr syncBuffer
	w, err := NewScriptWatcher(filepath.Join(t.TempDir(), "gone", "trip.qm"), func(string) {}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("NewScriptWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Start(context.Background()); err == nil {
		t.Error("expected an error watching a missing directory")
	}
}
