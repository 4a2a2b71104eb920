package cli

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rcliao/memory-curator/internal/logger"
)

func TestTriggers(t *testing.T) {
	dir := t.TempDir()
	memory := filepath.Join(dir, "MEMORY.md")
	w := &noteWatcher{memoryFile: memory}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write note", fsnotify.Event{Name: filepath.Join(dir, "2026-03-01.md"), Op: fsnotify.Write}, true},
		{"create note", fsnotify.Event{Name: filepath.Join(dir, "2026-03-02.md"), Op: fsnotify.Create}, true},
		{"remove note", fsnotify.Event{Name: filepath.Join(dir, "2026-03-01.md"), Op: fsnotify.Remove}, false},
		{"chmod note", fsnotify.Event{Name: filepath.Join(dir, "2026-03-01.md"), Op: fsnotify.Chmod}, false},
		{"memory document", fsnotify.Event{Name: memory, Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Join(dir, ".MEMORY.md.123.tmp"), Op: fsnotify.Create}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.triggers(tt.event); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLoop_Debounces(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	passes := make(chan struct{}, 10)
	var count atomic.Int32

	w := &noteWatcher{
		events:     events,
		errors:     errs,
		memoryFile: "/notes/MEMORY.md",
		debounce:   50 * time.Millisecond,
		pass: func(context.Context) {
			count.Add(1)
			passes <- struct{}{}
		},
		logger: logger.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx) }()

	for range 5 {
		events <- fsnotify.Event{Name: "/notes/2026-03-01.md", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "/notes/MEMORY.md", Op: fsnotify.Write}

	select {
	case <-passes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a pass after the burst")
	}
	time.Sleep(150 * time.Millisecond)

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n := count.Load(); n != 1 {
		t.Errorf("expected 1 pass for one burst, got %d", n)
	}
}

func TestLoop_WatcherError(t *testing.T) {
	errs := make(chan error, 1)
	w := &noteWatcher{
		events:   make(chan fsnotify.Event),
		errors:   errs,
		debounce: time.Second,
		pass:     func(context.Context) {},
		logger:   logger.Nop(),
	}

	errs <- fsnotify.ErrEventOverflow
	if err := w.loop(context.Background()); err == nil {
		t.Error("expected watcher error to end the loop")
	}
}
