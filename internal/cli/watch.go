package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/config"
	"github.com/rcliao/memory-curator/internal/scan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a curation pass whenever a daily note changes",
		Run:   runWatch,
	}

	config.AddFlags(cmd, runFlagKeys...)
	cmd.Flags().Bool("no-history", false, "Do not record passes in the history database")
	cmd.Flags().Duration("debounce", 2*time.Second, "Quiet period after the last change before a pass starts")
	cmd.Flags().Bool("initial", false, "Run one pass immediately on start")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	noHistory, _ := cmd.Flags().GetBool("no-history")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	initial, _ := cmd.Flags().GetBool("initial")

	cfg := loadConfig(cmd, runFlagKeys...)
	if noHistory {
		cfg.History.Enabled = false
	}
	log := newLogger(cfg).With("component", "watch")
	engine := newEngine(cfg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		exitErr("create watcher", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, cfg.Curator.MemoryDir, log); err != nil {
		exitErr("watch memory dir", err)
	}

	pass := func(ctx context.Context) {
		rep, err := curate(ctx, engine, cfg, log)
		if err != nil {
			log.Error("watch: pass failed", "err", err)
			return
		}
		log.Info(rep.Summary())
	}

	if initial {
		pass(ctx)
	}

	log.Info("watch: watching for changes", "dir", cfg.Curator.MemoryDir, "debounce", debounce)
	w := &noteWatcher{
		events:     watcher.Events,
		errors:     watcher.Errors,
		memoryFile: cfg.Curator.MemoryFile,
		debounce:   debounce,
		onDir: func(dir string) {
			if err := addTree(watcher, dir, log); err != nil {
				log.Warn("watch: add dir", "dir", dir, "err", err)
			}
		},
		pass:   pass,
		logger: log,
	}
	if err := w.loop(ctx); err != nil && ctx.Err() == nil {
		exitErr("watch", err)
	}
}

// addTree watches dir and every directory below it. Unreadable subtrees are skipped.
func addTree(w *fsnotify.Watcher, dir string, log *slog.Logger) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Debug("watch: skipping entry", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// noteWatcher turns file events into debounced curation passes. Passes run
// on the loop goroutine, so at most one is in flight.
type noteWatcher struct {
	events     <-chan fsnotify.Event
	errors     <-chan error
	memoryFile string
	debounce   time.Duration
	onDir      func(string)
	pass       func(context.Context)
	logger     *slog.Logger
}

func (w *noteWatcher) loop(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case event, ok := <-w.events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.onDir != nil {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.onDir(event.Name)
					continue
				}
			}
			if !w.triggers(event) {
				continue
			}
			w.logger.Debug("watch: change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case <-timer.C:
			w.pass(ctx)
		case err, ok := <-w.errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// triggers reports whether event is a write or create of a daily note other
// than the memory document.
func (w *noteWatcher) triggers(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if filepath.Ext(event.Name) != scan.MarkdownExt {
		return false
	}
	return !samePath(event.Name, w.memoryFile)
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
