package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/manifest"
	"github.com/toyz/rtgen/internal/utils/fileops"
)

// DefaultDebounce collapses editor save bursts into one regeneration
const DefaultDebounce = 500 * time.Millisecond

// Watcher regenerates bindings when manifests or template overrides change
type Watcher struct {
	generator *Generator
	inputs    []string
	watcher   *fsnotify.Watcher

	// Debounce is the quiet period before a change triggers a run
	Debounce time.Duration
	// OnRun, when set, receives the result of every run
	OnRun func(*GenerationSummary, error)

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// NewWatcher watches the directories holding the inputs and the configured
// template directories.
func NewWatcher(g *Generator, inputs []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapFileSystemError("create watcher for", strings.Join(inputs, ", "), err)
	}

	w := &Watcher{
		generator: g,
		inputs:    inputs,
		watcher:   fw,
		Debounce:  DefaultDebounce,
		trigger:   make(chan struct{}, 1),
	}

	roots := inputs
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, input := range roots {
		if err := w.addTree(strings.TrimSuffix(input, "/...")); err != nil {
			fw.Close()
			return nil, err
		}
	}
	for _, dir := range g.settings.TemplateDirs {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches root and its subdirectories, or the parent of a file
func (w *Watcher) addTree(root string) error {
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return errors.WrapFileSystemError("watch", root, err)
	}
	if !info.IsDir() {
		return w.add(filepath.Dir(root))
	}

	dirs, err := w.generator.scanner.walker.Dirs(root)
	if err != nil {
		return errors.WrapFileSystemError("watch", root, err)
	}
	for _, dir := range dirs {
		if err := w.add(dir); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapFileSystemError("watch", dir, err)
	}
	w.generator.diagnostics.Debug("Watching %s", dir)
	return nil
}

// Run generates once and then again after every relevant change until ctx
// is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.regenerate(ctx)
	w.generator.diagnostics.Info("Watching for changes (Ctrl+C to stop)")

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if fileops.IsDir(event.Name) {
					if err := w.addTree(event.Name); err != nil {
						w.generator.diagnostics.Warn("%v", err)
					}
					continue
				}
			}
			if !relevantChange(event) {
				continue
			}
			w.generator.diagnostics.Verbose("Change detected: %s (%s)", event.Name, event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.generator.diagnostics.Warn("Watcher error: %v", err)

		case <-w.trigger:
			w.regenerate(ctx)
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	summary, err := w.generator.Run(ctx, w.inputs)
	if err != nil {
		w.generator.diagnostics.Error("%s", errors.FormatWithHints(err))
	}
	if w.OnRun != nil {
		w.OnRun(summary, err)
	}
}

// schedule restarts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func relevantChange(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if strings.HasSuffix(name, ".template") {
		return true
	}
	for _, suffix := range manifest.Suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
