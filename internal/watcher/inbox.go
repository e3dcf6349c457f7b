// Package watcher imports documents dropped into an inbox directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	processedDir = "processed"
	rejectedDir  = "rejected"
)

// Importer receives parsed inbox files
type Importer interface {
	ImportFiles(ctx context.Context, files []ingest.File) (*ingest.Result, error)
}

// Inbox watches one directory. Supported files are imported after they stop
// changing for the debounce interval, then moved to processed/ or rejected/.
type Inbox struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	importer Importer

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, debounce time.Duration, importer Importer) (*Inbox, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch inbox: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Inbox{
		watcher:  w,
		dir:      dir,
		debounce: debounce,
		importer: importer,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run imports files already present, then processes events until ctx is done
func (w *Inbox) Run(ctx context.Context) error {
	ready := make(chan string, 16)

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list inbox: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.schedule(ctx, filepath.Join(w.dir, e.Name()), ready)
		}
	}

	log.Info().Str("dir", w.dir).Msg("Watching document inbox")

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.schedule(ctx, event.Name, ready)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Inbox watcher error")
		case path := <-ready:
			w.importFile(ctx, path)
		}
	}
}

// Close stops watching
func (w *Inbox) Close() error {
	w.stopTimers()
	return w.watcher.Close()
}

func (w *Inbox) schedule(ctx context.Context, path string, ready chan<- string) {
	if !ingest.Supported(path, "") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Inbox) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Inbox) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", path).Msg("Failed to read inbox file")
		}
		return
	}

	name := filepath.Base(path)
	result, err := w.importer.ImportFiles(ctx, []ingest.File{{Name: name, Data: data}})
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to import inbox file")
		return
	}

	target := processedDir
	if result.Added == 0 {
		target = rejectedDir
		for _, msg := range result.Errors {
			log.Warn().Str("file", name).Msg(msg)
		}
	} else {
		log.Info().Str("file", name).Msg("Imported inbox file")
	}

	if err := w.move(path, target); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("Failed to move inbox file")
	}
}

func (w *Inbox) move(path, subdir string) error {
	dst := filepath.Join(w.dir, subdir)
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dst, filepath.Base(path)))
}
