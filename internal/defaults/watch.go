package defaults

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the current datasets snapshot. Readers take a pointer and
// keep it for as long as they need a consistent view.
type Store struct {
	cur atomic.Pointer[Datasets]
}

func NewStore(d *Datasets) *Store {
	s := &Store{}
	s.cur.Store(d)
	return s
}

func (s *Store) Current() *Datasets { return s.cur.Load() }

func (s *Store) Set(d *Datasets) { s.cur.Store(d) }

// Watch reloads path into store whenever the file is written or replaced,
// until ctx is cancelled. A file that fails to parse leaves the previous
// snapshot in place. The parent directory is watched so editors that
// save by rename are picked up.
func Watch(ctx context.Context, path string, store *Store, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}
	logger = logger.Named("defaults")
	logger.Info("watching datasets file", zap.String("path", abs))

	go func() {
		defer w.Close()
		// Saves often arrive as a burst of events; reload once things settle.
		debounce := time.NewTimer(time.Hour)
		debounce.Stop()
		defer debounce.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Reset(100 * time.Millisecond)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", zap.Error(err))
			case <-debounce.C:
				d, err := LoadFile(abs)
				if err != nil {
					logger.Warn("datasets reload failed, keeping previous", zap.Error(err))
					continue
				}
				store.Set(d)
				logger.Info("datasets reloaded", zap.String("path", abs))
			}
		}
	}()
	return nil
}
