package roster

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/vinayprograms/agentkit/logging"
)

// Watcher keeps a roster current by re-discovering personas whenever the
// directory changes.
type Watcher struct {
	mu       sync.RWMutex
	dir      string
	personas []*Persona
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
}

// NewWatcher loads the roster and starts watching its directory.
func NewWatcher(dir string) (*Watcher, error) {
	personas, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		dir:      dir,
		personas: personas,
		watcher:  fsw,
		logger:   logging.New().WithComponent("roster"),
	}, nil
}

// Personas returns the current roster snapshot.
func (w *Watcher) Personas() []*Persona {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Persona(nil), w.personas...)
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("roster watch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Close stops the filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) reload() {
	personas, err := Discover(w.dir)
	if err != nil {
		w.logger.Warn("roster reload failed", map[string]interface{}{
			"dir":   w.dir,
			"error": err.Error(),
		})
		return
	}

	w.mu.Lock()
	w.personas = personas
	w.mu.Unlock()

	w.logger.Info("roster reloaded", map[string]interface{}{
		"dir":      w.dir,
		"personas": len(personas),
	})
}
