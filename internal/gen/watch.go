package gen

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/funvibe/linesynth/internal/config"
)

// DefaultDebounce batches the events of rapid saves into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a rebuild function whenever a source or project file in
// one of the watched directories changes.
type Watcher struct {
	log      *zap.Logger
	debounce time.Duration
	ignore   map[string]bool
}

// NewWatcher creates a Watcher. Events for the ignored paths, typically
// the generated outputs, never trigger a rebuild.
func NewWatcher(log *zap.Logger, debounce time.Duration, ignore ...string) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{log: log, debounce: debounce, ignore: make(map[string]bool)}
	for _, p := range ignore {
		w.ignore[filepath.Clean(p)] = true
	}
	return w
}

// Relevant reports whether a change to path should trigger a rebuild.
func (w *Watcher) Relevant(path string) bool {
	if w.ignore[filepath.Clean(path)] {
		return false
	}
	base := filepath.Base(path)
	if base == config.ProjectFileName || base == config.ProjectFileNameAlt || base == ".env" {
		return true
	}
	_, ok := config.SourceFileExtensions[filepath.Ext(path)]
	return ok
}

// Watch blocks until ctx is done, calling rebuild after each burst of
// relevant changes in dirs. Rebuild errors are logged and do not stop the
// watch.
func (w *Watcher) Watch(ctx context.Context, dirs []string, rebuild func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range uniqueDirs(dirs) {
		if err := fw.Add(dir); err != nil {
			return err
		}
		w.log.Debug("Watching directory", zap.String("dir", dir))
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.Relevant(event.Name) {
				continue
			}
			w.log.Debug("Change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("Watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := rebuild(ctx); err != nil {
				w.log.Error("Rebuild failed", zap.Error(err))
			}
		}
	}
}

func uniqueDirs(dirs []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range dirs {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
