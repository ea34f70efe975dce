package sync

import (
	"fmt"
	"path/filepath"
	gosync "sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/logger"
)

const debounceDelay = 100 * time.Millisecond

// ReloadEvent carries the configuration re-read after a watched file changed.
// Err is set when the new file could not be loaded; Config is nil then.
type ReloadEvent struct {
	FilePath string
	Config   *config.Picker
	Err      error
}

// Watcher reloads the picker configuration when it, or one of the ICS files
// it names, changes on disk.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	changes    chan ReloadEvent
	done       chan struct{}

	mu            gosync.Mutex
	watched       map[string]bool
	debounceTimer *time.Timer
	lastChanged   string
	stopped       bool
}

// NewWatcher creates a watcher for the configuration at configPath.
func NewWatcher(configPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &Watcher{
		watcher:    fsWatcher,
		configPath: abs,
		changes:    make(chan ReloadEvent, 10),
		done:       make(chan struct{}),
		watched:    map[string]bool{abs: true},
	}, nil
}

// Start watches the configuration directory and the extra files, such as ICS
// calendars, then begins delivering reloads.
func (w *Watcher) Start(extra ...string) error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	if err := w.Add(extra...); err != nil {
		return err
	}

	go w.watch()
	return nil
}

// Add follows more files. It may be called after Start, e.g. when a reloaded
// configuration names new ICS files. Directories are watched rather than
// files so editors that save by renaming are noticed.
func (w *Watcher) Add(files ...string) error {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", f, err)
		}

		w.mu.Lock()
		known := w.watched[abs]
		w.watched[abs] = true
		w.mu.Unlock()
		if known {
			continue
		}

		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch directory: %w", err)
		}
		logger.Debug("sync: following file", "path", abs)
	}
	return nil
}

// Stop stops the watcher and closes the changes channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	close(w.done)
	close(w.changes)
	w.mu.Unlock()

	w.watcher.Close()
}

// Changes returns the channel for reload notifications
func (w *Watcher) Changes() <-chan ReloadEvent {
	return w.changes
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(filepath.Clean(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("sync: watcher error", "error", err)
		}
	}
}

// schedule debounces bursts of events for watched files into one reload.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || !w.watched[name] {
		return
	}
	w.lastChanged = name
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := config.LoadPicker(w.configPath)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	ev := ReloadEvent{FilePath: w.lastChanged, Config: cfg, Err: err}
	if err != nil {
		ev.Config = nil
		logger.Warn("sync: failed to reload config", "path", w.configPath, "error", err)
	} else {
		logger.Debug("sync: config reloaded", "path", w.configPath, "trigger", w.lastChanged)
	}

	select {
	case w.changes <- ev:
	default:
		logger.Debug("sync: dropping reload, consumer is behind")
	}
}
