package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/cubemarch/engine/core"
)

// Watcher observes the configuration file and raises a config-changed
// event on the core bus when it is rewritten. Editors save with a burst
// of filesystem events, so changes are debounced before firing.
type Watcher struct {
	path      string
	fsnotify  *fsnotify.Watcher
	done      chan struct{}
	isStarted bool
	isClosed  bool
}

const debounceDelay = 200 * time.Millisecond

func NewWatcher(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:     path,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() error {
	if w.isClosed {
		return errors.New("watcher instance already closed")
	}
	// Watch the directory, not the file: editors that replace-on-save
	// (write temp + rename) would otherwise drop the watch.
	if err := w.fsnotify.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.isStarted = true
	go w.run()
	return nil
}

func (w *Watcher) run() {
	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			w.fsnotify.Close()
			return
		case e := <-w.fsnotify.Events:
			if filepath.Clean(e.Name) != filepath.Clean(w.path) {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			core.LogDebug("config event: %s", e.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			ctx := core.EventContext{}
			ctx.Data.C[0] = w.path
			core.EventFire(core.EVENT_CODE_CONFIG_CHANGED, w, ctx)
		case err := <-w.fsnotify.Errors:
			if err != nil {
				core.LogError("config watcher: %s", err.Error())
			}
		}
	}
}

func (w *Watcher) Close() error {
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	// The run loop owns the fsnotify handle once started; without it the
	// handle must be released here.
	if !w.isStarted {
		return w.fsnotify.Close()
	}
	return nil
}
