package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one configuration file for changes. The parent directory
// is watched rather than the file itself so editors that replace the file on
// save keep triggering events.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	changes chan struct{}
}

// NewWatcher starts watching path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    abs,
		changes: make(chan struct{}, 1),
	}
	go w.loop()
	return w, nil
}

// Changes delivers one signal per detected change. The channel holds at most
// one pending signal; bursts coalesce.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and closes the change channel.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.changes)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
