package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/globe/internal/logger"
)

// Watcher reports edits to shader sources in a directory.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	changed chan string
	done    chan struct{}
	log     *zap.Logger
}

// Watch starts watching dir for changes to .vert and .frag files.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("shader watcher: watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		watcher: fw,
		changed: make(chan string, 1),
		done:    make(chan struct{}),
		log:     logger.Named("shader"),
	}
	go w.run()

	w.log.Info("watching shader sources", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSource(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.log.Debug("shader source changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			// A pending notification already covers this edit.
			select {
			case w.changed <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", zap.Error(err))
		}
	}
}

func isSource(name string) bool {
	switch filepath.Ext(name) {
	case ".vert", ".frag":
		return true
	}
	return false
}

// Changed delivers the path of an edited source. Bursts of edits are
// coalesced into one notification.
func (w *Watcher) Changed() <-chan string { return w.changed }

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
