package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/jfcliche/vhdl-doc/internal/config"
)

// debounce window for filesystem events; editors fire several per save
const watchSettle = 300 * time.Millisecond

// Watch rebuilds the documentation whenever a VHDL file under rootPath
// changes, invoking onResult with each new build (including one initial
// build before the first event). Blocks until ctx is canceled. Build
// failures are logged, not fatal: the watch keeps running so a broken
// save can be fixed and re-saved.
func (b *Builder) Watch(ctx context.Context, rootPath string, onResult func(*Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, rootPath); err != nil {
		return err
	}

	run := func() {
		result, err := b.Build(rootPath)
		if err != nil {
			b.log.WithError(err).Error("rebuild failed")
			return
		}
		onResult(result)
	}
	run()

	var settle *time.Timer
	var settleC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, ev.Name); err != nil {
						b.log.WithError(err).Warn("cannot watch new directory")
					}
				}
			}
			if !config.IsVHDLFile(ev.Name) {
				continue
			}
			b.log.WithFields(logrus.Fields{
				"file": ev.Name,
				"op":   ev.Op.String(),
			}).Debug("source change detected")
			if settle == nil {
				settle = time.NewTimer(watchSettle)
				settleC = settle.C
			} else {
				settle.Reset(watchSettle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.WithError(err).Warn("watcher error")
		case <-settleC:
			settle = nil
			settleC = nil
			run()
		}
	}
}

// watchTree registers root and every directory below it with the watcher.
// fsnotify watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}
