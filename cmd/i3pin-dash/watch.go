package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fsChangeMsg is sent when the state file's directory changes on disk.
type fsChangeMsg struct{}

// watchStateDir creates a file system watcher for the state file's
// directory. The daemon replaces the state file by rename, so the file
// itself cannot be watched directly. Returns nil when the directory does
// not exist or watcher creation fails; the dashboard then falls back to
// tick-based polling only.
func watchStateDir(statePath string) tea.Cmd {
	watcher := initWatcher(filepath.Dir(statePath))
	if watcher == nil {
		return nil
	}
	return runWatcher(watcher)
}

// initWatcher creates and initializes a watcher for the given directory.
// Returns nil if initialization fails.
func initWatcher(dir string) *fsnotify.Watcher {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("fsnotify: failed to create watcher: %v (falling back to polling)", err)
		return nil
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		log.Printf("fsnotify: failed to watch %s: %v (falling back to polling)", dir, err)
		return nil
	}

	return watcher
}

// runWatcher returns a tea.Cmd that waits for file system events and sends
// one debounced fsChangeMsg. The persist-on-every-event daemon can rewrite
// the file in bursts; the debounce folds a burst into a single refresh.
func runWatcher(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		defer watcher.Close()

		debounce := time.NewTimer(0)
		if !debounce.Stop() {
			<-debounce.C
		}
		defer debounce.Stop()

		armed := false
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if armed && !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(200 * time.Millisecond)
				armed = true

			case <-debounce.C:
				return fsChangeMsg{}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("fsnotify: watcher error: %v", err)
				return nil
			}
		}
	}
}
