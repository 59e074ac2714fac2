package files

import (
	"context"
	"os"
	"sync"
	"time"

	"flowci-console/pkg/log"
	"flowci-console/pkg/poll"
)

// FileWatcher watches a file for changes and calls a callback when modified.
// It polls the modification time; a failed stat is logged and retried.
type FileWatcher struct {
	filePath string
	interval time.Duration
	onChange func(string)
	clock    poll.Clock

	mu      sync.Mutex
	lastMod time.Time
	poller  *poll.Poller[time.Time]
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(filePath string, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		filePath: filePath,
		interval: 5 * time.Second, // Check every 5 seconds by default
		onChange: onChange,
	}
}

// Start begins watching the file for changes
func (w *FileWatcher) Start(ctx context.Context) error {
	info, err := os.Stat(w.filePath)
	if err != nil {
		return log.Errorf("failed to stat file: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastMod = info.ModTime()

	opts := []poll.Option{poll.WithInterval(w.interval)}
	if w.clock != nil {
		opts = append(opts, poll.WithClock(w.clock))
	}
	never := func(time.Time) bool { return false }
	w.poller = poll.Start(ctx, w.checkForChanges, never, opts...)

	log.Info("File watcher started", "path", w.filePath)
	return nil
}

// Stop stops watching the file and waits for a check in progress.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	p := w.poller
	w.mu.Unlock()
	if p == nil {
		return
	}

	p.Cancel()
	_, _ = p.Wait()
	log.Info("File watcher stopped", "path", w.filePath)
}

// checkForChanges checks if the file has been modified
func (w *FileWatcher) checkForChanges(context.Context) (time.Time, error) {
	info, err := os.Stat(w.filePath)
	if err != nil {
		log.Warn("Failed to stat file", "path", w.filePath, "error", err)
		return time.Time{}, nil
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastMod)
	if changed {
		w.lastMod = info.ModTime()
	}
	w.mu.Unlock()

	if changed {
		log.Info("File changed", "path", w.filePath)
		if w.onChange != nil {
			w.onChange(w.filePath)
		}
	}
	return info.ModTime(), nil
}

// SetInterval sets the interval for checking file changes. It applies to the
// next Start.
func (w *FileWatcher) SetInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = interval
}

// GetFilePath returns the path of the file being watched
func (w *FileWatcher) GetFilePath() string {
	return w.filePath
}
