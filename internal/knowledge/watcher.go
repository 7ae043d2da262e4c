package knowledge

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events into one rebuild.
const debounceDelay = 500 * time.Millisecond

// Watcher rebuilds the snapshot from a data directory whenever a reference
// document in it changes.
type Watcher struct {
	dir     string
	store   *Store
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching dir. Callers should also call Bootstrap first
// so the snapshot is populated before the first change arrives.
func NewWatcher(dir string, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{dir: dir, store: store, watcher: fsw}, nil
}

// Run processes events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isReferenceDoc(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			w.rebuildSnapshot()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("knowledge watcher error", "error", err)
		}
	}
}

func (w *Watcher) rebuildSnapshot() {
	if err := Bootstrap(w.dir, w.store); err != nil {
		log.Error("failed to rebuild knowledge snapshot", "dir", w.dir, "error", err)
		return
	}
	log.Info("knowledge snapshot rebuilt", "dir", w.dir, "chars", len(w.store.Snapshot()))
}

// Bootstrap builds the snapshot from the documents currently in dir.
func Bootstrap(dir string, store *Store) error {
	files, err := LoadDir(dir)
	if err != nil {
		return err
	}
	store.Replace(BuildSnapshot(files))
	return nil
}

func isReferenceDoc(name string) bool {
	return loadableExts[strings.ToLower(filepath.Ext(name))]
}
