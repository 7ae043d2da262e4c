// Package knowledge owns the operator-curated reference text injected into
// prompts. The snapshot is a single string, replaced wholesale and never
// partially updated.
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vibecoding/ideaforge/internal/extract"
)

// File is one uploaded reference document. ReadErr records an upstream read
// failure so the batch can still account for the file.
type File struct {
	Name    string
	Data    []byte
	ReadErr error
}

// Store holds the current snapshot. Reads and the wholesale swap are guarded
// so a reader never observes a partially written value.
type Store struct {
	mu       sync.RWMutex
	snapshot string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current snapshot text.
func (s *Store) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Replace swaps in a new snapshot wholesale.
func (s *Store) Replace(text string) {
	s.mu.Lock()
	s.snapshot = text
	s.mu.Unlock()
}

// Clear resets the snapshot to empty.
func (s *Store) Clear() {
	s.Replace("")
}

// BuildSnapshot concatenates extracted text from a batch of files, joined by
// blank lines. A file whose extraction fails contributes a placeholder line
// instead of aborting the batch.
func BuildSnapshot(files []File) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		if f.ReadErr != nil {
			parts = append(parts, extract.Placeholder(f.Name, f.ReadErr))
			continue
		}
		text, err := extract.File(f.Name, f.Data)
		if err != nil {
			parts = append(parts, extract.Placeholder(f.Name, err))
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

// supported reference-document extensions for directory loading.
var loadableExts = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// LoadDir reads the reference documents in dir (non-recursive), sorted by
// name so snapshot content is stable across rebuilds.
func LoadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge dir: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !loadableExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Unreadable file: keep the batch going with a placeholder.
			files = append(files, File{Name: entry.Name(), ReadErr: err})
			continue
		}
		files = append(files, File{Name: entry.Name(), Data: data})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
