package rag

import (
	"context"
	"path/filepath"
	"testing"

	libsqlvector "github.com/ryanskidmore/libsql-vector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEmbedder is a deterministic test embedder: each vector dimension
// counts occurrences of a marker word, so similarity is predictable.
type wordEmbedder struct {
	markers []string
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.markers))
	for i, marker := range e.markers {
		for j := 0; j+len(marker) <= len(text); j++ {
			if text[j:j+len(marker)] == marker {
				vec[i]++
			}
		}
	}
	// Avoid the zero vector so cosine similarity stays defined.
	vec = append(vec, 1)
	return vec, nil
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	embedder := &wordEmbedder{markers: []string{"sheets", "mail", "calendar"}}
	// Tiny chunks so short fixtures split at paragraph boundaries.
	store, err := Open(filepath.Join(t.TempDir(), "rag.db"), embedder, Splitter{ChunkSize: 30, Overlap: 0})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoredEmbeddingParsesBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Reindex(ctx, "mail merge"))

	var stored string
	require.NoError(t, store.db.QueryRow(`SELECT embedding FROM knowledge_chunks`).Scan(&stored))

	var vec libsqlvector.Vector
	require.NoError(t, vec.Parse(stored), "stored form must match the library's literal framing")

	want, err := store.embedder.Embed(ctx, "mail merge")
	require.NoError(t, err)
	assert.Equal(t, want, vec.Slice())
}

func TestReindexAndSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snapshot := "sheets sheets sheets formulas\n\nmail merge mail quota\n\ncalendar events calendar"
	require.NoError(t, store.Reindex(ctx, snapshot))

	results, err := store.Search(ctx, "sending mail to parents", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Content, "mail")
}

func TestReindexReplacesOldChunks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Reindex(ctx, "sheets content"))
	require.NoError(t, store.Reindex(ctx, "calendar content"))

	results, err := store.Search(ctx, "anything", 10)
	require.NoError(t, err)
	require.Len(t, results, 1, "old chunks must be dropped on reindex")
	assert.Contains(t, results[0].Chunk.Content, "calendar")
}

func TestReindexEmptySnapshotClearsIndex(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Reindex(ctx, "sheets content"))
	require.NoError(t, store.Reindex(ctx, ""))

	results, err := store.Search(ctx, "sheets", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTopK(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Reindex(ctx, "sheets one\n\nsheets two\n\nsheets three"))

	results, err := store.Search(ctx, "sheets", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestContextJoinsChunks(t *testing.T) {
	joined := Context([]SearchResult{
		{Chunk: Chunk{Content: "a"}},
		{Chunk: Chunk{Content: "b"}},
	})
	assert.Equal(t, "a\n\nb", joined)
}
