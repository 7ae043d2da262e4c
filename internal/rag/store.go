package rag

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	libsqlvector "github.com/ryanskidmore/libsql-vector-go"
	_ "github.com/tursodatabase/go-libsql"
)

// Chunk is one indexed slice of the knowledge snapshot.
type Chunk struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult pairs a chunk with its cosine similarity to the query.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// Store keeps chunk embeddings in a libsql database and answers top-k
// nearest-neighbor queries by cosine similarity.
type Store struct {
	db       *sql.DB
	embedder Embedder
	splitter Splitter
	mu       sync.Mutex
}

// Open opens (or creates) the vector database at path. A zero-value
// splitter falls back to the default chunking.
func Open(path string, embedder Embedder, splitter Splitter) (*Store, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	if splitter.ChunkSize <= 0 {
		splitter = DefaultSplitter()
	}
	store := &Store{db: db, embedder: embedder, splitter: splitter}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS knowledge_chunks (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		position INTEGER NOT NULL,
		embedding TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_position ON knowledge_chunks(position);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize vector schema: %w", err)
	}
	return nil
}

// Reindex replaces the entire index with chunks of the given snapshot text.
// It mirrors the snapshot's replace-wholesale lifecycle: old chunks are
// dropped even when the new snapshot is empty.
func (s *Store) Reindex(ctx context.Context, snapshot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reindex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_chunks`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	chunks := s.splitter.Split(snapshot)
	now := time.Now().UTC().Format(time.RFC3339)

	for position, content := range chunks {
		embedding, err := s.embedder.Embed(ctx, content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", position, err)
		}
		// Stored in the library's vector literal form so Parse can read
		// it back on the search side.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO knowledge_chunks (id, content, position, embedding, created_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), content, position, libsqlvector.NewVector(embedding).String(), now,
		); err != nil {
			return fmt.Errorf("failed to store chunk %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reindex: %w", err)
	}

	log.Info("knowledge index rebuilt", "chunks", len(chunks))
	return nil
}

// Search returns the top-k chunks nearest to the query text.
func (s *Store) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = 4
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, position, embedding, created_at FROM knowledge_chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var chunk Chunk
		var embeddingStr, createdAt string
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Position, &embeddingStr, &createdAt); err != nil {
			continue
		}
		chunk.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		var vec libsqlvector.Vector
		if err := vec.Parse(embeddingStr); err != nil {
			continue
		}

		results = append(results, SearchResult{
			Chunk: chunk,
			Score: cosineSimilarity(queryEmbedding, vec.Slice()),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Context joins the retrieved chunks into a prompt-ready knowledge block.
func Context(results []SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
