// Package rag chunks the knowledge snapshot, embeds the chunks, and
// retrieves the nearest neighbors for a submission.
package rag

import "strings"

// Splitter breaks text into overlapping chunks, preferring paragraph and
// line boundaries over mid-word cuts.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// DefaultSplitter mirrors the chunking the reference corpus was indexed
// with: 1000-character chunks with 200 characters of overlap.
func DefaultSplitter() Splitter {
	return Splitter{ChunkSize: 1000, Overlap: 200}
}

var separators = []string{"\n\n", "\n", " "}

// Split returns the chunks of text. Whitespace-only chunks are dropped.
func (s Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.ChunkSize <= 0 {
		s = DefaultSplitter()
	}

	pieces := s.split(text, 0)

	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

// split recursively descends the separator hierarchy until every piece fits
// the chunk size, then merges adjacent pieces back up with overlap.
func (s Splitter) split(text string, sepIndex int) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}
	if sepIndex >= len(separators) {
		return s.hardSplit(text)
	}

	sep := separators[sepIndex]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return s.split(text, sepIndex+1)
	}

	var fitted []string
	for _, part := range parts {
		if len(part) <= s.ChunkSize {
			fitted = append(fitted, part)
			continue
		}
		fitted = append(fitted, s.split(part, sepIndex+1)...)
	}
	return s.merge(fitted, sep)
}

// merge greedily packs pieces into chunks up to ChunkSize, carrying the
// configured overlap from the tail of each finished chunk into the next.
func (s Splitter) merge(pieces []string, sep string) []string {
	var chunks []string
	var current string

	for _, piece := range pieces {
		if current == "" {
			current = piece
			continue
		}
		if len(current)+len(sep)+len(piece) <= s.ChunkSize {
			current += sep + piece
			continue
		}
		chunks = append(chunks, current)
		if overlap := s.tail(current); overlap != "" {
			current = overlap + sep + piece
			if len(current) > s.ChunkSize {
				current = piece
			}
		} else {
			current = piece
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// tail returns the trailing overlap of a finished chunk.
func (s Splitter) tail(chunk string) string {
	if s.Overlap <= 0 {
		return ""
	}
	if len(chunk) <= s.Overlap {
		return chunk
	}
	return chunk[len(chunk)-s.Overlap:]
}

// hardSplit cuts text at fixed offsets when no separator is available.
func (s Splitter) hardSplit(text string) []string {
	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + s.ChunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
