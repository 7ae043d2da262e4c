package rag

import (
	"strings"
	"testing"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	chunks := DefaultSplitter().Split("short reference text")
	if len(chunks) != 1 || chunks[0] != "short reference text" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := DefaultSplitter().Split("   \n  "); chunks != nil {
		t.Errorf("whitespace-only text produced chunks: %v", chunks)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	splitter := Splitter{ChunkSize: 100, Overlap: 20}

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("sentence with several words here.\n")
	}

	for _, chunk := range splitter.Split(sb.String()) {
		if len(chunk) > 100 {
			t.Errorf("chunk length %d exceeds the limit", len(chunk))
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	splitter := Splitter{ChunkSize: 30, Overlap: 0}
	text := "first paragraph here\n\nsecond paragraph here"

	chunks := splitter.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %v, want a split at the paragraph boundary", chunks)
	}
	if chunks[0] != "first paragraph here" || chunks[1] != "second paragraph here" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitCoversAllContent(t *testing.T) {
	splitter := Splitter{ChunkSize: 50, Overlap: 10}
	text := strings.Repeat("abcdefghij", 30) // no separators at all

	chunks := splitter.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// With overlap, the concatenated chunks must contain the full text in order.
	joined := strings.Join(chunks, "")
	if len(joined) < len(text) {
		t.Errorf("chunks cover %d bytes, original is %d", len(joined), len(text))
	}
	if !strings.HasPrefix(chunks[0], "abcdefghij") {
		t.Errorf("first chunk lost the head of the text: %q", chunks[0])
	}
	if !strings.HasSuffix(chunks[len(chunks)-1], "abcdefghij") {
		t.Errorf("last chunk lost the tail of the text: %q", chunks[len(chunks)-1])
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	c := []float32{0, 1, 0}

	if got := cosineSimilarity(a, b); got < 0.999 {
		t.Errorf("identical vectors similarity = %v", got)
	}
	if got := cosineSimilarity(a, c); got != 0 {
		t.Errorf("orthogonal vectors similarity = %v", got)
	}
	if got := cosineSimilarity(a, []float32{1, 2}); got != 0 {
		t.Errorf("mismatched dimensions similarity = %v", got)
	}
}
