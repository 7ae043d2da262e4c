// Package feedback loads the instructor feedback sheet and finds the prior
// feedback entry closest to a new idea. The lookup only adds grounding to
// the prompt; it never replaces the model call.
package feedback

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Entry is one row of the instructor feedback sheet.
type Entry struct {
	IdeaSummary           string
	Feasibility           string
	InstructorFeedback    string
	AlternativeSuggestion string
}

// Match is the best-ranked entry for a query. Lower Rank means closer.
type Match struct {
	Entry
	Rank int
}

// Store holds the loaded feedback entries.
type Store struct {
	entries []Entry
}

// Expected header columns, by name.
var requiredColumns = []string{
	"idea_summary",
	"feasibility_apps_script",
	"instructor_feedback",
	"alternative_suggestion",
}

// Load reads a feedback CSV with a header row. Column order is free as long
// as the required columns are present.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse feedback csv: %w", err)
	}
	if len(records) == 0 {
		return &Store{}, nil
	}

	index := map[string]int{}
	for i, col := range records[0] {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("feedback csv is missing column %q", col)
		}
	}

	store := &Store{}
	for _, row := range records[1:] {
		entry := Entry{
			IdeaSummary:           field(row, index["idea_summary"]),
			Feasibility:           field(row, index["feasibility_apps_script"]),
			InstructorFeedback:    field(row, index["instructor_feedback"]),
			AlternativeSuggestion: field(row, index["alternative_suggestion"]),
		}
		if entry.IdeaSummary == "" {
			continue
		}
		store.entries = append(store.entries, entry)
	}
	return store, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Len returns the number of loaded entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Lookup finds the entry whose summary best fuzzy-matches the query text.
// Both directions are tried, so a short idea title can match inside a long
// stored summary and vice versa. It returns false when nothing matches.
func (s *Store) Lookup(query string) (Match, bool) {
	best := Match{Rank: -1}
	for _, entry := range s.entries {
		rank := entryRank(entry.IdeaSummary, query)
		if rank < 0 {
			continue
		}
		if best.Rank < 0 || rank < best.Rank {
			best = Match{Entry: entry, Rank: rank}
		}
	}
	return best, best.Rank >= 0
}

// entryRank returns the better of the two match directions, -1 for none.
func entryRank(summary, query string) int {
	rank := fuzzy.RankMatchNormalizedFold(summary, query)
	if reverse := fuzzy.RankMatchNormalizedFold(query, summary); reverse >= 0 && (rank < 0 || reverse < rank) {
		rank = reverse
	}
	return rank
}

// PromptBlock renders the match as a quoted grounding block for the prompt.
func (m Match) PromptBlock() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Similar prior idea: %q\n", m.IdeaSummary)
	fmt.Fprintf(&sb, "Feasibility on Apps Script: %q\n", m.Feasibility)
	fmt.Fprintf(&sb, "Instructor feedback: %q\n", m.InstructorFeedback)
	fmt.Fprintf(&sb, "Alternative suggestion: %q", m.AlternativeSuggestion)
	return sb.String()
}
