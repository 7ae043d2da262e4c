// Package rules implements the deterministic keyword pre-screen that runs
// before any model call. Ideas are matched against two fixed ordered tables
// (disallowed and caution categories) and scored on a [0,1] scale.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

//go:embed tables.toml
var tablesTOML []byte

const (
	baseScore        = 0.8
	violationPenalty = 0.3
	cautionPenalty   = 0.1
)

// Result holds the outcome of a pre-screen evaluation. Violations and
// cautions preserve table order, one entry per matched category.
type Result struct {
	Score      float64  `json:"score"`
	Violations []string `json:"violations"`
	Cautions   []string `json:"cautions"`
}

// Category pairs a display name with its compiled pattern.
type Category struct {
	Name    string
	pattern *regexp.Regexp
}

type tableFile struct {
	Disallowed []tableEntry `toml:"disallowed"`
	Caution    []tableEntry `toml:"caution"`
}

type tableEntry struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
}

// Engine evaluates idea text against the compiled category tables.
// It is safe for concurrent use; evaluation has no side effects.
type Engine struct {
	disallowed []Category
	caution    []Category
}

// NewEngine compiles the embedded category tables.
func NewEngine() (*Engine, error) {
	var file tableFile
	if err := toml.Unmarshal(tablesTOML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule tables: %w", err)
	}

	disallowed, err := compileTable(file.Disallowed)
	if err != nil {
		return nil, err
	}
	caution, err := compileTable(file.Caution)
	if err != nil {
		return nil, err
	}

	return &Engine{disallowed: disallowed, caution: caution}, nil
}

func compileTable(entries []tableEntry) ([]Category, error) {
	categories := make([]Category, 0, len(entries))
	for _, entry := range entries {
		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %q: %w", entry.Name, err)
		}
		categories = append(categories, Category{Name: entry.Name, pattern: re})
	}
	return categories, nil
}

// Evaluate runs the pre-screen against the given text. Each category counts
// at most once no matter how often its pattern occurs. The score starts at
// 0.8, drops by a flat 0.3 when any disallowed category matched, drops by
// 0.1 per caution category, and is clamped to [0, 1].
func (e *Engine) Evaluate(text string) Result {
	result := Result{
		Score:      baseScore,
		Violations: []string{},
		Cautions:   []string{},
	}

	for _, cat := range e.disallowed {
		if cat.pattern.MatchString(text) {
			result.Violations = append(result.Violations, cat.Name)
		}
	}
	for _, cat := range e.caution {
		if cat.pattern.MatchString(text) {
			result.Cautions = append(result.Cautions, cat.Name)
		}
	}

	if len(result.Violations) > 0 {
		result.Score -= violationPenalty
	}
	result.Score -= cautionPenalty * float64(len(result.Cautions))

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 1 {
		result.Score = 1
	}

	return result
}

// DisallowedCategories returns the display names of the disallowed table in order.
func (e *Engine) DisallowedCategories() []string {
	return categoryNames(e.disallowed)
}

// CautionCategories returns the display names of the caution table in order.
func (e *Engine) CautionCategories() []string {
	return categoryNames(e.caution)
}

func categoryNames(cats []Category) []string {
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	return names
}
