// Package idea defines the user-facing idea submission and its validation.
package idea

import (
	"fmt"
	"strings"
)

// Submission is a single automation idea as entered by the user. It is
// immutable once validated and is not persisted anywhere.
type Submission struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PrimaryUsers string `json:"primary_users"`
	Features     string `json:"features"`
}

// ValidationMode selects which fields are mandatory. The source family of
// this tool disagrees on the exact rule, so it is configurable.
type ValidationMode string

const (
	// ModeRelaxed requires title, primary users, and at least one of
	// description or features.
	ModeRelaxed ValidationMode = "relaxed"
	// ModeStrict requires title, primary users, and features.
	ModeStrict ValidationMode = "strict"
)

// ValidationError reports the fields that failed validation.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks the submission against the given mode.
func (s Submission) Validate(mode ValidationMode) error {
	var missing []string

	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(s.PrimaryUsers) == "" {
		missing = append(missing, "primary_users")
	}

	switch mode {
	case ModeStrict:
		if strings.TrimSpace(s.Features) == "" {
			missing = append(missing, "features")
		}
	default:
		if strings.TrimSpace(s.Description) == "" && strings.TrimSpace(s.Features) == "" {
			missing = append(missing, "description or features")
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// CombinedText joins the free-text fields for rule evaluation and retrieval.
func (s Submission) CombinedText() string {
	parts := make([]string, 0, 4)
	for _, field := range []string{s.Title, s.Description, s.PrimaryUsers, s.Features} {
		if strings.TrimSpace(field) != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, "\n")
}
