package report

import (
	"encoding/json"
	"regexp"
	"strings"
)

// UnparseableError is returned when neither parse stage could decode the
// model output. Raw carries the original text verbatim so it can be shown
// to the operator unchanged.
type UnparseableError struct {
	Raw string
}

func (e *UnparseableError) Error() string {
	return "model reply is not valid JSON"
}

// fenceOpen matches a fenced-code opening line with an optional language tag.
var fenceOpen = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*$")

// Parse decodes raw model output into a StructuredReport.
//
// Stage one parses the whole string as JSON. Stage two, attempted only when
// stage one fails, parses the substring between the first '{' and the last
// '}' inclusive, which tolerates prose or fence markers around the payload.
// Missing top-level keys become documented defaults; only invalid JSON
// syntax is an error.
func Parse(raw string) (*StructuredReport, error) {
	rep, ok := parseStrict(raw)
	if !ok {
		extracted, found := extractObject(raw)
		if found {
			rep, ok = parseStrict(extracted)
		}
	}
	if !ok {
		return nil, &UnparseableError{Raw: raw}
	}

	rep.applyDefaults()
	for i := range rep.GasSnippets {
		rep.GasSnippets[i].Code = StripFence(rep.GasSnippets[i].Code)
	}
	return rep, nil
}

// parseStrict is the first stage: the entire input must be a JSON object.
func parseStrict(s string) (*StructuredReport, bool) {
	var rep StructuredReport
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		return nil, false
	}
	return &rep, true
}

// extractObject is the second stage: bound the payload by the first '{' and
// the last '}' in the input.
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// StripFence removes a single leading fenced-code opening line and a single
// trailing closing line from a snippet. Snippets without fences pass through
// unchanged, and fence-like text in the middle of the body is left alone.
func StripFence(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) < 2 || !fenceOpen.MatchString(lines[0]) {
		return code
	}

	lines = lines[1:]
	if last := len(lines) - 1; strings.TrimRight(lines[last], " \t") == "```" {
		lines = lines[:last]
	}
	return strings.Join(lines, "\n")
}
