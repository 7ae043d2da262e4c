// Package prompt assembles the system and user instructions sent to the
// model. Assembly is pure string work; all inputs are treated as opaque text.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vibecoding/ideaforge/internal/idea"
	"github.com/vibecoding/ideaforge/internal/rules"
)

// DefaultKnowledgeLimit is the hard character budget for injected knowledge.
// Truncation is a plain cutoff, never summarization.
const DefaultKnowledgeLimit = 6000

// MaxSnippetLines caps each sample-code block the model may emit.
const MaxSnippetLines = 80

// capability is one integration primitive of the target platform.
type capability struct {
	Name string
	Note string
}

// scopeEntry maps a named permission scope to its URI.
type scopeEntry struct {
	Name string
	URI  string
}

// The closed capability vocabulary presented to the model. Order is fixed so
// prompts are reproducible.
var capabilities = []capability{
	{"SpreadsheetApp", "read/write Google Sheets"},
	{"GmailApp / MailApp", "send and search mail"},
	{"DriveApp", "create and organize Drive files"},
	{"CalendarApp", "manage calendar events"},
	{"FormApp", "create forms and read responses"},
	{"DocumentApp", "generate and edit Docs"},
	{"Web App (doGet/doPost)", "serve simple HTTP endpoints"},
	{"ScriptApp triggers", "time-driven and event-driven triggers"},
	{"UrlFetchApp", "call external HTTP APIs, including Gemini"},
	{"PropertiesService / CacheService", "small key-value state"},
}

var scopes = []scopeEntry{
	{"spreadsheets", "https://www.googleapis.com/auth/spreadsheets"},
	{"gmail.send", "https://www.googleapis.com/auth/gmail.send"},
	{"drive", "https://www.googleapis.com/auth/drive"},
	{"calendar", "https://www.googleapis.com/auth/calendar"},
	{"forms", "https://www.googleapis.com/auth/forms"},
	{"documents", "https://www.googleapis.com/auth/documents"},
	{"external_request", "https://www.googleapis.com/auth/script.external_request"},
	{"scriptapp", "https://www.googleapis.com/auth/script.scriptapp"},
}

var systemInstruction = fmt.Sprintf(`You are a senior Google Apps Script consultant advising teachers on
automation ideas. Judge every idea strictly against what Apps Script can
actually do with the capability list and permission scopes provided in the
user message; never propose anything outside that vocabulary.

Your entire reply must be exactly one JSON object with this shape and no
other text:

{
  "feasibility": {"score": 0.0, "summary": ""},
  "adjustments": [""],
  "blueprint": {
    "data_schema": [{"sheet": "", "columns": [""]}],
    "services": [""],
    "scopes": [""],
    "endpoints": [{"path": "", "method": "", "fields": [""]}],
    "triggers": [{"type": "", "every": ""}],
    "kpis": [""]
  },
  "gas_snippets": [{"title": "", "code": ""}],
  "risks": [""],
  "prd": "",
  "next_steps": [""]
}

Rules:
- Write all natural-language content in the language of the submission.
- When no reference knowledge supports a claim, label it "estimated".
- Keep each gas_snippets code sample under %d lines.
- The risks list must explicitly cover privacy, permission scopes, and
  service quotas where relevant.
- "prd" is a complete markdown product requirements document.`, MaxSnippetLines)

// Builder assembles prompts. The zero value uses DefaultKnowledgeLimit.
type Builder struct {
	// KnowledgeLimit overrides the knowledge character budget when > 0.
	KnowledgeLimit int
}

// Build assembles the (system, user) instruction pair.
func (b Builder) Build(sub idea.Submission, rule rules.Result, knowledge string) (string, string) {
	return b.BuildWithFeedback(sub, rule, knowledge, "")
}

// BuildWithFeedback additionally injects a prior-instructor-feedback block
// when feedback is non-empty.
func (b Builder) BuildWithFeedback(sub idea.Submission, rule rules.Result, knowledge, feedback string) (string, string) {
	limit := b.KnowledgeLimit
	if limit <= 0 {
		limit = DefaultKnowledgeLimit
	}

	var sb strings.Builder

	sb.WriteString("[IDEA]\n")
	fmt.Fprintf(&sb, "Title: %s\n", sub.Title)
	fmt.Fprintf(&sb, "Description: %s\n", sub.Description)
	fmt.Fprintf(&sb, "Primary users: %s\n", sub.PrimaryUsers)
	fmt.Fprintf(&sb, "Key features: %s\n", sub.Features)

	sb.WriteString("\n[RULE PRE-SCREEN]\n")
	fmt.Fprintf(&sb, "Pre-screen score: %.2f\n", rule.Score)
	fmt.Fprintf(&sb, "Violations: %s\n", listOrNone(rule.Violations))
	fmt.Fprintf(&sb, "Cautions: %s\n", listOrNone(rule.Cautions))

	sb.WriteString("\n[PLATFORM CAPABILITIES]\n")
	for _, cap := range capabilities {
		fmt.Fprintf(&sb, "- %s: %s\n", cap.Name, cap.Note)
	}

	sb.WriteString("\n[PERMISSION SCOPES]\n")
	for _, scope := range scopes {
		fmt.Fprintf(&sb, "- %s: %s\n", scope.Name, scope.URI)
	}

	sb.WriteString("\n[REFERENCE KNOWLEDGE]\n")
	sb.WriteString(truncate(knowledge, limit))
	sb.WriteString("\n")

	if feedback != "" {
		sb.WriteString("\n[PRIOR INSTRUCTOR FEEDBACK]\n")
		sb.WriteString(feedback)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRespond with the JSON object only. No prose, no markdown fences.")

	return systemInstruction, sb.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// truncate cuts at the byte budget without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
