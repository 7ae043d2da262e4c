package prompt

import (
	"strings"
	"testing"

	"github.com/vibecoding/ideaforge/internal/idea"
	"github.com/vibecoding/ideaforge/internal/rules"
)

var testIdea = idea.Submission{
	Title:        "Homework tracker",
	Description:  "Track homework submissions in a sheet",
	PrimaryUsers: "teachers",
	Features:     "reminder mail",
}

func TestBuildInterpolatesIdeaAndRule(t *testing.T) {
	rule := rules.Result{
		Score:      0.5,
		Violations: []string{"Local program execution"},
		Cautions:   []string{"Mass messaging"},
	}

	system, user := Builder{}.Build(testIdea, rule, "reference text")

	if !strings.Contains(system, "Google Apps Script") {
		t.Error("system instruction lost its advisory framing")
	}
	for _, want := range []string{
		"Homework tracker",
		"Track homework submissions in a sheet",
		"teachers",
		"reminder mail",
		"Pre-screen score: 0.50",
		"Local program execution",
		"Mass messaging",
		"reference text",
		"https://www.googleapis.com/auth/spreadsheets",
		"SpreadsheetApp",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user instruction missing %q", want)
		}
	}
}

func TestBuildEmptyListsRenderAsNone(t *testing.T) {
	_, user := Builder{}.Build(testIdea, rules.Result{Score: 0.8}, "")

	if !strings.Contains(user, "Violations: none") {
		t.Error("empty violations did not render as the literal none marker")
	}
	if !strings.Contains(user, "Cautions: none") {
		t.Error("empty cautions did not render as the literal none marker")
	}
	if strings.Contains(user, "<nil>") || strings.Contains(user, "null") {
		t.Error("null markers leaked into the prompt")
	}
}

func TestBuildTruncatesKnowledge(t *testing.T) {
	knowledge := strings.Repeat("k", DefaultKnowledgeLimit+500)
	_, user := Builder{}.Build(testIdea, rules.Result{Score: 0.8}, knowledge)

	if strings.Contains(user, knowledge) {
		t.Error("knowledge was not truncated")
	}
	if !strings.Contains(user, strings.Repeat("k", DefaultKnowledgeLimit)) {
		t.Error("knowledge was truncated below the budget")
	}
}

func TestBuildTruncationKeepsValidUTF8(t *testing.T) {
	// Multibyte text sized so the cutoff lands inside a rune.
	knowledge := strings.Repeat("한", DefaultKnowledgeLimit)
	b := Builder{KnowledgeLimit: 10}
	_, user := b.Build(testIdea, rules.Result{Score: 0.8}, knowledge)

	if strings.Contains(user, "�") {
		t.Error("truncation produced an invalid UTF-8 boundary")
	}
	// 한 is 3 bytes; a 10-byte budget must keep exactly 3 runes.
	if !strings.Contains(user, "한한한") || strings.Contains(user, "한한한한") {
		t.Error("truncation did not back off to a rune boundary")
	}
}

func TestBuildWithFeedbackSection(t *testing.T) {
	_, withFeedback := Builder{}.BuildWithFeedback(testIdea, rules.Result{Score: 0.8}, "", "prior advice")
	_, without := Builder{}.Build(testIdea, rules.Result{Score: 0.8}, "")

	if !strings.Contains(withFeedback, "[PRIOR INSTRUCTOR FEEDBACK]\nprior advice") {
		t.Error("feedback block missing")
	}
	if strings.Contains(without, "[PRIOR INSTRUCTOR FEEDBACK]") {
		t.Error("feedback block rendered without feedback")
	}
}

func TestBuildIsPure(t *testing.T) {
	rule := rules.Result{Score: 0.8}
	s1, u1 := Builder{}.Build(testIdea, rule, "kb")
	s2, u2 := Builder{}.Build(testIdea, rule, "kb")
	if s1 != s2 || u1 != u2 {
		t.Error("Build is not deterministic for identical input")
	}
}
