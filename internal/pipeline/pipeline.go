// Package pipeline runs one idea submission through the full generation
// sequence: rule pre-screen, prompt assembly, model call, and parsing.
// Each run is synchronous and independent; the knowledge snapshot is the
// only state shared across runs.
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vibecoding/ideaforge/internal/feedback"
	"github.com/vibecoding/ideaforge/internal/idea"
	"github.com/vibecoding/ideaforge/internal/llm"
	"github.com/vibecoding/ideaforge/internal/prompt"
	"github.com/vibecoding/ideaforge/internal/rag"
	"github.com/vibecoding/ideaforge/internal/report"
	"github.com/vibecoding/ideaforge/internal/rules"
)

// Stage identifies how far a run progressed.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageRuleChecked Stage = "rule_checked"
	StagePromptBuilt Stage = "prompt_built"
	StageModelCalled Stage = "model_called"
	StageParsed      Stage = "parsed"
	StageReported    Stage = "reported"
)

// Error wraps a failure with the stage it halted at. Raw carries the model
// output verbatim for parse failures so operators can inspect it.
type Error struct {
	Stage Stage
	Err   error
	Raw   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline halted at %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is a completed run.
type Result struct {
	ID     string                   `json:"id"`
	Stage  Stage                    `json:"stage"`
	Rule   rules.Result             `json:"rule"`
	Report *report.StructuredReport `json:"report"`
}

// KnowledgeSource provides the reference text for prompt grounding.
type KnowledgeSource interface {
	Snapshot() string
}

// Pipeline wires the stages together. Feedback and Retriever are optional;
// when Retriever is set, retrieved chunks replace the raw snapshot as the
// knowledge injected into the prompt.
type Pipeline struct {
	Rules      *rules.Engine
	Builder    prompt.Builder
	Client     llm.Completer
	Knowledge  KnowledgeSource
	Feedback   *feedback.Store
	Retriever  *rag.Store
	RetrieveK  int
	Validation idea.ValidationMode
}

// Run executes the full sequence for one submission. A failed stage halts
// the run; the caller surfaces the error and the user resubmits from idle.
func (p *Pipeline) Run(ctx context.Context, sub idea.Submission) (*Result, error) {
	if err := sub.Validate(p.Validation); err != nil {
		return nil, &Error{Stage: StageIdle, Err: err}
	}

	text := sub.CombinedText()
	rule := p.Rules.Evaluate(text)

	knowledge := p.knowledgeFor(ctx, text)

	// Title first, then the combined text for summary phrasing that only
	// shows up in the description.
	var feedbackBlock string
	if p.Feedback != nil {
		match, ok := p.Feedback.Lookup(sub.Title)
		if !ok {
			match, ok = p.Feedback.Lookup(text)
		}
		if ok {
			feedbackBlock = match.PromptBlock()
		}
	}

	system, user := p.Builder.BuildWithFeedback(sub, rule, knowledge, feedbackBlock)

	raw, err := p.Client.Complete(ctx, system, user)
	if err != nil {
		return nil, &Error{Stage: StageModelCalled, Err: err}
	}

	rep, err := report.Parse(raw)
	if err != nil {
		return nil, &Error{Stage: StageParsed, Err: err, Raw: raw}
	}

	return &Result{
		ID:     uuid.NewString(),
		Stage:  StageReported,
		Rule:   rule,
		Report: rep,
	}, nil
}

// knowledgeFor returns retrieved context when a retriever is configured,
// falling back to the raw snapshot when retrieval fails or is disabled.
func (p *Pipeline) knowledgeFor(ctx context.Context, text string) string {
	snapshot := ""
	if p.Knowledge != nil {
		snapshot = p.Knowledge.Snapshot()
	}
	if p.Retriever == nil || snapshot == "" {
		return snapshot
	}

	results, err := p.Retriever.Search(ctx, text, p.RetrieveK)
	if err != nil {
		log.Warn("knowledge retrieval failed, using raw snapshot", "error", err)
		return snapshot
	}
	if len(results) == 0 {
		return snapshot
	}
	return rag.Context(results)
}
