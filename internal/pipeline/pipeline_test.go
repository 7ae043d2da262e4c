package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecoding/ideaforge/internal/feedback"
	"github.com/vibecoding/ideaforge/internal/idea"
	"github.com/vibecoding/ideaforge/internal/knowledge"
	"github.com/vibecoding/ideaforge/internal/llm"
	"github.com/vibecoding/ideaforge/internal/prompt"
	"github.com/vibecoding/ideaforge/internal/rules"
)

// fakeCompleter records calls and plays back a scripted response.
type fakeCompleter struct {
	calls    int
	lastUser string
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var validSubmission = idea.Submission{
	Title:        "Reading log",
	Description:  "Collect weekly reading logs through a form",
	PrimaryUsers: "homeroom teachers",
}

func newPipeline(t *testing.T, client llm.Completer) *Pipeline {
	t.Helper()
	engine, err := rules.NewEngine()
	require.NoError(t, err)

	store := knowledge.NewStore()
	store.Replace("reference material")

	return &Pipeline{
		Rules:      engine,
		Builder:    prompt.Builder{},
		Client:     client,
		Knowledge:  store,
		Validation: idea.ModeRelaxed,
	}
}

func TestRunFullSequence(t *testing.T) {
	client := &fakeCompleter{response: `{"feasibility":{"score":0.8,"summary":"fine"},"prd":"# doc"}`}
	p := newPipeline(t, client)

	result, err := p.Run(context.Background(), validSubmission)
	require.NoError(t, err)

	assert.Equal(t, StageReported, result.Stage)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 0.8, result.Rule.Score)
	assert.Equal(t, 0.8, result.Report.Feasibility.Score)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, client.lastUser, "reference material")
	assert.Contains(t, client.lastUser, "Reading log")
}

func TestRunInvalidSubmissionSkipsModel(t *testing.T) {
	client := &fakeCompleter{response: "{}"}
	p := newPipeline(t, client)

	_, err := p.Run(context.Background(), idea.Submission{Title: "only a title"})
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageIdle, perr.Stage)
	assert.Equal(t, 0, client.calls, "no model call may happen for an invalid submission")
}

func TestRunModelFailureHaltsAtModelCalled(t *testing.T) {
	client := &fakeCompleter{err: llm.ErrNotConfigured}
	p := newPipeline(t, client)

	_, err := p.Run(context.Background(), validSubmission)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageModelCalled, perr.Stage)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestRunParseFailureCarriesRawText(t *testing.T) {
	client := &fakeCompleter{response: "the model rambled instead of answering"}
	p := newPipeline(t, client)

	_, err := p.Run(context.Background(), validSubmission)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageParsed, perr.Stage)
	assert.Equal(t, "the model rambled instead of answering", perr.Raw)
}

func TestRunRuleResultReachesPrompt(t *testing.T) {
	client := &fakeCompleter{response: "{}"}
	p := newPipeline(t, client)

	sub := validSubmission
	sub.Description = "send bulk email to every parent"
	result, err := p.Run(context.Background(), sub)
	require.NoError(t, err)

	assert.Len(t, result.Rule.Cautions, 1)
	assert.Contains(t, client.lastUser, "Mass messaging")
	assert.True(t, strings.Contains(client.lastUser, "0.70"), "pre-screen score must be interpolated")
}

func TestRunTitleMatchPullsFeedbackIntoPrompt(t *testing.T) {
	csv := `idea_summary,feasibility_apps_script,instructor_feedback,alternative_suggestion
weekly reading log collector with reminder mails,high,"Use a form trigger","Start with one class"
`
	path := filepath.Join(t.TempDir(), "instructor_feedback.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	store, err := feedback.Load(path)
	require.NoError(t, err)

	client := &fakeCompleter{response: "{}"}
	p := newPipeline(t, client)
	p.Feedback = store

	// "Reading log" only matches the stored summary through the title,
	// not the full combined text.
	_, err = p.Run(context.Background(), validSubmission)
	require.NoError(t, err)
	assert.Contains(t, client.lastUser, "Use a form trigger")
}

func TestRunWithoutKnowledgeSource(t *testing.T) {
	client := &fakeCompleter{response: "{}"}
	p := newPipeline(t, client)
	p.Knowledge = nil

	_, err := p.Run(context.Background(), validSubmission)
	require.NoError(t, err)
}
