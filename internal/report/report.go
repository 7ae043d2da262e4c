// Package report defines the structured feasibility report contract and the
// parser that recovers it from raw model output.
package report

// Feasibility scores the idea and summarizes the verdict.
type Feasibility struct {
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
}

// SheetSchema describes one spreadsheet tab in the proposed data model.
type SheetSchema struct {
	Sheet   string   `json:"sheet"`
	Columns []string `json:"columns"`
}

// Endpoint describes one web-app endpoint in the blueprint.
type Endpoint struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

// Trigger describes one time-driven trigger in the blueprint.
type Trigger struct {
	Type  string `json:"type"`
	Every string `json:"every"`
}

// Blueprint is the proposed implementation design.
type Blueprint struct {
	DataSchema []SheetSchema `json:"data_schema"`
	Services   []string      `json:"services"`
	Scopes     []string      `json:"scopes"`
	Endpoints  []Endpoint    `json:"endpoints"`
	Triggers   []Trigger     `json:"triggers"`
	KPIs       []string      `json:"kpis"`
}

// Snippet is a titled sample-code block.
type Snippet struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

// StructuredReport is the full report the model is instructed to produce.
// Every top-level key is optional on the wire; after parsing, every field
// holds its zero value or an empty (non-nil) collection, so the renderer
// never has to check for missing keys.
type StructuredReport struct {
	Feasibility Feasibility `json:"feasibility"`
	Adjustments []string    `json:"adjustments"`
	Blueprint   Blueprint   `json:"blueprint"`
	GasSnippets []Snippet   `json:"gas_snippets"`
	Risks       []string    `json:"risks"`
	PRD         string      `json:"prd"`
	NextSteps   []string    `json:"next_steps"`
}

// applyDefaults replaces nil collections so downstream code can range over
// every field without existence checks.
func (r *StructuredReport) applyDefaults() {
	if r.Adjustments == nil {
		r.Adjustments = []string{}
	}
	if r.Blueprint.DataSchema == nil {
		r.Blueprint.DataSchema = []SheetSchema{}
	}
	if r.Blueprint.Services == nil {
		r.Blueprint.Services = []string{}
	}
	if r.Blueprint.Scopes == nil {
		r.Blueprint.Scopes = []string{}
	}
	if r.Blueprint.Endpoints == nil {
		r.Blueprint.Endpoints = []Endpoint{}
	}
	if r.Blueprint.Triggers == nil {
		r.Blueprint.Triggers = []Trigger{}
	}
	if r.Blueprint.KPIs == nil {
		r.Blueprint.KPIs = []string{}
	}
	if r.GasSnippets == nil {
		r.GasSnippets = []Snippet{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
	if r.NextSteps == nil {
		r.NextSteps = []string{}
	}
}
