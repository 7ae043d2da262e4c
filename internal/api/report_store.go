package api

import (
	"sync"

	"github.com/vibecoding/ideaforge/internal/pipeline"
)

// ReportStore keeps the most recent successful run in memory. The app is
// single-report by design: a new submission replaces whatever was stored.
type ReportStore struct {
	mu   sync.RWMutex
	last *pipeline.Result
}

// NewReportStore creates an empty report store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Put stores the result of a completed run.
func (rs *ReportStore) Put(result *pipeline.Result) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.last = result
}

// Last returns the most recent result, or nil when no run has completed.
func (rs *ReportStore) Last() *pipeline.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.last
}

// Clear drops the stored result.
func (rs *ReportStore) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.last = nil
}
