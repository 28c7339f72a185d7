package model

import (
	"sort"
	"time"
)

// Failure is a record-level error that was counted and skipped.
type Failure struct {
	Entity EntityType
	ID     string
	Err    error
}

// RunSummary totals one extraction command.
type RunSummary struct {
	Command  string
	Fetched  int
	Saved    int
	Skipped  int
	Failures []Failure
	Duration time.Duration
	// Aborted is the page-level error that ended the run early, if any.
	Aborted error
}

// Failed returns the number of record-level failures.
func (s *RunSummary) Failed() int {
	return len(s.Failures)
}

// AddFailure records a skipped record.
func (s *RunSummary) AddFailure(entity EntityType, id string, err error) {
	s.Failures = append(s.Failures, Failure{Entity: entity, ID: id, Err: err})
}

// OK reports whether every record succeeded and the run was not aborted.
func (s *RunSummary) OK() bool {
	return s.Aborted == nil && len(s.Failures) == 0
}

// DiscrepancyKind classifies a cache inconsistency.
type DiscrepancyKind string

const (
	OrphanFile           DiscrepancyKind = "orphan_file"
	OrphanIndexRow       DiscrepancyKind = "orphan_index_row"
	DuplicateIndexRow    DiscrepancyKind = "duplicate_index_row"
	UnreadableIndex      DiscrepancyKind = "unreadable_index"
	IncompleteAttachment DiscrepancyKind = "incomplete_attachment"
	OrphanAttachments    DiscrepancyKind = "orphan_attachments"
	OrphanActivityFeed   DiscrepancyKind = "orphan_activity_feed"
	PartialRecordFile    DiscrepancyKind = "partial_record_file"
)

// Discrepancy is one structural problem found by the cache checker.
type Discrepancy struct {
	Kind   DiscrepancyKind
	Entity EntityType
	ID     string
	Path   string
	Detail string
}

// CheckReport lists every discrepancy found in the cache.
type CheckReport struct {
	Discrepancies []Discrepancy
	// Checked counts index rows examined per entity type.
	Checked map[EntityType]int
}

// Add appends a discrepancy.
func (r *CheckReport) Add(d Discrepancy) {
	r.Discrepancies = append(r.Discrepancies, d)
}

// Clean reports whether no discrepancy was found.
func (r *CheckReport) Clean() bool {
	return len(r.Discrepancies) == 0
}

// ByKind returns the discrepancies of one kind.
func (r *CheckReport) ByKind(kind DiscrepancyKind) []Discrepancy {
	var out []Discrepancy
	for _, d := range r.Discrepancies {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// IncompleteCandidates returns the distinct candidate ids with incomplete attachments, sorted.
func (r *CheckReport) IncompleteCandidates() []string {
	seen := make(map[string]struct{})
	for _, d := range r.ByKind(IncompleteAttachment) {
		seen[d.ID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CacheStats counts what the cache holds.
type CacheStats struct {
	Records             map[EntityType]int
	ActivityFeeds       int
	Attachments         int
	CompleteAttachments int
}

// ReferenceCategory is one cross-entity reference finding.
type ReferenceCategory struct {
	Title   string
	Members []string
}

// ReferenceReport lists cross-entity reference findings in display order.
type ReferenceReport struct {
	Categories []ReferenceCategory
}
