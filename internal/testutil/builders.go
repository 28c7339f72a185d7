// Package testutil provides testing utilities and helpers for the extractor.
package testutil

import (
	"time"
)

// RecordBuilder provides a fluent interface for building Harvest API payloads for testing.
type RecordBuilder struct {
	doc map[string]any
}

// NewRecord creates a RecordBuilder with an id and a created_at of TestTime.
func NewRecord(id int64) *RecordBuilder {
	return &RecordBuilder{
		doc: map[string]any{
			"id":         id,
			"created_at": TestTime().Format(time.RFC3339),
		},
	}
}

// With sets an arbitrary field.
func (b *RecordBuilder) With(key string, value any) *RecordBuilder {
	b.doc[key] = value
	return b
}

// Without removes a field.
func (b *RecordBuilder) Without(key string) *RecordBuilder {
	delete(b.doc, key)
	return b
}

// CreatedAt sets created_at from a timestamp.
func (b *RecordBuilder) CreatedAt(t time.Time) *RecordBuilder {
	b.doc["created_at"] = t.UTC().Format(time.RFC3339)
	return b
}

// WithAttachments sets the candidate attachments list.
func (b *RecordBuilder) WithAttachments(attachments ...map[string]any) *RecordBuilder {
	list := make([]any, 0, len(attachments))
	for _, a := range attachments {
		list = append(list, a)
	}
	b.doc["attachments"] = list
	return b
}

// Build returns the payload.
func (b *RecordBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.doc))
	for k, v := range b.doc {
		out[k] = v
	}
	return out
}

// Candidate builds a candidate payload.
func Candidate(id int64, first, last string) *RecordBuilder {
	return NewRecord(id).With("first_name", first).With("last_name", last)
}

// Application builds an application payload linking a candidate to one job.
func Application(id, candidateID, jobID int64) *RecordBuilder {
	return NewRecord(id).
		With("candidate_id", candidateID).
		With("jobs", []any{map[string]any{"id": jobID, "name": "Job"}})
}

// Job builds a job payload.
func Job(id int64, name string) *RecordBuilder {
	return NewRecord(id).With("name", name)
}

// Offer builds an offer payload.
func Offer(id, candidateID, applicationID int64) *RecordBuilder {
	return NewRecord(id).With("candidate_id", candidateID).With("application_id", applicationID)
}

// Scorecard builds a scorecard payload.
func Scorecard(id, candidateID int64) *RecordBuilder {
	return NewRecord(id).With("candidate_id", candidateID)
}

// Source builds a source payload. Sources carry no created_at.
func Source(id int64, name string) *RecordBuilder {
	return NewRecord(id).With("name", name).Without("created_at")
}

// AttachmentDoc builds one entry of a candidate's attachments list.
func AttachmentDoc(filename, url, kind string, createdAt time.Time) map[string]any {
	return map[string]any{
		"filename":   filename,
		"url":        url,
		"type":       kind,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	}
}
