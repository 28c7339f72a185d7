package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout used for retrieval timestamps in index rows.
const TimestampLayout = time.RFC3339

// Record is one entity instance fetched from the API, ready to be cached.
type Record struct {
	Entity    EntityType
	ID        string
	Moniker   string
	Timestamp time.Time
	// CreatedAt is the record's own created_at value when the payload carries one.
	CreatedAt *time.Time
	// Payload is the JSON document exactly as received.
	Payload json.RawMessage
}

// IndexRow returns the row that describes r in its entity index.
func (r Record) IndexRow() IndexRow {
	return IndexRow{
		ID:        r.ID,
		Moniker:   r.Moniker,
		Timestamp: FormatTimestamp(r.Timestamp),
	}
}

// FormatTimestamp renders t the way index rows store it (UTC, second precision).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// DateFilter bounds a fetch by record creation time.
// After is inclusive, Before is exclusive; a nil bound is unbounded.
type DateFilter struct {
	After  *time.Time
	Before *time.Time
}

// ParseDateFilter parses the created_after / created_before flag values.
// Each accepts YYYY-MM-DD (midnight UTC) or an RFC 3339 timestamp; empty means unbounded.
func ParseDateFilter(after, before string) (DateFilter, error) {
	var f DateFilter
	var err error
	if f.After, err = parseBound(after); err != nil {
		return DateFilter{}, fmt.Errorf("created_after: %w", err)
	}
	if f.Before, err = parseBound(before); err != nil {
		return DateFilter{}, fmt.Errorf("created_before: %w", err)
	}
	if f.After != nil && f.Before != nil && !f.After.Before(*f.Before) {
		return DateFilter{}, fmt.Errorf("created_after (%s) must be earlier than created_before (%s)",
			f.After.Format(time.RFC3339), f.Before.Format(time.RFC3339))
	}
	return f, nil
}

func parseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not an ISO-8601 date", s)
}

// IsZero reports whether the filter is unbounded in both directions.
func (f DateFilter) IsZero() bool {
	return f.After == nil && f.Before == nil
}

// Contains reports whether a record created at t falls inside the filter.
func (f DateFilter) Contains(t time.Time) bool {
	if f.After != nil && t.Before(*f.After) {
		return false
	}
	if f.Before != nil && !t.Before(*f.Before) {
		return false
	}
	return true
}

// Params renders the filter as Harvest query parameters.
func (f DateFilter) Params() map[string]string {
	params := make(map[string]string, 2)
	if f.After != nil {
		params["created_after"] = f.After.UTC().Format(time.RFC3339)
	}
	if f.Before != nil {
		params["created_before"] = f.Before.UTC().Format(time.RFC3339)
	}
	return params
}

// String renders the filter for logs.
func (f DateFilter) String() string {
	if f.IsZero() {
		return "unbounded"
	}
	var parts []string
	if f.After != nil {
		parts = append(parts, ">="+f.After.Format(time.RFC3339))
	}
	if f.Before != nil {
		parts = append(parts, "<"+f.Before.Format(time.RFC3339))
	}
	return strings.Join(parts, " ")
}
