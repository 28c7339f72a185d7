package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
)

// ErrOutsideFilter marks a record whose created_at falls outside the requested window.
var ErrOutsideFilter = errors.New("created_at outside requested window")

// RecordError is a failure confined to one record. A sequence that yields it keeps going;
// any other error ends the sequence.
type RecordError struct {
	Entity model.EntityType
	ID     string
	Err    error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s record: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Entity, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// FetcherOptions groups dependencies for Fetcher.
type FetcherOptions struct {
	Client   core.HarvestClient // Required: remote API
	Monikers *model.Monikers    // Optional: defaults to model.DefaultMonikerRules
	Clock    func() time.Time   // Optional: retrieval clock
}

// Fetcher turns raw Harvest pages into records ready to be cached.
type Fetcher struct {
	client   core.HarvestClient
	monikers *model.Monikers
	now      func() time.Time
}

// NewFetcher constructs a Fetcher.
func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if opts.Client == nil {
		return nil, errors.New("HarvestClient is required")
	}
	monikers := opts.Monikers
	if monikers == nil {
		var err error
		monikers, err = model.NewMonikers(model.DefaultMonikerRules(), nil)
		if err != nil {
			return nil, fmt.Errorf("default moniker rules: %w", err)
		}
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Fetcher{client: opts.Client, monikers: monikers, now: now}, nil
}

// Fetch lazily yields every record of an entity type within filter.
//
// Per-record problems (missing id, undecodable item, created_at outside the window) are
// yielded as *RecordError and the sequence continues. A page-level error is yielded as is
// and ends the sequence.
func (f *Fetcher) Fetch(ctx context.Context, entity model.EntityType, filter model.DateFilter) iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		for raw, err := range f.client.List(ctx, entity.String(), filter) {
			if err != nil {
				yield(model.Record{}, err)
				return
			}
			rec, err := f.Decode(entity, raw)
			if err == nil && rec.CreatedAt != nil && !filter.Contains(*rec.CreatedAt) {
				err = &RecordError{Entity: entity, ID: rec.ID, Err: ErrOutsideFilter}
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Decode builds a record from one raw item. Errors are always *RecordError.
func (f *Fetcher) Decode(entity model.EntityType, raw json.RawMessage) (model.Record, error) {
	doc, err := model.DecodePayload(raw)
	if err != nil {
		return model.Record{}, &RecordError{Entity: entity, Err: fmt.Errorf("decode: %w", err)}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return model.Record{}, &RecordError{Entity: entity, Err: errors.New("item is not a JSON object")}
	}

	id, err := recordID(obj)
	if err != nil {
		return model.Record{}, &RecordError{Entity: entity, Err: err}
	}

	moniker, err := f.monikers.Derive(entity, obj)
	if err != nil {
		return model.Record{}, &RecordError{Entity: entity, ID: id, Err: fmt.Errorf("moniker: %w", err)}
	}

	return model.Record{
		Entity:    entity,
		ID:        id,
		Moniker:   moniker,
		Timestamp: f.now().UTC().Truncate(time.Second),
		CreatedAt: createdAt(obj),
		Payload:   raw,
	}, nil
}

func recordID(obj map[string]any) (string, error) {
	var id string
	switch v := obj["id"].(type) {
	case json.Number:
		id = v.String()
	case string:
		id = strings.TrimSpace(v)
	case nil:
		return "", errors.New("item has no id")
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
	if err := model.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

func createdAt(obj map[string]any) *time.Time {
	raw, ok := obj["created_at"].(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
