// Package core defines the ports between the extraction services and their collaborators.
package core

import (
	"context"
	"encoding/json"
	"io"
	"iter"

	"github.com/target/harvest-extract/internal/domain/model"
)

// This file contains the port definitions (hexagonal architecture).
// Services depend on these interfaces; internal/data and internal/adapters provide implementations.

// HarvestClient is the remote recruiting API.
type HarvestClient interface {
	// List lazily yields every item of a paginated collection. The sequence is finite and
	// cannot be restarted; an error ends it.
	List(ctx context.Context, resource string, filter model.DateFilter) iter.Seq2[json.RawMessage, error]
	// Get fetches a single JSON document.
	Get(ctx context.Context, resource string) (json.RawMessage, error)
	// Download streams the body behind an attachment URL into w.
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// RecordRepository persists one JSON file per record under its entity folder.
type RecordRepository interface {
	Put(entity model.EntityType, id string, payload []byte) (string, error)
	Get(entity model.EntityType, id string) ([]byte, error)
	Exists(entity model.EntityType, id string) (bool, error)
	List(entity model.EntityType) ([]string, error)
	// PartialFiles lists temp files an interrupted write left in the entity folder.
	PartialFiles(entity model.EntityType) ([]string, error)

	PutActivityFeed(candidateID string, payload []byte) (string, error)
	HasActivityFeed(candidateID string) (bool, error)
	ActivityFeedIDs() ([]string, error)
}

// IndexRepository persists the index.csv of each entity folder.
type IndexRepository interface {
	// Read returns every row in file order, duplicates included.
	Read(entity model.EntityType) ([]model.IndexRow, error)
	// Load returns the keyed index.
	Load(entity model.EntityType) (*model.Index, error)
	Save(entity model.EntityType, idx *model.Index) error
	// Append upserts a single row by id.
	Append(entity model.EntityType, row model.IndexRow) error
}

// AttachmentRepository stores candidate attachments with completion markers.
type AttachmentRepository interface {
	// IsComplete reports whether the attachment's data file and marker are both present.
	IsComplete(candidateID string, a model.Attachment) (bool, error)
	// Save streams the attachment through write into a temporary file, moves it into
	// place and writes the marker. On error nothing is left marked complete.
	Save(candidateID string, a model.Attachment, write func(io.Writer) error) (string, error)
	// Scan lists every attachment folder in the cache.
	Scan() ([]model.StoredAttachment, error)
	// CandidateIDs lists candidates that own an attachments folder.
	CandidateIDs() ([]string, error)
}
