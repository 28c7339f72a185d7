package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/observability/metrics"
	"github.com/target/harvest-extract/internal/observability/statsd"
)

// ExtractServiceOptions groups dependencies for ExtractService.
type ExtractServiceOptions struct {
	Fetcher   *Fetcher  // Required: record source
	Stores    Stores    // Required: Records and Index
	Telemetry Telemetry // Optional: logger, metrics, clock
}

// ExtractService copies one entity collection into the cache.
//
// Each record is written to its own file first and then upserted into the in-memory index,
// which is flushed to index.csv every FlushEvery records and once more at the end, so the
// index never names a file that was not written.
type ExtractService struct {
	fetcher *Fetcher
	stores  Stores
	tel     Telemetry
	logger  *slog.Logger
	metrics statsd.Sink

	// FlushEvery is the number of saved records between index flushes; normally the page size.
	FlushEvery int
}

// NewExtractService constructs a new ExtractService.
func NewExtractService(opts ExtractServiceOptions) (*ExtractService, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("Fetcher is required")
	}
	if opts.Stores.Records == nil || opts.Stores.Index == nil {
		return nil, errors.New("RecordRepository and IndexRepository are required")
	}
	return &ExtractService{
		fetcher:    opts.Fetcher,
		stores:     opts.Stores,
		tel:        opts.Telemetry,
		logger:     opts.Telemetry.logger("extract_service"),
		metrics:    opts.Telemetry.Metrics,
		FlushEvery: 100,
	}, nil
}

// Run fetches every record of entity within filter and caches it.
//
// Record-level failures are counted in the summary and the run continues. A page-level
// failure stops the run and is reported as summary.Aborted. The returned error is reserved
// for failures that leave the index unwritable.
func (s *ExtractService) Run(ctx context.Context, entity model.EntityType, filter model.DateFilter) (*model.RunSummary, error) {
	start := s.tel.now()
	summary := &model.RunSummary{Command: entity.String()}

	idx, err := s.stores.Index.Load(entity)
	if err != nil {
		return summary, fmt.Errorf("load %s index: %w", entity, err)
	}

	s.logger.InfoContext(ctx, "extract started", "entity", entity, "filter", filter.String())

	pending := 0
	for rec, err := range s.fetcher.Fetch(ctx, entity, filter) {
		if err != nil {
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				summary.Aborted = err
				s.logger.ErrorContext(ctx, "extract aborted", "entity", entity, "error", err)
				break
			}
			summary.Fetched++
			s.recordError(ctx, summary, recErr)
			continue
		}
		summary.Fetched++

		if _, err := s.stores.Records.Put(entity, rec.ID, rec.Payload); err != nil {
			summary.AddFailure(entity, rec.ID, err)
			s.logger.WarnContext(ctx, "record write failed", "entity", entity, "id", rec.ID, "error", err)
			metrics.EmitRecord(s.metrics, metrics.RecordMetric{Entity: entity.String(), Result: metrics.ResultError, Err: err})
			continue
		}
		idx.Upsert(rec.IndexRow())
		summary.Saved++
		pending++
		s.logger.InfoContext(ctx, "record saved", "entity", entity, "id", rec.ID, "moniker", rec.Moniker)
		metrics.EmitRecord(s.metrics, metrics.RecordMetric{Entity: entity.String(), Result: metrics.ResultSuccess})

		if s.FlushEvery > 0 && pending >= s.FlushEvery {
			if err := s.stores.Index.Save(entity, idx); err != nil {
				summary.Duration = s.tel.now().Sub(start)
				return summary, fmt.Errorf("flush %s index: %w", entity, err)
			}
			pending = 0
		}
	}

	if pending > 0 {
		if err := s.stores.Index.Save(entity, idx); err != nil {
			summary.Duration = s.tel.now().Sub(start)
			return summary, fmt.Errorf("flush %s index: %w", entity, err)
		}
	}

	summary.Duration = s.tel.now().Sub(start)
	return summary, nil
}

func (s *ExtractService) recordError(ctx context.Context, summary *model.RunSummary, recErr *RecordError) {
	if errors.Is(recErr, ErrOutsideFilter) {
		summary.Skipped++
		s.logger.DebugContext(ctx, "record outside window", "entity", recErr.Entity, "id", recErr.ID)
		metrics.EmitRecord(s.metrics, metrics.RecordMetric{Entity: recErr.Entity.String(), Result: metrics.ResultSkipped})
		return
	}
	summary.AddFailure(recErr.Entity, recErr.ID, recErr.Err)
	s.logger.WarnContext(ctx, "record rejected", "entity", recErr.Entity, "id", recErr.ID, "error", recErr.Err)
	metrics.EmitRecord(s.metrics, metrics.RecordMetric{Entity: recErr.Entity.String(), Result: metrics.ResultError, Err: recErr.Err})
}
