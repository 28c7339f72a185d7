package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
	"github.com/target/harvest-extract/internal/observability/metrics"
)

// activityFeedEntity tags activity feed metrics and failures.
const activityFeedEntity model.EntityType = "activity_feeds"

// ActivityFeedServiceOptions groups dependencies for ActivityFeedService.
type ActivityFeedServiceOptions struct {
	Client    core.HarvestClient // Required: remote API
	Stores    Stores             // Required: Records and Index
	Telemetry Telemetry          // Optional: logger, metrics, clock
}

// ActivityFeedService caches candidates/<id>/activity_feed for every indexed candidate.
type ActivityFeedService struct {
	client core.HarvestClient
	stores Stores
	tel    Telemetry
	logger *slog.Logger
}

// NewActivityFeedService constructs a new ActivityFeedService.
func NewActivityFeedService(opts ActivityFeedServiceOptions) (*ActivityFeedService, error) {
	if opts.Client == nil {
		return nil, errors.New("HarvestClient is required")
	}
	if opts.Stores.Records == nil || opts.Stores.Index == nil {
		return nil, errors.New("RecordRepository and IndexRepository are required")
	}
	return &ActivityFeedService{
		client: opts.Client,
		stores: opts.Stores,
		tel:    opts.Telemetry,
		logger: opts.Telemetry.logger("activity_feed_service"),
	}, nil
}

// Run fetches the activity feed of each cached candidate. Feeds already on disk are skipped
// unless refresh is set. A failed feed is counted and the run moves on; cancellation and
// rejected credentials stop it.
func (s *ActivityFeedService) Run(ctx context.Context, filter model.DateFilter, refresh bool) (*model.RunSummary, error) {
	start := s.tel.now()
	summary := &model.RunSummary{Command: activityFeedEntity.String()}
	defer func() { summary.Duration = s.tel.now().Sub(start) }()

	ids, skipped, err := cachedCandidates(ctx, s.stores, filter, s.logger)
	if err != nil {
		return summary, err
	}
	summary.Skipped += skipped

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			summary.Aborted = apperrors.Wrap(err, apperrors.ErrCodeCanceled, "activity feeds interrupted")
			break
		}

		if !refresh {
			has, err := s.stores.Records.HasActivityFeed(id)
			if err != nil {
				s.fail(ctx, summary, id, err)
				continue
			}
			if has {
				summary.Skipped++
				s.logger.DebugContext(ctx, "activity feed cached, skipping", "candidate_id", id)
				metrics.EmitRecord(s.tel.Metrics, metrics.RecordMetric{Entity: activityFeedEntity.String(), Result: metrics.ResultSkipped})
				continue
			}
		}

		feed, err := s.client.Get(ctx, "candidates/"+id+"/activity_feed")
		if err != nil {
			if apperrors.IsCanceled(err) || apperrors.IsUnauthorized(err) {
				summary.Aborted = err
				s.logger.ErrorContext(ctx, "activity feeds aborted", "candidate_id", id, "error", err)
				break
			}
			s.fail(ctx, summary, id, err)
			continue
		}
		summary.Fetched++

		if _, err := s.stores.Records.PutActivityFeed(id, feed); err != nil {
			s.fail(ctx, summary, id, err)
			continue
		}
		summary.Saved++
		s.logger.InfoContext(ctx, "activity feed saved", "candidate_id", id)
		metrics.EmitRecord(s.tel.Metrics, metrics.RecordMetric{Entity: activityFeedEntity.String(), Result: metrics.ResultSuccess})
	}

	return summary, nil
}

func (s *ActivityFeedService) fail(ctx context.Context, summary *model.RunSummary, id string, err error) {
	summary.AddFailure(activityFeedEntity, id, err)
	s.logger.WarnContext(ctx, "activity feed failed", "candidate_id", id, "error", err)
	metrics.EmitRecord(s.tel.Metrics, metrics.RecordMetric{Entity: activityFeedEntity.String(), Result: metrics.ResultError, Err: err})
}
