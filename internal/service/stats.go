package service

import (
	"context"
	"errors"

	"github.com/target/harvest-extract/internal/domain/model"
)

// StatsService counts what the cache holds.
type StatsService struct {
	stores Stores
}

// NewStatsService constructs a new StatsService.
func NewStatsService(stores Stores) (*StatsService, error) {
	if stores.Records == nil || stores.Index == nil || stores.Attachments == nil {
		return nil, errors.New("RecordRepository, IndexRepository and AttachmentRepository are required")
	}
	return &StatsService{stores: stores}, nil
}

// Stats returns the index size of every entity type plus activity feed and attachment totals.
func (s *StatsService) Stats(ctx context.Context) (*model.CacheStats, error) {
	stats := &model.CacheStats{Records: make(map[model.EntityType]int)}
	for _, entity := range model.AllEntityTypes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, err := s.stores.Index.Load(entity)
		if err != nil {
			return nil, err
		}
		stats.Records[entity] = idx.Len()
	}

	feeds, err := s.stores.Records.ActivityFeedIDs()
	if err != nil {
		return nil, err
	}
	stats.ActivityFeeds = len(feeds)

	stored, err := s.stores.Attachments.Scan()
	if err != nil {
		return nil, err
	}
	for _, a := range stored {
		stats.Attachments += len(a.Files)
		if !a.Incomplete() {
			stats.CompleteAttachments += len(a.Files)
		}
	}
	return stats, nil
}
