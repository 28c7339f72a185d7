package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

// cachedCandidates returns the candidate ids in the candidates index, in index order.
// With a non-empty filter only candidates whose cached created_at falls inside it are kept;
// candidates without a readable created_at are excluded and counted in skipped.
func cachedCandidates(ctx context.Context, stores Stores, filter model.DateFilter, logger *slog.Logger) (ids []string, skipped int, err error) {
	idx, err := stores.Index.Load(model.EntityCandidates)
	if err != nil {
		return nil, 0, fmt.Errorf("load candidates index: %w", err)
	}
	if filter.IsZero() {
		return idx.IDs(), 0, nil
	}

	for _, id := range idx.IDs() {
		payload, err := stores.Records.Get(model.EntityCandidates, id)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				return nil, 0, err
			}
			logger.DebugContext(ctx, "candidate not cached, skipping", "candidate_id", id)
			skipped++
			continue
		}
		created := payloadCreatedAt(payload)
		if created == nil || !filter.Contains(*created) {
			skipped++
			continue
		}
		ids = append(ids, id)
	}
	return ids, skipped, nil
}

func payloadCreatedAt(payload []byte) *time.Time {
	doc, err := model.DecodePayload(payload)
	if err != nil {
		return nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	return createdAt(obj)
}
