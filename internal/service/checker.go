package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

// CacheCheckerOptions groups dependencies for CacheChecker.
type CacheCheckerOptions struct {
	Stores    Stores    // Required: Records, Index and Attachments
	Telemetry Telemetry // Optional: logger
}

// CacheChecker verifies that the cache folders, index files and attachment markers agree.
// It never modifies the cache.
type CacheChecker struct {
	stores Stores
	logger *slog.Logger
}

// NewCacheChecker constructs a new CacheChecker.
func NewCacheChecker(opts CacheCheckerOptions) (*CacheChecker, error) {
	if opts.Stores.Records == nil || opts.Stores.Index == nil || opts.Stores.Attachments == nil {
		return nil, errors.New("RecordRepository, IndexRepository and AttachmentRepository are required")
	}
	return &CacheChecker{
		stores: opts.Stores,
		logger: opts.Telemetry.logger("cache_checker"),
	}, nil
}

// Check walks every entity folder and the candidate attachment tree and reports each
// discrepancy. Paths in the report are relative to the cache root.
func (c *CacheChecker) Check(ctx context.Context) (*model.CheckReport, error) {
	report := &model.CheckReport{Checked: make(map[model.EntityType]int)}

	var candidates map[string]struct{}
	for _, entity := range model.AllEntityTypes() {
		if err := ctx.Err(); err != nil {
			return report, apperrors.Wrap(err, apperrors.ErrCodeCanceled, "check interrupted")
		}
		indexed, err := c.checkEntity(report, entity)
		if err != nil {
			return report, err
		}
		if entity == model.EntityCandidates {
			candidates = indexed
		}
	}

	if err := c.checkActivityFeeds(report, candidates); err != nil {
		return report, err
	}
	if err := c.checkAttachments(report, candidates); err != nil {
		return report, err
	}

	c.logger.InfoContext(ctx, "check finished", "discrepancies", len(report.Discrepancies))
	return report, nil
}

// checkEntity compares one index with its record files and returns the indexed ids,
// or nil when the index could not be read.
func (c *CacheChecker) checkEntity(report *model.CheckReport, entity model.EntityType) (map[string]struct{}, error) {
	indexPath := path.Join(entity.String(), "index.csv")
	partials, err := c.stores.Records.PartialFiles(entity)
	if err != nil {
		return nil, err
	}
	for _, name := range partials {
		report.Add(model.Discrepancy{
			Kind:   model.PartialRecordFile,
			Entity: entity,
			Path:   path.Join(entity.String(), name),
			Detail: "interrupted write left a temp file",
		})
	}

	rows, err := c.stores.Index.Read(entity)
	if err != nil {
		if !apperrors.IsConsistency(err) {
			return nil, fmt.Errorf("read %s: %w", indexPath, err)
		}
		report.Add(model.Discrepancy{
			Kind:   model.UnreadableIndex,
			Entity: entity,
			Path:   indexPath,
			Detail: err.Error(),
		})
		return nil, nil
	}
	report.Checked[entity] = len(rows)

	indexed := make(map[string]struct{}, len(rows))
	counts := make(map[string]int, len(rows))
	var order []string
	for _, row := range rows {
		if counts[row.ID] == 0 {
			order = append(order, row.ID)
		}
		counts[row.ID]++
		indexed[row.ID] = struct{}{}
	}

	files, err := c.stores.Records.List(entity)
	if err != nil {
		return nil, err
	}
	onDisk := make(map[string]struct{}, len(files))
	for _, id := range files {
		onDisk[id] = struct{}{}
	}

	for _, id := range order {
		if n := counts[id]; n > 1 {
			report.Add(model.Discrepancy{
				Kind:   model.DuplicateIndexRow,
				Entity: entity,
				ID:     id,
				Path:   indexPath,
				Detail: fmt.Sprintf("id appears %d times", n),
			})
		}
		if _, ok := onDisk[id]; !ok {
			report.Add(model.Discrepancy{
				Kind:   model.OrphanIndexRow,
				Entity: entity,
				ID:     id,
				Path:   indexPath,
				Detail: "indexed record has no file",
			})
		}
	}
	for _, id := range files {
		if _, ok := indexed[id]; !ok {
			report.Add(model.Discrepancy{
				Kind:   model.OrphanFile,
				Entity: entity,
				ID:     id,
				Path:   path.Join(entity.String(), id+".json"),
				Detail: "record file is not indexed",
			})
		}
	}
	return indexed, nil
}

func (c *CacheChecker) checkActivityFeeds(report *model.CheckReport, candidates map[string]struct{}) error {
	if candidates == nil {
		return nil
	}
	ids, err := c.stores.Records.ActivityFeedIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := candidates[id]; ok {
			continue
		}
		report.Add(model.Discrepancy{
			Kind:   model.OrphanActivityFeed,
			Entity: model.EntityCandidates,
			ID:     id,
			Path:   path.Join(model.EntityCandidates.String(), id+model.ActivityFeedSuffix),
			Detail: "activity feed for a candidate that is not indexed",
		})
	}
	return nil
}

func (c *CacheChecker) checkAttachments(report *model.CheckReport, candidates map[string]struct{}) error {
	stored, err := c.stores.Attachments.Scan()
	if err != nil {
		return err
	}

	orphaned := make(map[string]bool)
	for _, a := range stored {
		folder := path.Join(model.EntityCandidates.String(), model.CandidateAttachmentsDir(a.CandidateID))
		if candidates != nil && !orphaned[a.CandidateID] {
			if _, ok := candidates[a.CandidateID]; !ok {
				orphaned[a.CandidateID] = true
				report.Add(model.Discrepancy{
					Kind:   model.OrphanAttachments,
					Entity: model.EntityCandidates,
					ID:     a.CandidateID,
					Path:   folder,
					Detail: "attachments for a candidate that is not indexed",
				})
			}
		}
		if a.Incomplete() {
			report.Add(model.Discrepancy{
				Kind:   model.IncompleteAttachment,
				Entity: model.EntityCandidates,
				ID:     a.CandidateID,
				Path:   path.Join(folder, filepath.Base(a.Dir)),
				Detail: incompleteReason(a),
			})
		}
	}
	return nil
}

func incompleteReason(a model.StoredAttachment) string {
	var reasons []string
	switch {
	case len(a.Files) == 0 && a.Complete:
		reasons = append(reasons, "marker without data file")
	case len(a.Files) == 0:
		reasons = append(reasons, "no data file")
	case !a.Complete:
		reasons = append(reasons, "data file without marker")
	}
	if len(a.Partials) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d partial file(s)", len(a.Partials)))
	}
	return strings.Join(reasons, ", ")
}
