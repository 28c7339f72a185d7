package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
	"github.com/target/harvest-extract/internal/observability/metrics"
)

const attachmentsCommand = "attachments"

// AttachmentServiceOptions groups dependencies for AttachmentService.
type AttachmentServiceOptions struct {
	Client    core.HarvestClient // Required: remote API
	Stores    Stores             // Required: Records, Index and Attachments
	Telemetry Telemetry          // Optional: logger, metrics, clock
}

// AttachmentService downloads candidate attachments into the cache.
//
// Attachment metadata is read from the cached candidate first. A candidate whose attachments
// are all complete costs no network call; otherwise the candidate is fetched again, because
// Harvest attachment URLs are short-lived signed links.
type AttachmentService struct {
	client core.HarvestClient
	stores Stores
	tel    Telemetry
	logger *slog.Logger
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(opts AttachmentServiceOptions) (*AttachmentService, error) {
	if opts.Client == nil {
		return nil, errors.New("HarvestClient is required")
	}
	if opts.Stores.Records == nil || opts.Stores.Index == nil || opts.Stores.Attachments == nil {
		return nil, errors.New("RecordRepository, IndexRepository and AttachmentRepository are required")
	}
	return &AttachmentService{
		client: opts.Client,
		stores: opts.Stores,
		tel:    opts.Telemetry,
		logger: opts.Telemetry.logger("attachment_service"),
	}, nil
}

type candidateAttachments struct {
	Attachments []model.Attachment `json:"attachments"`
}

// Run downloads every missing or incomplete attachment of the cached candidates.
// Fetched counts attachments examined, Saved those downloaded, Skipped those already complete
// plus candidates left out by the date filter.
func (s *AttachmentService) Run(ctx context.Context, filter model.DateFilter) (*model.RunSummary, error) {
	start := s.tel.now()
	summary := &model.RunSummary{Command: attachmentsCommand}
	defer func() { summary.Duration = s.tel.now().Sub(start) }()

	ids, skipped, err := cachedCandidates(ctx, s.stores, filter, s.logger)
	if err != nil {
		return summary, err
	}
	summary.Skipped += skipped

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			summary.Aborted = apperrors.Wrap(err, apperrors.ErrCodeCanceled, "attachments interrupted")
			break
		}
		if err := s.candidate(ctx, summary, id); err != nil {
			summary.Aborted = err
			s.logger.ErrorContext(ctx, "attachments aborted", "candidate_id", id, "error", err)
			break
		}
	}

	s.logger.InfoContext(ctx, "attachments finished",
		"candidates", len(ids),
		"downloaded", summary.Saved,
		"skipped", summary.Skipped,
		"failed", summary.Failed(),
	)
	return summary, nil
}

// candidate handles one candidate. It returns an error only when the whole run must stop.
func (s *AttachmentService) candidate(ctx context.Context, summary *model.RunSummary, id string) error {
	cached, err := s.cachedAttachments(id)
	if err == nil {
		pending, err := s.pending(id, cached)
		if err != nil {
			s.fail(ctx, summary, id, err)
			return nil
		}
		if len(pending) == 0 {
			for _, a := range cached {
				s.skip(ctx, summary, id, a)
			}
			return nil
		}
	}

	fresh, err := s.freshAttachments(ctx, id)
	if err != nil {
		if apperrors.IsCanceled(err) || apperrors.IsUnauthorized(err) {
			return err
		}
		s.fail(ctx, summary, id, err)
		return nil
	}

	for _, a := range fresh {
		summary.Fetched++
		if err := a.Validate(); err != nil {
			s.fail(ctx, summary, id, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid attachment metadata"))
			continue
		}
		complete, err := s.stores.Attachments.IsComplete(id, a)
		if err != nil {
			s.fail(ctx, summary, id, err)
			continue
		}
		if complete {
			summary.Skipped++
			s.logger.DebugContext(ctx, "attachment complete, skipping", "candidate_id", id, "filename", a.Filename)
			metrics.EmitAttachment(s.tel.Metrics, metrics.ResultSkipped, 0, nil)
			continue
		}
		if err := s.download(ctx, summary, id, a); err != nil && apperrors.IsCanceled(err) {
			return err
		}
	}
	return nil
}

func (s *AttachmentService) download(ctx context.Context, summary *model.RunSummary, id string, a model.Attachment) error {
	var written int64
	path, err := s.stores.Attachments.Save(id, a, func(w io.Writer) error {
		n, err := s.client.Download(ctx, a.URL, w)
		written = n
		return err
	})
	if err != nil {
		s.fail(ctx, summary, id, fmt.Errorf("%s: %w", a.Filename, err))
		return err
	}
	summary.Saved++
	s.logger.InfoContext(ctx, "attachment downloaded",
		"candidate_id", id,
		"filename", a.Filename,
		"type", a.Type,
		"bytes", written,
		"path", path,
	)
	metrics.EmitAttachment(s.tel.Metrics, metrics.ResultDownloaded, written, nil)
	return nil
}

func (s *AttachmentService) skip(ctx context.Context, summary *model.RunSummary, id string, a model.Attachment) {
	summary.Fetched++
	summary.Skipped++
	s.logger.DebugContext(ctx, "attachment complete, skipping", "candidate_id", id, "filename", a.Filename)
	metrics.EmitAttachment(s.tel.Metrics, metrics.ResultSkipped, 0, nil)
}

func (s *AttachmentService) fail(ctx context.Context, summary *model.RunSummary, id string, err error) {
	summary.AddFailure(model.EntityCandidates, id, err)
	s.logger.WarnContext(ctx, "attachment failed", "candidate_id", id, "error", err)
	metrics.EmitAttachment(s.tel.Metrics, metrics.ResultError, 0, err)
}

// pending returns the attachments that are not complete on disk.
func (s *AttachmentService) pending(id string, attachments []model.Attachment) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range attachments {
		complete, err := s.stores.Attachments.IsComplete(id, a)
		if err != nil {
			return nil, err
		}
		if !complete {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AttachmentService) cachedAttachments(id string) ([]model.Attachment, error) {
	payload, err := s.stores.Records.Get(model.EntityCandidates, id)
	if err != nil {
		return nil, err
	}
	return decodeAttachments(payload)
}

func (s *AttachmentService) freshAttachments(ctx context.Context, id string) ([]model.Attachment, error) {
	payload, err := s.client.Get(ctx, "candidates/"+id)
	if err != nil {
		return nil, err
	}
	return decodeAttachments(payload)
}

func decodeAttachments(payload []byte) ([]model.Attachment, error) {
	var doc candidateAttachments
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode candidate attachments")
	}
	return doc.Attachments, nil
}
