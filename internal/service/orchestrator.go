package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
	"github.com/target/harvest-extract/internal/observability/metrics"
	"github.com/target/harvest-extract/internal/observability/statsd"
)

// Non-entity commands.
const (
	CommandActivityFeeds = "activity_feeds"
	CommandAttachments   = "attachments"
	CommandCheck         = "check"
	CommandStats         = "stats"
	CommandReferences    = "references"
)

// Commands lists every command the orchestrator accepts, entity extractions first.
func Commands() []string {
	var out []string
	for _, e := range model.AllEntityTypes() {
		out = append(out, e.String())
	}
	return append(out, CommandActivityFeeds, CommandAttachments, CommandCheck, CommandStats, CommandReferences)
}

// RunOptions carries the per-invocation flags.
type RunOptions struct {
	Filter  model.DateFilter
	Refresh bool
}

// Outcome is the result of one command. Exactly one of the report fields is set.
type Outcome struct {
	Command    string
	Summary    *model.RunSummary
	Check      *model.CheckReport
	Stats      *model.CacheStats
	References *model.ReferenceReport
}

// Failed reports whether the command should exit non-zero: a record-level failure, an aborted
// run or, for check, any discrepancy.
func (o *Outcome) Failed() bool {
	if o == nil {
		return true
	}
	if o.Summary != nil && !o.Summary.OK() {
		return true
	}
	return o.Check != nil && !o.Check.Clean()
}

// Services groups the command implementations the orchestrator dispatches to.
type Services struct {
	Extract       *ExtractService
	ActivityFeeds *ActivityFeedService
	Attachments   *AttachmentService
	Checker       *CacheChecker
	Stats         *StatsService
	References    *ReferenceChecker
}

// OrchestratorOptions groups dependencies for Orchestrator.
type OrchestratorOptions struct {
	Services  Services  // Required: every service
	Telemetry Telemetry // Optional: logger, metrics, clock
}

// Orchestrator maps a command name onto the service that implements it. Commands run one at
// a time; two processes sharing a cache directory are not coordinated.
type Orchestrator struct {
	svc     Services
	tel     Telemetry
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewOrchestrator constructs a new Orchestrator.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	s := opts.Services
	if s.Extract == nil || s.ActivityFeeds == nil || s.Attachments == nil ||
		s.Checker == nil || s.Stats == nil || s.References == nil {
		return nil, errors.New("all services are required")
	}
	return &Orchestrator{
		svc:     s,
		tel:     opts.Telemetry,
		logger:  opts.Telemetry.logger("orchestrator"),
		metrics: opts.Telemetry.Metrics,
	}, nil
}

// Run executes one command. Unknown commands are validation errors. The error return is for
// failures that prevented the command from producing an outcome at all.
func (o *Orchestrator) Run(ctx context.Context, command string, opts RunOptions) (*Outcome, error) {
	start := o.tel.now()
	out, err := o.dispatch(ctx, command, opts)
	if err != nil {
		if !apperrors.IsValidation(err) {
			metrics.EmitRun(o.metrics, metrics.RunMetric{Command: command, Result: metrics.ResultError, Duration: o.tel.now().Sub(start)})
		}
		return nil, err
	}

	run := metrics.RunMetric{Command: out.Command, Result: metrics.ResultSuccess, Duration: o.tel.now().Sub(start)}
	if s := out.Summary; s != nil {
		run.Fetched, run.Failed = s.Fetched, s.Failed()
		if s.Aborted != nil {
			run.Result = metrics.ResultAborted
		} else if s.Failed() > 0 {
			run.Result = metrics.ResultError
		}
		o.logger.InfoContext(ctx, "command finished",
			"command", out.Command,
			"fetched", s.Fetched,
			"saved", s.Saved,
			"skipped", s.Skipped,
			"failed", s.Failed(),
			"duration", s.Duration,
		)
	}
	metrics.EmitRun(o.metrics, run)
	return out, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, command string, opts RunOptions) (*Outcome, error) {
	switch command {
	case CommandActivityFeeds:
		summary, err := o.svc.ActivityFeeds.Run(ctx, opts.Filter, opts.Refresh)
		return &Outcome{Command: command, Summary: summary}, err
	case CommandAttachments:
		summary, err := o.svc.Attachments.Run(ctx, opts.Filter)
		return &Outcome{Command: command, Summary: summary}, err
	case CommandCheck:
		report, err := o.svc.Checker.Check(ctx)
		return &Outcome{Command: command, Check: report}, err
	case CommandStats:
		stats, err := o.svc.Stats.Stats(ctx)
		return &Outcome{Command: command, Stats: stats}, err
	case CommandReferences:
		report, err := o.svc.References.Check(ctx)
		return &Outcome{Command: command, References: report}, err
	}

	entity, err := model.ParseEntityType(command)
	if err != nil {
		return nil, apperrors.ValidationField("command", fmt.Sprintf("unknown command %q", command))
	}
	summary, err := o.svc.Extract.Run(ctx, entity, opts.Filter)
	return &Outcome{Command: entity.String(), Summary: summary}, err
}
