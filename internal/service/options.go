package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/observability/statsd"
)

// Stores groups the cache repositories a service works against.
type Stores struct {
	Records     core.RecordRepository     // Required by every service
	Index       core.IndexRepository      // Required by every service
	Attachments core.AttachmentRepository // Required by attachment, check and stats services
}

// Telemetry groups the optional observability dependencies of a service.
type Telemetry struct {
	Logger  *slog.Logger // Optional: structured logger
	Metrics statsd.Sink  // Optional: metrics sink (StatsD-compatible)
	Clock   func() time.Time
}

func (t Telemetry) logger(component string) *slog.Logger {
	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger.With("component", component)
}

func (t Telemetry) now() time.Time {
	if t.Clock != nil {
		return t.Clock()
	}
	return time.Now()
}
