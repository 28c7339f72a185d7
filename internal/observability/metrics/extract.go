package metrics

import (
	"time"

	obserrors "github.com/target/harvest-extract/internal/observability/errors"
	"github.com/target/harvest-extract/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess    = "success"
	ResultError      = "error"
	ResultSkipped    = "skipped"
	ResultDownloaded = "downloaded"
	ResultAborted    = "aborted"
)

// RecordMetric captures the outcome of one record (or activity feed) write.
type RecordMetric struct {
	Entity string
	Result string
	Err    error
}

// EmitRecord emits extract.record.
func EmitRecord(sink statsd.Sink, in RecordMetric) {
	if sink == nil {
		return
	}
	sink.Count("extract.record", 1, withErrorClass(map[string]string{
		"entity": in.Entity,
		"result": in.Result,
	}, in.Result, in.Err))
}

// EmitAttachment emits extract.attachment with result downloaded, skipped or error.
func EmitAttachment(sink statsd.Sink, result string, bytes int64, err error) {
	if sink == nil {
		return
	}
	tags := withErrorClass(map[string]string{"result": result}, result, err)
	sink.Count("extract.attachment", 1, tags)
	if bytes > 0 {
		sink.Count("extract.attachment.bytes", bytes, CloneTags(tags))
	}
}

// RunMetric summarises one command for metric emission.
type RunMetric struct {
	Command  string
	Result   string
	Fetched  int
	Failed   int
	Duration time.Duration
}

// EmitRun emits extract.run timing plus fetched/failed gauges.
func EmitRun(sink statsd.Sink, in RunMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"command": in.Command,
		"result":  in.Result,
	}
	sink.Timing("extract.run", in.Duration, tags)
	sink.Gauge("extract.run.fetched", float64(in.Fetched), CloneTags(tags))
	sink.Gauge("extract.run.failed", float64(in.Failed), CloneTags(tags))
}

func withErrorClass(tags map[string]string, result string, err error) map[string]string {
	if err != nil && result == ResultError {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	return tags
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
