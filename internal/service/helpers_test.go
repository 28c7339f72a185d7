package service

import (
	"context"
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/adapters/harvest"
	"github.com/target/harvest-extract/internal/data"
	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/observability/statsd"
	"github.com/target/harvest-extract/internal/testutil"
)

// harness wires the real file stores to a fake Harvest server.
type harness struct {
	root    string
	fake    *testutil.FakeHarvest
	client  *harvest.Client
	stores  Stores
	clock   *data.FixedTimeProvider
	metrics *statsd.Recorder
	orch    *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		root:    testutil.NewCacheDir(t),
		fake:    testutil.NewFakeHarvest(t),
		clock:   data.NewFixedTimeProvider(testutil.TestTime()),
		metrics: statsd.NewRecorder(),
	}

	var err error
	h.client, err = harvest.NewClient(harvest.Config{
		BaseURL: h.fake.BaseURL(),
		Token:   testutil.FakeToken,
		PerPage: 2,
		Client:  h.fake.Client(),
	})
	require.NoError(t, err)

	records, err := data.NewRecordStore(h.root)
	require.NoError(t, err)
	index, err := data.NewIndexRepo(h.root)
	require.NoError(t, err)
	attachments, err := data.NewAttachmentStore(h.root)
	require.NoError(t, err)
	h.stores = Stores{Records: records, Index: index, Attachments: attachments}

	h.orch = h.newOrchestrator(t, h.client, h.stores)
	return h
}

func (h *harness) telemetry() Telemetry {
	return Telemetry{Metrics: h.metrics, Clock: h.clock.Now}
}

func (h *harness) newOrchestrator(t *testing.T, client *harvest.Client, stores Stores) *Orchestrator {
	t.Helper()
	tel := h.telemetry()

	fetcher, err := NewFetcher(FetcherOptions{Client: client, Clock: h.clock.Now})
	require.NoError(t, err)
	extract, err := NewExtractService(ExtractServiceOptions{Fetcher: fetcher, Stores: stores, Telemetry: tel})
	require.NoError(t, err)
	extract.FlushEvery = 2
	feeds, err := NewActivityFeedService(ActivityFeedServiceOptions{Client: client, Stores: stores, Telemetry: tel})
	require.NoError(t, err)
	attachments, err := NewAttachmentService(AttachmentServiceOptions{Client: client, Stores: stores, Telemetry: tel})
	require.NoError(t, err)
	checker, err := NewCacheChecker(CacheCheckerOptions{Stores: stores, Telemetry: tel})
	require.NoError(t, err)
	stats, err := NewStatsService(stores)
	require.NoError(t, err)
	refs, err := NewReferenceChecker(stores)
	require.NoError(t, err)

	orch, err := NewOrchestrator(OrchestratorOptions{
		Services: Services{
			Extract:       extract,
			ActivityFeeds: feeds,
			Attachments:   attachments,
			Checker:       checker,
			Stats:         stats,
			References:    refs,
		},
		Telemetry: tel,
	})
	require.NoError(t, err)
	return orch
}

func (h *harness) run(t *testing.T, command string, opts RunOptions) *Outcome {
	t.Helper()
	out, err := h.orch.Run(context.Background(), command, opts)
	require.NoError(t, err)
	return out
}

// setCandidates serves candidates both as the collection and as single documents.
func (h *harness) setCandidates(candidates ...map[string]any) {
	h.fake.SetCollection("candidates", candidates...)
	for _, c := range candidates {
		id, _ := json.Marshal(c["id"])
		h.fake.SetDocument("candidates/"+string(id), c)
	}
}

func (h *harness) indexRows(t *testing.T, entity model.EntityType) []model.IndexRow {
	t.Helper()
	rows, err := h.stores.Index.Read(entity)
	require.NoError(t, err)
	return rows
}

func (h *harness) attachmentDir(candidateID string, a map[string]any) string {
	att := model.Attachment{Type: a["type"].(string), CreatedAt: a["created_at"].(string)}
	return filepath.Join(h.root, "candidates", model.CandidateAttachmentsDir(candidateID), att.DirName())
}

func removeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(path))
}

// seqOf builds a page sequence from items, ending with tail when it is non-nil.
func seqOf(items []json.RawMessage, tail error) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	return testutil.MustTime(t, value)
}
