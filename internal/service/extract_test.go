package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/mocks"
	"github.com/target/harvest-extract/internal/observability/metrics"
	"github.com/target/harvest-extract/internal/testutil"
	"go.uber.org/mock/gomock"
)

func TestNewExtractService_RequiredDependencies(t *testing.T) {
	_, err := NewExtractService(ExtractServiceOptions{})
	require.Error(t, err)

	ctrl := gomock.NewController(t)
	fetcher, err := NewFetcher(FetcherOptions{Client: mocks.NewMockHarvestClient(ctrl)})
	require.NoError(t, err)
	_, err = NewExtractService(ExtractServiceOptions{Fetcher: fetcher})
	require.Error(t, err)
}

func TestExtractService_Run_CachesEveryRecord(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("jobs",
		testutil.Job(1, "Engineer").Build(),
		testutil.Job(2, "Designer").Build(),
		testutil.Job(3, "Recruiter").Build(),
	)

	out := h.run(t, "jobs", RunOptions{})
	require.NotNil(t, out.Summary)
	assert.False(t, out.Failed())
	assert.Equal(t, 3, out.Summary.Fetched)
	assert.Equal(t, 3, out.Summary.Saved)
	assert.Equal(t, 2, h.fake.Hits("jobs"), "three items at two per page")

	rows := h.indexRows(t, model.EntityJobs)
	require.Len(t, rows, 3)
	assert.Equal(t, model.IndexRow{ID: "1", Moniker: "Engineer", Timestamp: "2024-01-01T12:00:00Z"}, rows[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal(testutil.ReadFile(t, h.root, "jobs/2.json"), &doc))
	assert.Equal(t, "Designer", doc["name"])

	assert.Equal(t, float64(3), h.metrics.Sum("extract.record", map[string]string{"entity": "jobs", "result": metrics.ResultSuccess}))
}

func TestExtractService_Run_RefetchOverwrites(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("candidates", testutil.Candidate(5, "Grace", "Hopper").Build())
	h.run(t, "candidates", RunOptions{})

	h.clock.AddTime(time.Hour)
	h.fake.SetCollection("candidates", testutil.Candidate(5, "Grace", "Brewster Hopper").Build())
	out := h.run(t, "candidates", RunOptions{})
	assert.False(t, out.Failed())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(testutil.ReadFile(t, h.root, "candidates/5.json"), &doc))
	assert.Equal(t, "Brewster Hopper", doc["last_name"])

	rows := h.indexRows(t, model.EntityCandidates)
	require.Len(t, rows, 1)
	assert.Equal(t, "Grace Brewster Hopper", rows[0].Moniker)
	assert.Equal(t, "2024-01-01T13:00:00Z", rows[0].Timestamp)
}

func TestExtractService_Run_RepeatedRunsConverge(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("scorecards",
		testutil.Scorecard(1, 10).Build(),
		testutil.Scorecard(2, 10).Build(),
		testutil.Scorecard(3, 11).Build(),
	)

	h.run(t, "scorecards", RunOptions{})
	h.run(t, "scorecards", RunOptions{})

	rows := h.indexRows(t, model.EntityScorecards)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	report := h.run(t, CommandCheck, RunOptions{}).Check
	assert.True(t, report.Clean(), "%+v", report.Discrepancies)
}

func TestExtractService_Run_DateFilterBoundary(t *testing.T) {
	h := newHarness(t)
	h.fake.IgnoreDateFilter = true
	h.fake.SetCollection("applications",
		testutil.Application(1, 10, 20).CreatedAt(mustDate(t, "2022-10-31T23:59:59Z")).Build(),
		testutil.Application(2, 11, 20).CreatedAt(mustDate(t, "2022-11-01T00:00:01Z")).Build(),
	)

	filter, err := model.ParseDateFilter("2022-11-01", "")
	require.NoError(t, err)

	out := h.run(t, "applications", RunOptions{Filter: filter})
	assert.Equal(t, 1, out.Summary.Saved)
	assert.Equal(t, 1, out.Summary.Skipped)
	assert.False(t, out.Failed())

	assert.False(t, testutil.FileExists(h.root, "applications/1.json"))
	assert.True(t, testutil.FileExists(h.root, "applications/2.json"))

	queries := h.fake.Queries("applications")
	require.NotEmpty(t, queries)
	assert.Equal(t, "2022-11-01T00:00:00Z", queries[0].Get("created_after"))
}

func TestExtractService_Run_PageFailureKeepsEarlierPages(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("offers",
		testutil.Offer(1, 10, 100).Build(),
		testutil.Offer(2, 11, 101).Build(),
		testutil.Offer(3, 12, 102).Build(),
	)
	h.fake.FailPage("offers", 2, http.StatusInternalServerError)

	out := h.run(t, "offers", RunOptions{})
	require.Error(t, out.Summary.Aborted)
	assert.True(t, out.Failed())
	assert.Equal(t, 2, out.Summary.Saved)

	rows := h.indexRows(t, model.EntityOffers)
	require.Len(t, rows, 2)
	assert.Equal(t, "10/100", rows[0].Moniker)

	report := h.run(t, CommandCheck, RunOptions{}).Check
	assert.True(t, report.Clean(), "%+v", report.Discrepancies)
	assert.Equal(t, float64(2), h.metrics.Sum("extract.run.fetched", map[string]string{"command": "offers", "result": metrics.ResultAborted}))
}

func TestExtractService_Run_RecordFailuresAreCounted(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("sources",
		testutil.Source(1, "Referral").Build(),
		testutil.NewRecord(0).Without("id").With("name", "Broken").Build(),
		testutil.Source(3, "Agency").Build(),
	)

	out := h.run(t, "sources", RunOptions{})
	assert.True(t, out.Failed())
	assert.Nil(t, out.Summary.Aborted)
	assert.Equal(t, 3, out.Summary.Fetched)
	assert.Equal(t, 2, out.Summary.Saved)
	require.Len(t, out.Summary.Failures, 1)
	assert.Contains(t, out.Summary.Failures[0].Err.Error(), "no id")

	assert.Len(t, h.indexRows(t, model.EntitySources), 2)
}

func TestExtractService_Run_WriteFailureLeavesRecordUnindexed(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecordRepository(ctrl)

	h.fake.SetCollection("jobs", testutil.Job(1, "A").Build(), testutil.Job(2, "B").Build())
	records.EXPECT().Put(model.EntityJobs, "1", gomock.Any()).Return("jobs/1.json", nil)
	records.EXPECT().Put(model.EntityJobs, "2", gomock.Any()).Return("", errors.New("disk full"))

	fetcher, err := NewFetcher(FetcherOptions{Client: h.client, Clock: h.clock.Now})
	require.NoError(t, err)
	svc, err := NewExtractService(ExtractServiceOptions{
		Fetcher:   fetcher,
		Stores:    Stores{Records: records, Index: h.stores.Index},
		Telemetry: h.telemetry(),
	})
	require.NoError(t, err)

	summary, err := svc.Run(context.Background(), model.EntityJobs, model.DateFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "2", summary.Failures[0].ID)

	rows := h.indexRows(t, model.EntityJobs)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID)
}

func TestExtractService_Run_PoolsAlias(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("prospect_pools", testutil.NewRecord(1).With("name", "Alumni").Build())

	out := h.run(t, "pools", RunOptions{})
	assert.Equal(t, "prospect_pools", out.Command)
	assert.True(t, testutil.FileExists(h.root, "prospect_pools/1.json"))
}
