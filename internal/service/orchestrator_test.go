package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
	"github.com/target/harvest-extract/internal/observability/metrics"
	"github.com/target/harvest-extract/internal/testutil"
)

func TestNewOrchestrator_RequiresEveryService(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorOptions{})
	require.Error(t, err)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []string{
		"applications", "candidates", "jobs", "offers", "prospect_pools", "scorecards", "sources",
		"activity_feeds", "attachments", "check", "stats", "references",
	}, Commands())
}

func TestOrchestrator_Run_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.orch.Run(context.Background(), "interviews", RunOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "command", apperrors.GetField(err))
	assert.Contains(t, err.Error(), `"interviews"`)
	assert.Empty(t, h.metrics.Named("extract.run"), "rejected commands are not runs")
}

func TestOrchestrator_Run_EmitsRunMetric(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCollection("jobs", testutil.Job(1, "Engineer").Build())

	h.run(t, "jobs", RunOptions{})

	runs := h.metrics.Named("extract.run")
	require.Len(t, runs, 1)
	assert.Equal(t, "jobs", runs[0].Tags["command"])
	assert.Equal(t, metrics.ResultSuccess, runs[0].Tags["result"])
	assert.Equal(t, float64(1), h.metrics.Sum("extract.run.fetched", map[string]string{"command": "jobs"}))
}

func TestOrchestrator_Run_CheckFailsOnDiscrepancy(t *testing.T) {
	h := newHarness(t)
	testutil.WriteFile(t, h.root, "jobs/9.json", []byte(`{"id":9}`))

	out := h.run(t, CommandCheck, RunOptions{})
	assert.True(t, out.Failed())
	assert.Equal(t, CommandCheck, out.Command)
}

func TestOutcome_Failed(t *testing.T) {
	tests := []struct {
		name string
		out  *Outcome
		want bool
	}{
		{name: "nil", out: nil, want: true},
		{name: "clean summary", out: &Outcome{Summary: &model.RunSummary{Saved: 3}}, want: false},
		{name: "record failure", out: &Outcome{Summary: &model.RunSummary{Failures: []model.Failure{{ID: "1", Err: errors.New("x")}}}}, want: true},
		{name: "aborted", out: &Outcome{Summary: &model.RunSummary{Aborted: errors.New("page 2")}}, want: true},
		{name: "clean check", out: &Outcome{Check: &model.CheckReport{}}, want: false},
		{name: "dirty check", out: &Outcome{Check: &model.CheckReport{Discrepancies: []model.Discrepancy{{Kind: model.OrphanFile}}}}, want: true},
		{name: "stats", out: &Outcome{Stats: &model.CacheStats{}}, want: false},
		{name: "references", out: &Outcome{References: &model.ReferenceReport{Categories: []model.ReferenceCategory{{Title: "x", Members: []string{"1"}}}}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.out.Failed())
		})
	}
}
