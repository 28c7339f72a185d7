package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/testutil"
)

func TestNewStatsService_RequiredDependencies(t *testing.T) {
	_, err := NewStatsService(Stores{})
	require.Error(t, err)
}

func TestStatsService_Stats(t *testing.T) {
	h := newHarness(t)
	h.saveIndex(t, model.EntityCandidates, row("1", "Ada"), row("2", "Alan"))
	h.saveIndex(t, model.EntityJobs, row("20", "Engineer"))
	testutil.WriteFile(t, h.root, "candidates/1"+model.ActivityFeedSuffix, []byte(`{}`))
	testutil.WriteFile(t, h.root, "candidates/1-attachments/resume-2023-01-01T00c00c00Z/cv.pdf", []byte("x"))
	testutil.WriteFile(t, h.root, "candidates/1-attachments/resume-2023-01-01T00c00c00Z/complete", nil)
	testutil.WriteFile(t, h.root, "candidates/2-attachments/other-2023-01-01T00c00c00Z/notes.txt", []byte("x"))

	out := h.run(t, CommandStats, RunOptions{})
	require.NotNil(t, out.Stats)
	assert.False(t, out.Failed())

	stats := out.Stats
	assert.Equal(t, 2, stats.Records[model.EntityCandidates])
	assert.Equal(t, 1, stats.Records[model.EntityJobs])
	assert.Equal(t, 0, stats.Records[model.EntityOffers])
	assert.Len(t, stats.Records, len(model.AllEntityTypes()))
	assert.Equal(t, 1, stats.ActivityFeeds)
	assert.Equal(t, 2, stats.Attachments)
	assert.Equal(t, 1, stats.CompleteAttachments)
}
