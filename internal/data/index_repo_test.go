package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

func newTestIndexRepo(t *testing.T) (*IndexRepo, string) {
	t.Helper()
	root := t.TempDir()
	repo, err := NewIndexRepo(root)
	require.NoError(t, err)
	return repo, root
}

func writeIndex(t *testing.T, repo *IndexRepo, entity model.EntityType, content string) {
	t.Helper()
	path := repo.Path(entity)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexRepo_MissingIndexIsEmpty(t *testing.T) {
	repo, _ := newTestIndexRepo(t)

	rows, err := repo.Read(model.EntityOffers)
	require.NoError(t, err)
	assert.Empty(t, rows)

	idx, err := repo.Load(model.EntityOffers)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestIndexRepo_SaveThenRead(t *testing.T) {
	repo, root := newTestIndexRepo(t)

	idx := model.NewIndex(
		model.IndexRow{ID: "2", Moniker: "Ada Lovelace", Timestamp: "2024-01-02T03:04:05Z"},
		model.IndexRow{ID: "1", Moniker: "Smith, Jr.", Timestamp: "2024-01-02T03:04:06Z"},
	)
	require.NoError(t, repo.Save(model.EntityCandidates, idx))

	raw, err := os.ReadFile(filepath.Join(root, "candidates", "index.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,moniker,timestamp", lines[0])
	assert.Equal(t, `1,"Smith, Jr.",2024-01-02T03:04:06Z`, lines[2])

	rows, err := repo.Read(model.EntityCandidates)
	require.NoError(t, err)
	assert.Equal(t, idx.Rows(), rows)
}

func TestIndexRepo_AppendUpsertsByID(t *testing.T) {
	repo, _ := newTestIndexRepo(t)

	require.NoError(t, repo.Append(model.EntityJobs, model.IndexRow{ID: "1", Moniker: "Engineer", Timestamp: "2024-01-01T00:00:00Z"}))
	require.NoError(t, repo.Append(model.EntityJobs, model.IndexRow{ID: "2", Moniker: "Designer", Timestamp: "2024-01-01T00:00:00Z"}))
	require.NoError(t, repo.Append(model.EntityJobs, model.IndexRow{ID: "1", Moniker: "Senior Engineer", Timestamp: "2024-02-01T00:00:00Z"}))

	rows, err := repo.Read(model.EntityJobs)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.IndexRow{ID: "1", Moniker: "Senior Engineer", Timestamp: "2024-02-01T00:00:00Z"}, rows[0])
	assert.Equal(t, "2", rows[1].ID)
}

func TestIndexRepo_ReadsLegacyFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []model.IndexRow
	}{
		{
			name:    "byte order mark and upper case header",
			content: "\ufeffID,Moniker,Timestamp\n1,Ada,2024-01-01T00:00:00Z\n",
			want:    []model.IndexRow{{ID: "1", Moniker: "Ada", Timestamp: "2024-01-01T00:00:00Z"}},
		},
		{
			name:    "double quoted moniker with comma",
			content: "id,moniker,timestamp\n9,\"\"\"Referral, internal\"\"\",2024-01-01T00:00:00Z\n",
			want:    []model.IndexRow{{ID: "9", Moniker: "Referral, internal", Timestamp: "2024-01-01T00:00:00Z"}},
		},
		{
			name:    "append-only duplicates are kept by Read",
			content: "id,moniker,timestamp\n1,a,2024-01-01T00:00:00Z\n1,b,2024-01-02T00:00:00Z\n",
			want: []model.IndexRow{
				{ID: "1", Moniker: "a", Timestamp: "2024-01-01T00:00:00Z"},
				{ID: "1", Moniker: "b", Timestamp: "2024-01-02T00:00:00Z"},
			},
		},
		{
			name:    "header only",
			content: "id,moniker,timestamp\n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestIndexRepo(t)
			writeIndex(t, repo, model.EntitySources, tt.content)

			rows, err := repo.Read(model.EntitySources)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestIndexRepo_LoadCollapsesDuplicates(t *testing.T) {
	repo, _ := newTestIndexRepo(t)
	writeIndex(t, repo, model.EntitySources, "id,moniker,timestamp\n1,a,t1\n2,b,t1\n1,c,t2\n")

	idx, err := repo.Load(model.EntitySources)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())
	row, ok := idx.Get("1")
	require.True(t, ok)
	assert.Equal(t, "c", row.Moniker)
}

func TestIndexRepo_MalformedIndex(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "wrong header", content: "name,when,who\n1,a,b\n"},
		{name: "wrong column count", content: "id,moniker,timestamp\n1,a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestIndexRepo(t)
			writeIndex(t, repo, model.EntityScorecards, tt.content)

			_, err := repo.Read(model.EntityScorecards)
			require.Error(t, err)
			assert.True(t, apperrors.IsConsistency(err))
		})
	}
}
