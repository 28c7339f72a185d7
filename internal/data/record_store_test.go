package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

func newTestRecordStore(t *testing.T) (*RecordStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewRecordStore(root)
	require.NoError(t, err)
	return store, root
}

func TestNewRecordStore_RequiresRoot(t *testing.T) {
	_, err := NewRecordStore("  ")
	require.ErrorIs(t, err, ErrNoCacheRoot)
}

func TestRecordStore_PutGet(t *testing.T) {
	store, root := newTestRecordStore(t)

	t.Run("put writes entity/id.json", func(t *testing.T) {
		path, err := store.Put(model.EntityJobs, "42", []byte(`{"id":42}`))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "jobs", "42.json"), path)

		got, err := store.Get(model.EntityJobs, "42")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":42}`, string(got))
	})

	t.Run("last write wins", func(t *testing.T) {
		_, err := store.Put(model.EntityJobs, "7", []byte(`{"id":7,"name":"old"}`))
		require.NoError(t, err)
		_, err = store.Put(model.EntityJobs, "7", []byte(`{"id":7,"name":"new"}`))
		require.NoError(t, err)

		got, err := store.Get(model.EntityJobs, "7")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"name":"new"}`, string(got))
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(root, "jobs"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, isPartialName(e.Name()), "leftover %s", e.Name())
		}
	})

	t.Run("missing record is not found", func(t *testing.T) {
		_, err := store.Get(model.EntityJobs, "999")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("unsafe id is rejected", func(t *testing.T) {
		_, err := store.Put(model.EntityJobs, "../escape", []byte(`{}`))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		_, statErr := os.Stat(filepath.Join(root, "escape.json"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestRecordStore_ListAndExists(t *testing.T) {
	store, root := newTestRecordStore(t)

	ids, err := store.List(model.EntityCandidates)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing folder lists as empty")

	for _, id := range []string{"3", "1", "2"} {
		_, err := store.Put(model.EntityCandidates, id, []byte(`{}`))
		require.NoError(t, err)
	}
	_, err = store.PutActivityFeed("1", []byte(`{"activities":[]}`))
	require.NoError(t, err)

	dir := filepath.Join(root, "candidates")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.csv"), []byte("id,moniker,timestamp\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".4.json.abc.part"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "1-attachments"), 0o755))

	ids, err = store.List(model.EntityCandidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	ok, err := store.Exists(model.EntityCandidates, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(model.EntityCandidates, "4")
	require.NoError(t, err)
	assert.False(t, ok)

	partials, err := store.PartialFiles(model.EntityCandidates)
	require.NoError(t, err)
	assert.Equal(t, []string{".4.json.abc.part"}, partials)

	partials, err = store.PartialFiles(model.EntityJobs)
	require.NoError(t, err)
	assert.Empty(t, partials, "missing folder lists as empty")
}

func TestRecordStore_ActivityFeeds(t *testing.T) {
	store, root := newTestRecordStore(t)

	path, err := store.PutActivityFeed("12", []byte(`{"notes":[]}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "candidates", "12-activity_feed.json"), path)

	_, err = store.PutActivityFeed("5", []byte(`{}`))
	require.NoError(t, err)

	has, err := store.HasActivityFeed("12")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasActivityFeed("13")
	require.NoError(t, err)
	assert.False(t, has)

	ids, err := store.ActivityFeedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "5"}, ids)
}
