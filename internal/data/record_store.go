package data

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

const recordExt = ".json"

var _ core.RecordRepository = (*RecordStore)(nil)

// RecordStore keeps one JSON file per record at <root>/<entity>/<id>.json.
// Writes replace the whole file atomically: the last write wins and nothing is merged.
type RecordStore struct {
	root string
}

// NewRecordStore creates a RecordStore rooted at the cache directory.
func NewRecordStore(root string) (*RecordStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrNoCacheRoot
	}
	return &RecordStore{root: root}, nil
}

// EntityDir returns the folder holding an entity type's records.
func (s *RecordStore) EntityDir(entity model.EntityType) string {
	return filepath.Join(s.root, string(entity))
}

func (s *RecordStore) recordPath(entity model.EntityType, id string) (string, error) {
	if err := model.ValidateID(id); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid record id")
	}
	return filepath.Join(s.EntityDir(entity), id+recordExt), nil
}

// Put writes payload as the record's JSON file and returns its path.
func (s *RecordStore) Put(entity model.EntityType, id string, payload []byte) (string, error) {
	path, err := s.recordPath(entity, id)
	if err != nil {
		return "", err
	}
	if err := writeBytesAtomic(path, payload); err != nil {
		return "", err
	}
	return path, nil
}

// Get reads a cached record.
func (s *RecordStore) Get(entity model.EntityType, id string) ([]byte, error) {
	path, err := s.recordPath(entity, id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundf("%s record %s is not cached", entity, id)
		}
		return nil, apperrors.Storagef(err, "read %s", path)
	}
	return b, nil
}

// Exists reports whether the record's file is present.
func (s *RecordStore) Exists(entity model.EntityType, id string) (bool, error) {
	path, err := s.recordPath(entity, id)
	if err != nil {
		return false, err
	}
	return fileExists(path)
}

// List returns the ids of every cached record of an entity type, sorted.
func (s *RecordStore) List(entity model.EntityType) ([]string, error) {
	entries, err := readDirIfExists(s.EntityDir(entity))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, recordExt) || strings.HasSuffix(name, model.ActivityFeedSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, recordExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// PartialFiles returns the names of leftover temp files in an entity folder, sorted.
func (s *RecordStore) PartialFiles(entity model.EntityType) ([]string, error) {
	entries, err := readDirIfExists(s.EntityDir(entity))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && isPartialName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *RecordStore) activityFeedPath(candidateID string) (string, error) {
	if err := model.ValidateID(candidateID); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid candidate id")
	}
	return filepath.Join(s.EntityDir(model.EntityCandidates), candidateID+model.ActivityFeedSuffix), nil
}

// PutActivityFeed writes a candidate's activity feed beside the candidate record.
func (s *RecordStore) PutActivityFeed(candidateID string, payload []byte) (string, error) {
	path, err := s.activityFeedPath(candidateID)
	if err != nil {
		return "", err
	}
	if err := writeBytesAtomic(path, payload); err != nil {
		return "", err
	}
	return path, nil
}

// HasActivityFeed reports whether a candidate's activity feed is cached.
func (s *RecordStore) HasActivityFeed(candidateID string) (bool, error) {
	path, err := s.activityFeedPath(candidateID)
	if err != nil {
		return false, err
	}
	return fileExists(path)
}

// ActivityFeedIDs returns the candidate ids with a cached activity feed, sorted.
func (s *RecordStore) ActivityFeedIDs() ([]string, error) {
	entries, err := readDirIfExists(s.EntityDir(model.EntityCandidates))
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && !strings.HasPrefix(name, ".") && strings.HasSuffix(name, model.ActivityFeedSuffix) {
			ids = append(ids, strings.TrimSuffix(name, model.ActivityFeedSuffix))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func writeBytesAtomic(path string, payload []byte) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		if _, err := w.Write(payload); err != nil {
			return apperrors.Storagef(err, "write %s", path)
		}
		return nil
	})
}
