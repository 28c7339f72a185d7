package data

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

var _ core.AttachmentRepository = (*AttachmentStore)(nil)

// AttachmentStore keeps candidate attachments at
// <root>/candidates/<candidate_id>-attachments/<type>-<upload_date>/<filename>
// with an empty "complete" marker beside each finished file.
//
// A download is two-phase: the body is streamed into a hidden .part file, renamed into place,
// and only then is the marker created. Any folder without a marker is retried from scratch.
type AttachmentStore struct {
	root string
}

// NewAttachmentStore creates an AttachmentStore rooted at the cache directory.
func NewAttachmentStore(root string) (*AttachmentStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrNoCacheRoot
	}
	return &AttachmentStore{root: root}, nil
}

func (s *AttachmentStore) candidatesDir() string {
	return filepath.Join(s.root, string(model.EntityCandidates))
}

// Dir returns the folder that holds one attachment of a candidate.
func (s *AttachmentStore) Dir(candidateID string, a model.Attachment) (string, error) {
	if err := model.ValidateID(candidateID); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid candidate id")
	}
	return filepath.Join(s.candidatesDir(), model.CandidateAttachmentsDir(candidateID), a.DirName()), nil
}

// IsComplete reports whether both the data file and the marker exist.
func (s *AttachmentStore) IsComplete(candidateID string, a model.Attachment) (bool, error) {
	dir, err := s.Dir(candidateID, a)
	if err != nil {
		return false, err
	}
	marker, err := fileExists(filepath.Join(dir, model.CompletionMarker))
	if err != nil || !marker {
		return false, err
	}
	return fileExists(filepath.Join(dir, a.SafeFilename()))
}

// Save clears what a previous attempt at this file left behind, streams the new body
// through write and marks the folder complete once the file is in place. Other files
// sharing the folder are left alone.
func (s *AttachmentStore) Save(candidateID string, a model.Attachment, write func(io.Writer) error) (string, error) {
	dir, err := s.Dir(candidateID, a)
	if err != nil {
		return "", err
	}

	marker := filepath.Join(dir, model.CompletionMarker)
	// The marker goes first so an interrupted cleanup can never look complete.
	if err := removeIfExists(marker); err != nil {
		return "", err
	}
	name := a.SafeFilename()
	entries, err := readDirIfExists(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Name() == name || isPartialOf(e.Name(), name) {
			if err := removeIfExists(filepath.Join(dir, e.Name())); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, write); err != nil {
		return "", err
	}

	if err := os.WriteFile(marker, nil, filePerm); err != nil {
		return "", apperrors.Storagef(err, "write marker %s", marker)
	}
	return path, nil
}

// CandidateIDs lists candidates that own an attachments folder, sorted.
func (s *AttachmentStore) CandidateIDs() ([]string, error) {
	entries, err := readDirIfExists(s.candidatesDir())
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), model.AttachmentsSuffix) {
			ids = append(ids, strings.TrimSuffix(e.Name(), model.AttachmentsSuffix))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Scan describes every attachment folder in the cache, ordered by candidate and folder name.
func (s *AttachmentStore) Scan() ([]model.StoredAttachment, error) {
	ids, err := s.CandidateIDs()
	if err != nil {
		return nil, err
	}

	var out []model.StoredAttachment
	for _, id := range ids {
		base := filepath.Join(s.candidatesDir(), model.CandidateAttachmentsDir(id))
		subdirs, err := readDirIfExists(base)
		if err != nil {
			return nil, err
		}
		for _, sub := range subdirs {
			if !sub.IsDir() {
				continue
			}
			found, err := scanAttachmentDir(id, filepath.Join(base, sub.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, found)
		}
	}
	return out, nil
}

func scanAttachmentDir(candidateID, dir string) (model.StoredAttachment, error) {
	found := model.StoredAttachment{CandidateID: candidateID, Dir: dir}
	found.Type, found.CreatedAt, _ = model.ParseAttachmentDirName(filepath.Base(dir))

	entries, err := readDirIfExists(dir)
	if err != nil {
		return found, err
	}
	for _, e := range entries {
		name := e.Name()
		switch {
		case name == model.CompletionMarker:
			found.Complete = true
		case isPartialName(name):
			found.Partials = append(found.Partials, filepath.Join(dir, name))
		case e.Type().IsRegular():
			found.Files = append(found.Files, filepath.Join(dir, name))
		}
	}
	return found, nil
}
