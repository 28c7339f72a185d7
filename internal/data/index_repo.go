package data

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

// IndexFileName is the per-entity index file.
const IndexFileName = "index.csv"

var _ core.IndexRepository = (*IndexRepo)(nil)

// IndexRepo reads and writes <root>/<entity>/index.csv.
//
// The file is rewritten as a whole on every save, keyed by id, so re-fetching a record
// updates its row instead of appending a duplicate. Files written by older append-only
// runs are still readable; Read exposes their duplicates and Load collapses them.
type IndexRepo struct {
	root string
}

// NewIndexRepo creates an IndexRepo rooted at the cache directory.
func NewIndexRepo(root string) (*IndexRepo, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrNoCacheRoot
	}
	return &IndexRepo{root: root}, nil
}

// Path returns the index file of an entity type.
func (r *IndexRepo) Path(entity model.EntityType) string {
	return filepath.Join(r.root, string(entity), IndexFileName)
}

// Read returns every row in file order. A missing index is empty.
func (r *IndexRepo) Read(entity model.EntityType) ([]model.IndexRow, error) {
	path := r.Path(entity)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Storagef(err, "open %s", path)
	}
	defer f.Close()

	rows, err := parseIndex(f)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeConsistency, "parse %s", path)
	}
	return rows, nil
}

// Load returns the keyed index of an entity type.
func (r *IndexRepo) Load(entity model.EntityType) (*model.Index, error) {
	rows, err := r.Read(entity)
	if err != nil {
		return nil, err
	}
	return model.NewIndex(rows...), nil
}

// Save atomically replaces the index file with idx.
func (r *IndexRepo) Save(entity model.EntityType, idx *model.Index) error {
	path := r.Path(entity)
	return writeFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(model.IndexColumns); err != nil {
			return apperrors.Storagef(err, "write %s", path)
		}
		for _, row := range idx.Rows() {
			if err := cw.Write([]string{row.ID, row.Moniker, row.Timestamp}); err != nil {
				return apperrors.Storagef(err, "write %s", path)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return apperrors.Storagef(err, "write %s", path)
		}
		return nil
	})
}

// Append upserts a single row and saves the index.
func (r *IndexRepo) Append(entity model.EntityType, row model.IndexRow) error {
	idx, err := r.Load(entity)
	if err != nil {
		return err
	}
	idx.Upsert(row)
	return r.Save(entity, idx)
}

func parseIndex(in io.Reader) ([]model.IndexRow, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = len(model.IndexColumns)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, col := range model.IndexColumns {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")), col) {
			return nil, ErrUnexpectedIndexHeader
		}
	}

	var rows []model.IndexRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.IndexRow{
			ID:        strings.TrimSpace(rec[0]),
			Moniker:   unquoteLegacy(rec[1]),
			Timestamp: strings.TrimSpace(rec[2]),
		})
	}
}

// unquoteLegacy strips the extra quote pair older writers put around monikers containing commas.
func unquoteLegacy(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && strings.Contains(s, ",") {
		return s[1 : len(s)-1]
	}
	return s
}
