package data

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// writeFileAtomic streams content into a uniquely named hidden temp file beside path,
// syncs it and renames it over path, so readers only ever see a complete file.
// Errors returned by write are passed through unchanged; filesystem errors are storage errors.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return apperrors.Storagef(err, "create directory %s", dir)
	}

	tmp := partialPath(path)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return apperrors.Storagef(err, "create %s", tmp)
	}

	if err = write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return apperrors.Storagef(err, "sync %s", tmp)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Storagef(err, "close %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Storagef(err, "rename %s", tmp)
	}
	return nil
}

// partialPath names the temp file used while path is being written.
func partialPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+model.PartialSuffix)
}

// isPartialName reports whether a directory entry is a leftover temp file.
func isPartialName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, model.PartialSuffix)
}

// isPartialOf reports whether name is a leftover temp file of the file called target.
func isPartialOf(name, target string) bool {
	return isPartialName(name) && strings.HasPrefix(name, "."+target+".")
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, apperrors.Storagef(err, "stat %s", path)
	}
}

// readDirIfExists lists dir, treating a missing directory as empty.
func readDirIfExists(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.Storagef(err, "read directory %s", dir)
	}
	return entries, nil
}

func removeIfExists(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return apperrors.Storagef(err, "remove %s", path)
	}
	return nil
}
