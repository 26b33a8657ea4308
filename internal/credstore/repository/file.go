// Package repository persists the credential store and its key cache as JSON files on an
// afero filesystem. Every write goes through a temp file and a rename, so a reader sees
// either the previous file or the new one.
package repository

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

const (
	// FileMode is applied to every file this package writes.
	FileMode os.FileMode = 0o600

	// DirMode is applied to the store directory when it has to be created.
	DirMode os.FileMode = 0o700
)

func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, DirMode); err != nil {
		return apperrors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmpFile, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = fs.Remove(tmpPath)
		return apperrors.Wrap(err, "failed to write temp file")
	}

	if err = tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = fs.Remove(tmpPath)
		return apperrors.Wrap(err, "failed to sync temp file")
	}

	if err = tmpFile.Close(); err != nil {
		_ = fs.Remove(tmpPath)
		return apperrors.Wrap(err, "failed to close temp file")
	}

	if err = fs.Chmod(tmpPath, FileMode); err != nil {
		_ = fs.Remove(tmpPath)
		return apperrors.Wrap(err, "failed to set permissions")
	}

	if err = fs.Rename(tmpPath, path); err != nil {
		_ = fs.Remove(tmpPath)
		return apperrors.Wrap(err, "failed to rename temp file")
	}

	return nil
}

func removeIfExists(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrapf(err, "failed to remove %s", path)
	}
	return nil
}
