package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// fsHelper wraps the filesystem the config file lives on.
type fsHelper struct {
	fs afero.Fs
}

func newFSHelper(fs afero.Fs) *fsHelper {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &fsHelper{fs: fs}
}

// exists checks if a file exists and is not a directory.
func (h *fsHelper) exists(path string) bool {
	info, err := h.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// isDir checks if a path exists and is a directory.
func (h *fsHelper) isDir(path string) bool {
	info, err := h.fs.Stat(path)
	return err == nil && info.IsDir()
}

// writeFile replaces path with data by writing a sibling temp file and
// renaming it over the target.
func (h *fsHelper) writeFile(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); !h.isDir(dir) {
		if err := h.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp := path + ".tmp"

	if err := afero.WriteFile(h.fs, tmp, data, 0o644); err != nil {
		return err
	}

	defer func() {
		if h.exists(tmp) {
			if removeErr := h.fs.Remove(tmp); removeErr != nil && err == nil {
				err = removeErr
			}
		}
	}()

	return h.fs.Rename(tmp, path)
}
