package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FileSystemRepository defines the interface for filesystem operations.
type FileSystemRepository interface {
	afero.Fs
}

const (
	// FilePermissions is used for files that did not exist before.
	FilePermissions = 0644
	// DirPermissions is used for directories created on demand.
	DirPermissions = 0755
)

// WriteFileAtomic replaces path with data. The data goes to a uniquely named
// sibling temp file which is synced, closed and then renamed over path, so a
// reader sees either the old or the new content. The temp file is removed on
// every failure path. An existing file keeps its permissions.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	perm := os.FileMode(FilePermissions)
	if info, statErr := fs.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return domain.NewIOError("create", tmp, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		if err != nil {
			_ = fs.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return domain.NewIOError("write", tmp, err)
	}
	if err = f.Sync(); err != nil {
		return domain.NewIOError("sync", tmp, err)
	}
	closed = true
	if err = f.Close(); err != nil {
		return domain.NewIOError("close", tmp, err)
	}
	if err = fs.Rename(tmp, path); err != nil {
		return domain.NewIOError("rename", path, err)
	}
	return nil
}
