package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Should replace content and keep permissions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Cargo.toml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0600))
		fs := afero.NewOsFs()
		require.NoError(t, WriteFileAtomic(fs, path, []byte("new")))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file should not survive")
	})
	t.Run("Should create a missing file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("src-tauri", 0755))
		require.NoError(t, WriteFileAtomic(fs, "src-tauri/tauri.conf.json", []byte("{}")))
		data, err := afero.ReadFile(fs, "src-tauri/tauri.conf.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})
	t.Run("Should clean up the temp file when rename fails", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "busy")
		require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))
		err := WriteFileAtomic(afero.NewOsFs(), target, []byte("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIOFailure)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
