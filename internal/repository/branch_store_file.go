package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileBranchStore keeps the bumped branches in a newline separated file.
// It does no locking of its own; callers hold a Locker around a run.
type FileBranchStore struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

// NewFileBranchStore creates a store backed by path on fs.
func NewFileBranchStore(fs afero.Fs, path string, logger *zap.Logger) *FileBranchStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileBranchStore{fs: fs, path: path, logger: logger}
}

// Path returns the record location.
func (s *FileBranchStore) Path() string {
	return s.path
}

func (s *FileBranchStore) HasBumped(_ context.Context, branch string) (bool, error) {
	set := s.load()
	_, ok := set[branch]
	return ok, nil
}

func (s *FileBranchStore) MarkBumped(_ context.Context, branch string) error {
	if err := checkBranchKey(branch); err != nil {
		return err
	}
	set := s.load()
	if _, ok := set[branch]; ok {
		return nil
	}
	set[branch] = struct{}{}
	return s.save(set)
}

func (s *FileBranchStore) Reset(_ context.Context, branch string) error {
	set := s.load()
	if _, ok := set[branch]; !ok {
		return nil
	}
	delete(set, branch)
	return s.save(set)
}

func (s *FileBranchStore) ResetAll(_ context.Context) error {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return domain.NewIOError("stat", s.path, err)
	}
	if !exists {
		return nil
	}
	return s.save(map[string]struct{}{})
}

func (s *FileBranchStore) List(_ context.Context) ([]string, error) {
	return sortedBranches(s.load()), nil
}

// load reads the record. A missing file is an empty record; an unreadable or
// corrupt one is logged and also treated as empty.
func (s *FileBranchStore) load() map[string]struct{} {
	set := map[string]struct{}{}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("tracker record unreadable, treating as empty",
				zap.String("path", s.path), zap.Error(err), zap.NamedError("kind", domain.ErrTrackerCorruption))
		}
		return set
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		s.logger.Warn("tracker record is not valid text, treating as empty",
			zap.String("path", s.path), zap.NamedError("kind", domain.ErrTrackerCorruption))
		return set
	}
	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func (s *FileBranchStore) save(set map[string]struct{}) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, DirPermissions); err != nil {
		return domain.NewIOError("mkdir", dir, err)
	}
	var buf bytes.Buffer
	for _, name := range sortedBranches(set) {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	return WriteFileAtomic(s.fs, s.path, buf.Bytes())
}

func sortedBranches(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
