package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitRepository is the go-git implementation of GitRepository.
type gitRepository struct {
	repo *git.Repository
	root string
}

// NewGitRepository opens the repository containing root.
func NewGitRepository(root string) (GitRepository, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo, root: abs}, nil
}

// CurrentBranch reads HEAD without resolving it, so it also works on an
// unborn branch before the first commit exists.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", domain.ErrDetachedHead
	}
	if !head.Target().IsBranch() {
		return "", fmt.Errorf("HEAD points at %s, not a branch", head.Target())
	}
	return head.Target().Short(), nil
}

// StageFiles stages paths relative to the project root.
func (r *gitRepository) StageFiles(_ context.Context, paths ...string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	wtRoot, err := filepath.EvalSymlinks(w.Filesystem.Root())
	if err != nil {
		return fmt.Errorf("failed to resolve worktree root: %w", err)
	}
	projectRoot, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}
	for _, p := range paths {
		rel, err := filepath.Rel(wtRoot, filepath.Join(projectRoot, p))
		if err != nil {
			return fmt.Errorf("failed to resolve %s against worktree: %w", p, err)
		}
		if _, err := w.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}
