package repository

import "context"

// GitRepository defines the git operations the bump engine needs.
type GitRepository interface {
	// CurrentBranch returns the short name of the branch HEAD points at.
	// It returns domain.ErrDetachedHead when HEAD is not symbolic.
	CurrentBranch(ctx context.Context) (string, error)
	// StageFiles adds the given paths, relative to the project root, to the index.
	StageFiles(ctx context.Context, paths ...string) error
}
