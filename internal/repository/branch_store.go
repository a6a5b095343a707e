package repository

import (
	"context"
	"fmt"
	"strings"
)

// BranchStore is the persisted set of branches that already received their
// semantic bump in the current cycle.
type BranchStore interface {
	HasBumped(ctx context.Context, branch string) (bool, error)
	// MarkBumped is idempotent.
	MarkBumped(ctx context.Context, branch string) error
	// Reset is idempotent; resetting an unknown branch is not an error.
	Reset(ctx context.Context, branch string) error
	ResetAll(ctx context.Context) error
	// List returns the tracked branches in sorted order.
	List(ctx context.Context) ([]string, error)
}

// checkBranchKey rejects names the line-based record cannot hold.
func checkBranchKey(branch string) error {
	if strings.TrimSpace(branch) == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if strings.ContainsAny(branch, "\r\n") {
		return fmt.Errorf("branch name cannot contain line breaks: %q", branch)
	}
	return nil
}
