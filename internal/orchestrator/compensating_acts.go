package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// CompensatingActions provides idempotent rollback operations for bump steps
type CompensatingActions struct {
	fs     afero.Fs
	store  repository.BranchStore
	logger *zap.Logger
}

// NewCompensatingActions creates a new compensating actions handler
func NewCompensatingActions(fs afero.Fs, store repository.BranchStore, logger *zap.Logger) *CompensatingActions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompensatingActions{fs: fs, store: store, logger: logger}
}

// RestoreManifest writes the bytes a manifest held before the run back in place.
func (ca *CompensatingActions) RestoreManifest(_ context.Context, rollbackData map[string]any) error {
	path, ok := rollbackData[rollbackKeyPath].(string)
	if !ok || path == "" {
		return fmt.Errorf("%s not found in rollback data", rollbackKeyPath)
	}
	original, ok := rollbackData[rollbackKeyOriginal].([]byte)
	if !ok {
		return fmt.Errorf("%s not found in rollback data for %s", rollbackKeyOriginal, path)
	}
	if current, err := afero.ReadFile(ca.fs, path); err == nil && string(current) == string(original) {
		return nil
	}
	if err := repository.WriteFileAtomic(ca.fs, path, original); err != nil {
		return err
	}
	ca.logger.Info("restored manifest", zap.String("path", path))
	return nil
}

// UnmarkBranch removes a branch from the tracker if this run added it.
func (ca *CompensatingActions) UnmarkBranch(ctx context.Context, rollbackData map[string]any) error {
	branch, ok := rollbackData[rollbackKeyBranch].(string)
	if !ok || branch == "" {
		return fmt.Errorf("%s not found in rollback data", rollbackKeyBranch)
	}
	if marked, _ := rollbackData[rollbackKeyNewlyMarked].(bool); !marked {
		ca.logger.Debug("branch was tracked before this run, keeping it", zap.String("branch", branch))
		return nil
	}
	if err := ca.store.Reset(ctx, branch); err != nil {
		return fmt.Errorf("failed to unmark branch %s: %w", branch, err)
	}
	return nil
}

// NoOp is a no-operation compensating action for operations that don't need rollback
func (ca *CompensatingActions) NoOp(_ context.Context, _ map[string]any) error {
	return nil
}
