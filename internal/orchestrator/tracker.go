package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/compozy/bumpver/internal/usecase"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ResetRequest selects the branches to return to the unbumped state.
type ResetRequest struct {
	Branches []string
	All      bool
}

// TrackerOrchestrator serves the operator commands on the branch tracker.
type TrackerOrchestrator struct {
	fs       afero.Fs
	store    repository.BranchStore
	locker   repository.Locker
	gitRepo  repository.GitRepository
	logger   *zap.Logger
	settings Settings
}

// NewTrackerOrchestrator creates a new tracker orchestrator
func NewTrackerOrchestrator(
	fs afero.Fs,
	store repository.BranchStore,
	locker repository.Locker,
	gitRepo repository.GitRepository,
	logger *zap.Logger,
	settings Settings,
) (*TrackerOrchestrator, error) {
	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackerOrchestrator{
		fs:       fs,
		store:    store,
		locker:   locker,
		gitRepo:  gitRepo,
		logger:   logger,
		settings: settings,
	}, nil
}

// Reset clears the given branches, the whole record with All, or the current
// branch when neither is given. It returns the branches it reset; nil means all.
func (o *TrackerOrchestrator) Reset(ctx context.Context, req ResetRequest) ([]string, error) {
	branches := req.Branches
	if !req.All && len(branches) == 0 {
		current, err := o.currentBranch(ctx)
		if err != nil {
			return nil, err
		}
		branches = []string{current}
	}
	unlock, err := o.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			o.logger.Warn("failed to release lock", zap.Error(unlockErr))
		}
	}()
	uc := &usecase.ResetTrackerUseCase{Store: o.store}
	if err := uc.Execute(ctx, branches, req.All); err != nil {
		return nil, err
	}
	if req.All {
		o.logger.Info("tracker cleared")
		return nil, nil
	}
	o.logger.Info("branches reset", zap.Strings("branches", branches))
	return branches, nil
}

// Status returns the tracked branches and the manifest versions.
func (o *TrackerOrchestrator) Status(ctx context.Context) (*usecase.Status, error) {
	unlock, err := o.locker.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			o.logger.Warn("failed to release lock", zap.Error(unlockErr))
		}
	}()
	uc := &usecase.StatusUseCase{Store: o.store, Reader: o.settings.reader(o.fs)}
	return uc.Execute(ctx)
}

func (o *TrackerOrchestrator) currentBranch(ctx context.Context) (string, error) {
	if o.settings.Branch != "" {
		return o.settings.Branch, nil
	}
	if o.gitRepo == nil {
		return "", fmt.Errorf("no branch given and no git repository available")
	}
	branch, err := o.gitRepo.CurrentBranch(ctx)
	if errors.Is(err, domain.ErrDetachedHead) {
		return "", fmt.Errorf("no branch given and HEAD is detached: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to determine current branch: %w", err)
	}
	return branch, nil
}
