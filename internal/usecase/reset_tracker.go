package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/repository"
)

// ResetTrackerUseCase returns branches to the unbumped state.
type ResetTrackerUseCase struct {
	Store repository.BranchStore
}

// Execute resets the given branches, or the whole record when all is set.
func (uc *ResetTrackerUseCase) Execute(ctx context.Context, branches []string, all bool) error {
	if all {
		if err := uc.Store.ResetAll(ctx); err != nil {
			return fmt.Errorf("failed to reset tracker: %w", err)
		}
		return nil
	}
	for _, b := range branches {
		if err := uc.Store.Reset(ctx, b); err != nil {
			return fmt.Errorf("failed to reset branch %s: %w", b, err)
		}
	}
	return nil
}
