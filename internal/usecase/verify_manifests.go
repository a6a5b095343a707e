package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
)

// VerifyManifestsUseCase re-reads every manifest after a write.
type VerifyManifestsUseCase struct {
	Reader *ReadManifestsUseCase
}

// Execute fails with ErrVerification unless every manifest now holds want.
func (uc *VerifyManifestsUseCase) Execute(ctx context.Context, want *domain.Version) error {
	versions, err := uc.Reader.Execute(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVerification, err)
	}
	for _, mv := range versions {
		if !mv.Version.Equal(want) {
			return fmt.Errorf("%w: %s reads %s, expected %s",
				domain.ErrVerification, mv.Manifest.Path, mv.Version, want)
		}
	}
	return nil
}
