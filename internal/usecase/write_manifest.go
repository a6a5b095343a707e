package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/repository"
	"github.com/compozy/bumpver/internal/service"
	"github.com/spf13/afero"
)

// WriteManifestUseCase rewrites one manifest with a new version.
type WriteManifestUseCase struct {
	Fs afero.Fs
}

// Execute renders next into the manifest's original bytes and replaces the
// file atomically.
func (uc *WriteManifestUseCase) Execute(_ context.Context, current domain.ManifestVersion, next *domain.Version) error {
	codec, err := service.NewManifestCodec(current.Manifest.Format)
	if err != nil {
		return err
	}
	data, err := codec.WriteVersion(current.Raw, next.String())
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", current.Manifest.Path, err)
	}
	return repository.WriteFileAtomic(uc.Fs, current.Manifest.Path, data)
}

// Restore puts the bytes read before the update back in place.
func (uc *WriteManifestUseCase) Restore(_ context.Context, original domain.ManifestVersion) error {
	return repository.WriteFileAtomic(uc.Fs, original.Manifest.Path, original.Raw)
}
