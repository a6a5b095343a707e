package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/service"
	"github.com/spf13/afero"
)

// ReadManifestsUseCase loads the current version of every manifest.
type ReadManifestsUseCase struct {
	Fs        afero.Fs
	Scheme    domain.Scheme
	Manifests []domain.Manifest
}

// Execute reads the manifests in order; the first one is the primary.
func (uc *ReadManifestsUseCase) Execute(ctx context.Context) ([]domain.ManifestVersion, error) {
	if len(uc.Manifests) == 0 {
		return nil, fmt.Errorf("no manifests configured")
	}
	versions := make([]domain.ManifestVersion, 0, len(uc.Manifests))
	for _, m := range uc.Manifests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mv, err := ReadManifest(uc.Fs, m, uc.Scheme)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *mv)
	}
	return versions, nil
}

// ReadManifest reads and parses a single manifest.
func ReadManifest(fs afero.Fs, m domain.Manifest, scheme domain.Scheme) (*domain.ManifestVersion, error) {
	codec, err := service.NewManifestCodec(m.Format)
	if err != nil {
		return nil, err
	}
	raw, err := afero.ReadFile(fs, m.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewIOError("read", m.Path, fmt.Errorf("manifest does not exist: %w", err))
		}
		return nil, domain.NewIOError("read", m.Path, err)
	}
	text, err := codec.ReadVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read version from %s: %w", m.Path, err)
	}
	version, err := domain.ParseVersion(text, scheme)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", m.Path, err)
	}
	return &domain.ManifestVersion{Manifest: m, Version: version, Raw: raw}, nil
}
