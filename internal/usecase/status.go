package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/repository"
)

// ManifestStatus is one manifest's state as seen by the status command.
type ManifestStatus struct {
	Manifest domain.Manifest
	Version  string
	Err      error
}

// Status is a snapshot of the tracker and the manifests.
type Status struct {
	Branches   []string
	Manifests  []ManifestStatus
	Consistent bool
}

// StatusUseCase collects a Status. Manifest errors are reported per manifest
// instead of failing the whole snapshot.
type StatusUseCase struct {
	Store  repository.BranchStore
	Reader *ReadManifestsUseCase
}

// Execute builds the snapshot.
func (uc *StatusUseCase) Execute(ctx context.Context) (*Status, error) {
	branches, err := uc.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked branches: %w", err)
	}
	st := &Status{Branches: branches, Consistent: true}
	var read []domain.ManifestVersion
	for _, m := range uc.Reader.Manifests {
		mv, err := ReadManifest(uc.Reader.Fs, m, uc.Reader.Scheme)
		if err != nil {
			st.Manifests = append(st.Manifests, ManifestStatus{Manifest: m, Err: err})
			st.Consistent = false
			continue
		}
		st.Manifests = append(st.Manifests, ManifestStatus{Manifest: m, Version: mv.Version.String()})
		read = append(read, *mv)
	}
	if err := CheckConsistency(read); err != nil {
		st.Consistent = false
	}
	return st, nil
}
