package orchestrator

import (
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/usecase"
	"github.com/spf13/afero"
)

// Settings is the project layout the orchestrators work against. Manifest
// paths are relative to the root of the afero.Fs handed to them.
type Settings struct {
	Scheme    domain.Scheme
	Manifests []domain.Manifest
	// Branch overrides branch detection when set.
	Branch string
	// Stage adds rewritten manifests to the git index.
	Stage bool
}

func (s Settings) validate() error {
	if !s.Scheme.Valid() {
		return fmt.Errorf("unknown version scheme %q", s.Scheme)
	}
	if len(s.Manifests) == 0 {
		return fmt.Errorf("at least one manifest is required")
	}
	if s.Branch != "" {
		if err := ValidateBranchName(s.Branch); err != nil {
			return err
		}
	}
	return nil
}

func (s Settings) reader(fs afero.Fs) *usecase.ReadManifestsUseCase {
	return &usecase.ReadManifestsUseCase{Fs: fs, Scheme: s.Scheme, Manifests: s.Manifests}
}
