package usecase

import "github.com/compozy/bumpver/internal/domain"

// CheckConsistency fails with a ManifestDivergenceError naming the first
// manifest whose version differs from the primary's.
func CheckConsistency(versions []domain.ManifestVersion) error {
	if len(versions) == 0 {
		return nil
	}
	primary := versions[0]
	for _, mv := range versions[1:] {
		if !mv.Version.Equal(primary.Version) {
			return &domain.ManifestDivergenceError{
				Primary:        primary.Manifest.Path,
				PrimaryVersion: primary.Version.String(),
				Path:           mv.Manifest.Path,
				Version:        mv.Version.String(),
			}
		}
	}
	return nil
}
