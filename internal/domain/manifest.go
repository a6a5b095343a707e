package domain

import "fmt"

// ManifestFormat names the textual syntax of a version manifest.
type ManifestFormat string

const (
	// ManifestTOML is a Cargo-style descriptor with version under [package].
	ManifestTOML ManifestFormat = "toml"
	// ManifestJSON is a JSON document with a top-level "version" field.
	ManifestJSON ManifestFormat = "json"
	// ManifestPlain is a file whose whole content is the version.
	ManifestPlain ManifestFormat = "plain"
)

// Valid reports whether f is a known format.
func (f ManifestFormat) Valid() bool {
	switch f {
	case ManifestTOML, ManifestJSON, ManifestPlain:
		return true
	}
	return false
}

// Manifest is a version-bearing file of the project.
type Manifest struct {
	Path   string         `mapstructure:"path"`
	Format ManifestFormat `mapstructure:"format"`
}

func (m Manifest) String() string {
	return fmt.Sprintf("%s (%s)", m.Path, m.Format)
}

// ManifestVersion is the version a manifest held when it was read, along with
// the raw bytes needed to restore it.
type ManifestVersion struct {
	Manifest Manifest
	Version  *Version
	Raw      []byte
}
