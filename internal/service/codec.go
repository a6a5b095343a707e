package service

import (
	"fmt"

	"github.com/compozy/bumpver/internal/domain"
)

// ManifestCodec reads and rewrites the version field of one manifest syntax.
// WriteVersion must leave every other byte of the document untouched.
type ManifestCodec interface {
	ReadVersion(data []byte) (string, error)
	WriteVersion(data []byte, version string) ([]byte, error)
}

// NewManifestCodec returns the codec for format.
func NewManifestCodec(format domain.ManifestFormat) (ManifestCodec, error) {
	switch format {
	case domain.ManifestTOML:
		return NewTOMLCodec(), nil
	case domain.ManifestJSON:
		return NewJSONCodec(), nil
	case domain.ManifestPlain:
		return NewPlainCodec(), nil
	}
	return nil, fmt.Errorf("unsupported manifest format %q", format)
}
