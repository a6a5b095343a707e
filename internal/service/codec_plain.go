package service

import (
	"bytes"
	"fmt"
)

// plainCodec handles files whose whole content is the version.
type plainCodec struct{}

// NewPlainCodec creates the plain ManifestCodec.
func NewPlainCodec() ManifestCodec {
	return plainCodec{}
}

func (plainCodec) ReadVersion(data []byte) (string, error) {
	v := string(bytes.TrimSpace(data))
	if v == "" {
		return "", fmt.Errorf("version file is empty")
	}
	return v, nil
}

func (plainCodec) WriteVersion(data []byte, version string) ([]byte, error) {
	if len(data) == 0 || bytes.HasSuffix(data, []byte("\n")) {
		return []byte(version + "\n"), nil
	}
	return []byte(version), nil
}
