package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestDivergence means the manifests disagreed before an update.
	ErrManifestDivergence = errors.New("manifest divergence")
	// ErrIOFailure marks filesystem errors that must abort the commit.
	ErrIOFailure = errors.New("io failure")
	// ErrTrackerCorruption marks an unreadable tracker record. It is logged and
	// the record is treated as empty.
	ErrTrackerCorruption = errors.New("tracker corruption")
	// ErrVersionFormat means a manifest holds a version that does not parse.
	ErrVersionFormat = errors.New("invalid version format")
	// ErrSchemeMismatch means a version does not fit the configured scheme.
	ErrSchemeMismatch = errors.New("version scheme mismatch")
	// ErrDetachedHead means HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
	// ErrVerification means a manifest did not read back the version just written.
	ErrVerification = errors.New("post-write verification failed")
)

// ManifestDivergenceError names the manifest that disagrees with the primary.
type ManifestDivergenceError struct {
	Primary        string
	PrimaryVersion string
	Path           string
	Version        string
}

func (e *ManifestDivergenceError) Error() string {
	return fmt.Sprintf("manifest %s has version %s but primary manifest %s has %s",
		e.Path, e.Version, e.Primary, e.PrimaryVersion)
}

// Is lets errors.Is match ErrManifestDivergence.
func (e *ManifestDivergenceError) Is(target error) bool {
	return target == ErrManifestDivergence
}

// IOError is a failed filesystem operation on Path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrIOFailure.
func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}

// NewIOError wraps err as an IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
