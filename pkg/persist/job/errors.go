package job

import "errors"

var (
	// ErrExternalCommand marks a non-zero result from one of the snapshot,
	// transfer, or mount primitives.
	ErrExternalCommand = errors.New("external command failed")
	// ErrFilesystem marks a required directory that is absent and not
	// configured for automatic creation.
	ErrFilesystem = errors.New("required directory missing")
)
