package printer

import "errors"

var (
	// ErrDependencyMissing means the QR or image encoders are unusable; nothing can be generated
	ErrDependencyMissing = errors.New("imaging dependency missing")
	// ErrRender wraps a failure to produce one artifact
	ErrRender = errors.New("render failed")
)
