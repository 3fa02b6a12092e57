package compute

import "errors"

var (
	// ErrNotReady is returned by Play when the handler has no program.
	ErrNotReady = errors.New("compute: handler not ready")
	// ErrKernelNotFound is returned by FindKernel for unknown kernel names.
	ErrKernelNotFound = errors.New("compute: kernel not found")
	// ErrDimensionMismatch marks a texture of the wrong dimension handed to
	// an operation that requires another one. It is a programming error.
	ErrDimensionMismatch = errors.New("compute: texture dimension mismatch")
	// ErrDisposed is returned when a disposed handler is used again.
	ErrDisposed = errors.New("compute: handler disposed")
	// ErrPreviewDisabled is returned by RefreshPreview on a volume whose
	// preview is off. The preview texture only exists while it is on.
	ErrPreviewDisabled = errors.New("compute: preview disabled")
)
