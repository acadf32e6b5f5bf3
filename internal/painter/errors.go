package painter

import "errors"

var (
	// ErrNilTarget indicates the painter was given no render target.
	ErrNilTarget = errors.New("painter: nil render target")

	// ErrInvalidTarget indicates the target has no usable mount root.
	ErrInvalidTarget = errors.New("painter: target has no usable mount root")

	// ErrNilLayout indicates Paint was called without a layout.
	ErrNilLayout = errors.New("painter: nil layout")

	// ErrLengthMismatch indicates SetData received blocks/measures slices
	// of different lengths. This is a caller bug and is never retried.
	ErrLengthMismatch = errors.New("painter: blocks and measures length mismatch")
)
