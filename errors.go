package rolloc

import "errors"

var (
	// ErrConfiguration reports an unusable configuration: no items, a
	// non-positive radius, an invalid duration or an unknown option key.
	ErrConfiguration = errors.New("rolloc: invalid configuration")

	// ErrAlreadyMounted is returned by Mount when the wheel already owns a
	// mounted scene.
	ErrAlreadyMounted = errors.New("rolloc: already mounted, unmount previous target first")

	// ErrTargetNotFound is returned by Mount when the render target cannot be
	// resolved.
	ErrTargetNotFound = errors.New("rolloc: target not found")

	// ErrNotMounted is returned by Spin before the wheel has been mounted.
	ErrNotMounted = errors.New("rolloc: wheel is not mounted")

	// ErrSpinInProgress is returned by Spin while a previous spin is still
	// running and overlapping spins are not enabled.
	ErrSpinInProgress = errors.New("rolloc: spin already in progress")
)
