package trader

import "errors"

var (
	// ErrEmptyPath is returned when a swap or flashloan assembly is asked to
	// build a transaction over a zero-hop path.
	ErrEmptyPath = errors.New("trader: empty path")

	// ErrNoFlashProvider is returned when no hop in the path supports a
	// flash loan and no fallback provider was supplied (spec §4.C4 step 1).
	ErrNoFlashProvider = errors.New("trader: no flash-loan provider available")

	// ErrDigestOrderUnreachable is returned when the gas-budget nudge loop
	// exhausts its iteration bound without producing a transaction digest
	// greater than the referenced opportunity digest (spec §4.C4 step 6).
	ErrDigestOrderUnreachable = errors.New("trader: digest ordering unreachable")
)
