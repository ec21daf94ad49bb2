package dex

import "errors"

// Error kinds from spec §7. Adapters and the registry return these (wrapped
// with context) so callers can match with errors.Is.
var (
	// ErrPoolUnavailable: pool object frozen, paused, missing, or an
	// unexpected layout. Recovered locally — the pool is skipped.
	ErrPoolUnavailable = errors.New("dex: pool unavailable")

	// ErrFlashloanNotSupported: ExtendFlashloanTx/ExtendRepayTx called on a
	// Dex whose protocol does not implement flash-loan framing.
	ErrFlashloanNotSupported = errors.New("dex: flashloan not supported")

	// ErrNoPath: path search returned no candidate path.
	ErrNoPath = errors.New("dex: no path")

	// ErrPoolIrrelevant: a pool constraint was given but no path touches it.
	ErrPoolIrrelevant = errors.New("dex: pool irrelevant to any path")
)
