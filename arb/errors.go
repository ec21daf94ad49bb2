package arb

import "errors"

var (
	// ErrNoPath: neither find_buy_paths nor find_sell_paths returned a path
	// for the requested coin (spec §4.C5 "TrialCtx construction").
	ErrNoPath = errors.New("arb: no path for coin")

	// ErrPoolIrrelevant: a pool_id was specified but no buy or sell path
	// touches it (spec §4.C5 "TrialCtx construction").
	ErrPoolIrrelevant = errors.New("arb: pool_id irrelevant to coin's paths")

	// ErrNoProfitableGrid: every grid-scan trial returned profit <= 0 (spec
	// §4.C5 find_opportunity step 3).
	ErrNoProfitableGrid = errors.New("arb: no profitable grid point")

	// ErrNoProfitablePath: profit dropped to <= 0 after golden-section
	// refinement (spec §4.C5 find_opportunity step 5).
	ErrNoProfitablePath = errors.New("arb: no profitable path after refinement")
)
