// Package arb implements the opportunity search: per-amount trials across
// buy/sell path combinations, a grid scan over input amounts, and an
// optional golden-section refinement (spec §4.C5).
//
// Grounded on the original bot's bin/arb/src/arb.rs (TrialCtx, trial,
// find_opportunity, SearchGoal/goldenSectionSearchMaximize) and
// core/liquidity_pools.go's "precompute once, reuse across many trial
// calls" shape, which TrialCtx follows.
package arb

import (
	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/sui"
)

// TrialCtx precomputes the buy/sell paths a coin's opportunity search
// reuses across every grid point and every golden-section iteration (spec
// §4.C5 "TrialCtx construction").
type TrialCtx struct {
	Coin      sui.CoinType
	PoolID    *sui.ObjectID
	BuyPaths  []dex.Path
	SellPaths []dex.Path
}

// NewTrialCtx builds a TrialCtx for coin, optionally constrained to require
// poolID appear in at least one buy or sell path.
func NewTrialCtx(registry *dex.Registry, coin sui.CoinType, poolID *sui.ObjectID) (*TrialCtx, error) {
	buyPaths, err := registry.FindBuyPaths(coin)
	if err != nil {
		return nil, err
	}
	sellPaths, err := registry.FindSellPaths(coin)
	if err != nil {
		return nil, err
	}
	if len(buyPaths) == 0 || len(sellPaths) == 0 {
		return nil, ErrNoPath
	}

	if poolID != nil {
		found := false
		for _, p := range buyPaths {
			if p.ContainsPool(*poolID) {
				found = true
				break
			}
		}
		if !found {
			for _, p := range sellPaths {
				if p.ContainsPool(*poolID) {
					found = true
					break
				}
			}
		}
		if !found {
			return nil, ErrPoolIrrelevant
		}
	}

	return &TrialCtx{Coin: coin, PoolID: poolID, BuyPaths: buyPaths, SellPaths: sellPaths}, nil
}

// poolRelevant reports whether poolID is unset, or appears in at least one
// of buyPath/sellPath (spec §4.C5 step 2 "either best_buy or the candidate
// sell path contains it").
func poolRelevant(poolID *sui.ObjectID, buyPath, sellPath dex.Path) bool {
	if poolID == nil {
		return true
	}
	return buyPath.ContainsPool(*poolID) || sellPath.ContainsPool(*poolID)
}
