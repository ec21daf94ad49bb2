package arb

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
	"github.com/pittcat/sui-arb-core/trader"
)

// TrialResult is trial()'s output (spec §4.C5 "Per-input trial"); the zero
// value is the "no profitable round trip" sentinel the original spec calls
// TrialResult::default() — CacheMisses is still populated on a zero result
// so find_opportunity can report diagnostics for a failed grid scan.
type TrialResult struct {
	AmountIn    uint64
	AmountOut   uint64
	GasCost     uint64
	Profit      int64
	BuyPath     dex.Path
	SellPath    dex.Path
	CacheMisses int
}

// TrialParams bundles the inputs trial() and FindOpportunity hold fixed
// across every grid point / golden-section iteration.
type TrialParams struct {
	Sender        sui.Address
	GasCoins      []sui.ObjectRef
	GasPrice      uint64
	Source        sui.Source
	FlashFallback dex.FlashProvider
	BidPackage    sui.ObjectID
	BaseSimCtx    *simulator.SimulateCtx
}

type buyCandidate struct {
	path   dex.Path
	result trader.TradeResult
}

type roundCandidate struct {
	round dex.Path
	sell  dex.Path
}

// trial runs one amount_in through every buy path, picks the max-amount_out
// winner, forms disjoint round-trip candidates against every sell path
// (honoring pool_id relevance), and returns the max-profit round trip (spec
// §4.C5 "Per-input trial").
func trial(ctx context.Context, sim *simulator.Simulator, tc *TrialCtx, p TrialParams, amountIn uint64) (TrialResult, error) {
	cacheMisses := 0

	buyResults := make([]buyCandidate, len(tc.BuyPaths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range tc.BuyPaths {
		i, path := i, path
		g.Go(func() error {
			res, err := trader.GetTradeResult(gctx, sim, trader.GetTradeResultParams{
				Path: path, Sender: p.Sender, AmountIn: amountIn, TradeType: trader.TradeTypeSwap,
				GasCoins: p.GasCoins, GasPrice: p.GasPrice, Source: p.Source, SimCtx: p.BaseSimCtx.Clone(),
			})
			if err != nil {
				return err
			}
			buyResults[i] = buyCandidate{path: path, result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TrialResult{}, err
	}

	bestBuyIdx := -1
	for i, c := range buyResults {
		cacheMisses += c.result.CacheMisses
		if c.result.AmountOut == 0 {
			continue
		}
		if bestBuyIdx == -1 || c.result.AmountOut > buyResults[bestBuyIdx].result.AmountOut {
			bestBuyIdx = i
		}
	}
	if bestBuyIdx == -1 {
		return TrialResult{CacheMisses: cacheMisses}, nil
	}
	bestBuy := buyResults[bestBuyIdx]

	var candidates []roundCandidate
	for _, sellPath := range tc.SellPaths {
		if !bestBuy.path.IsDisjoint(sellPath) {
			continue
		}
		if !poolRelevant(tc.PoolID, bestBuy.path, sellPath) {
			continue
		}
		candidates = append(candidates, roundCandidate{round: bestBuy.path.Concat(sellPath), sell: sellPath})
	}
	if len(candidates) == 0 {
		return TrialResult{CacheMisses: cacheMisses}, nil
	}

	roundResults := make([]trader.TradeResult, len(candidates))
	g2, gctx2 := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g2.Go(func() error {
			res, err := trader.GetTradeResult(gctx2, sim, trader.GetTradeResultParams{
				Path: c.round, Sender: p.Sender, AmountIn: amountIn, TradeType: trader.TradeTypeFlashloan,
				GasCoins: p.GasCoins, GasPrice: p.GasPrice, Source: p.Source,
				FlashFallback: p.FlashFallback, BidPackage: p.BidPackage, SimCtx: p.BaseSimCtx.Clone(),
			})
			if err != nil {
				return err
			}
			roundResults[i] = res
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return TrialResult{}, err
	}

	bestIdx := -1
	var bestProfit int64
	for i, res := range roundResults {
		cacheMisses += res.CacheMisses
		profit := int64(res.AmountOut) - int64(amountIn) - int64(res.GasCost)
		if bestIdx == -1 || profit > bestProfit {
			bestIdx = i
			bestProfit = profit
		}
	}
	if bestIdx == -1 || bestProfit <= 0 {
		return TrialResult{CacheMisses: cacheMisses}, nil
	}

	best := roundResults[bestIdx]
	return TrialResult{
		AmountIn:    amountIn,
		AmountOut:   best.AmountOut,
		GasCost:     best.GasCost,
		Profit:      bestProfit,
		BuyPath:     bestBuy.path,
		SellPath:    candidates[bestIdx].sell,
		CacheMisses: cacheMisses,
	}, nil
}
