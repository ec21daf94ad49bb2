package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// DeepbookV2Extra carries Deepbook's central-limit-order-book package
// handle, which its `clob_v2::swap_exact_*` entries require alongside the
// pool itself, and a descriptive pool tag.
type DeepbookV2Extra struct {
	PackageID sui.ObjectID
	PoolTag   string // e.g. "SUI/USDC" — order books, unlike AMMs, are asymmetric
}

func (DeepbookV2Extra) isPoolExtra() {}

// Deepbook doesn't carry x*y=k reserves: liquidity is read off the best few
// price levels of whichever side the swap consumes, base-asset depth at the
// best bid for an ask-side sell, quote-asset depth at the best ask for a
// bid-side buy.
const (
	deepbookBestBidDepthOffset = 0
	deepbookBestAskDepthOffset = 8
)

type deepbookV2Dex struct {
	pool      sui.ObjectID
	ref       sui.ObjectRef
	pkg       sui.ObjectID
	coinA     sui.CoinType // base
	coinB     sui.CoinType // quote
	a2b       bool         // selling base for quote
	bidDepth  uint64
	askDepth  uint64
}

// NewDeepbookV2Dex builds the Dex views for one Deepbook v2 pool. Deepbook
// pools are strictly base/quote (2 tokens), so unlike the AMM adapters there
// is exactly one coinOut candidate per coinIn.
func NewDeepbookV2Dex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(DeepbookV2Extra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/deepbookv2: missing DeepbookV2Extra")
	}
	if !pool.HasToken(coinIn) || len(pool.Tokens) != 2 {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/deepbookv2: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	bidDepth, ok1 := decodeU64LE(res.BCS, deepbookBestBidDepthOffset)
	askDepth, ok2 := decodeU64LE(res.BCS, deepbookBestAskDepthOffset)
	if !ok1 || !ok2 {
		return nil, ErrPoolUnavailable
	}

	base, quote := pool.Tokens[0].CoinType, pool.Tokens[1].CoinType
	co := quote
	a2b := true
	if coinIn == quote {
		co, a2b = base, false
	}
	if coinOut != nil && *coinOut != co {
		return nil, nil
	}

	return []Dex{&deepbookV2Dex{
		pool:     pool.PoolID,
		ref:      sui.ObjectRef{ObjectID: pool.PoolID, Version: res.Ref.Version, Digest: res.Ref.Digest},
		pkg:      extra.PackageID,
		coinA:    coinIn,
		coinB:    co,
		a2b:      a2b,
		bidDepth: bidDepth,
		askDepth: askDepth,
	}}, nil
}

func (d *deepbookV2Dex) CoinInType() sui.CoinType  { return d.coinA }
func (d *deepbookV2Dex) CoinOutType() sui.CoinType { return d.coinB }
func (d *deepbookV2Dex) Protocol() Protocol        { return ProtocolDeepbookV2 }
func (d *deepbookV2Dex) ObjectID() sui.ObjectID    { return d.pool }
func (d *deepbookV2Dex) IsA2B() bool               { return d.a2b }

func (d *deepbookV2Dex) Liquidity() uint64 {
	if d.a2b {
		return d.bidDepth
	}
	return d.askDepth
}

// EstimateAmountOut quotes at the resting best level only: input up to the
// visible depth is filled 1:1, and the output is capped at that depth, so
// any input beyond it adds nothing (a conservative stand-in for walking the
// full book).
func (d *deepbookV2Dex) EstimateAmountOut(amountIn uint64) uint64 {
	depth := d.Liquidity()
	if amountIn >= depth {
		return depth
	}
	return amountIn
}

func (d *deepbookV2Dex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	return d
}

func (d *deepbookV2Dex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *deepbookV2Dex) SupportFlashloan() bool { return false }

func (d *deepbookV2Dex) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (d *deepbookV2Dex) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}

// ExtendTradeTx appends Deepbook's `clob_v2::swap_exact_base_for_quote` (or
// the quote-for-base counterpart), taking a market order against the
// resting book rather than an AMM curve.
func (d *deepbookV2Dex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	clockArg := tc.Obj(sui.ObjectRef{ObjectID: sui.ClockObjectID}, false)
	fn := "swap_exact_base_for_quote"
	if !d.a2b {
		fn = "swap_exact_quote_for_base"
	}
	out := tc.MoveCall(d.pkg, "clob_v2", fn, []sui.CoinType{d.coinA, d.coinB}, []sui.Argument{poolArg, in, clockArg})
	return out, nil
}
