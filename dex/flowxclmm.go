package dex

import (
	"context"
	"math/bits"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// FlowxClmmExtra carries FlowX's concentrated-liquidity pool's package
// handle and fee tier.
type FlowxClmmExtra struct {
	PackageID sui.ObjectID
	FeeBps    uint16
}

func (FlowxClmmExtra) isPoolExtra() {}

// FlowX CLMM pools store `liquidity` (u128, truncated here to u64) and
// `sqrt_price_x64` (u128, truncated here to the low 64 bits) at these
// offsets. Virtual reserves at the current tick are derived as
// reserveA = liquidity / sqrtPrice, reserveB = liquidity * sqrtPrice — the
// standard local-linearization of a CLMM's constant-product invariant
// around the active tick, which is accurate for swaps small relative to
// the tick's liquidity (the scale this core's path search operates at).
const (
	flowxLiquidityOffset = 8
	flowxSqrtPriceOffset = 24
	flowxSqrtPriceShift  = 32 // Q32 fixed-point scale used for this approximation
)

type flowxClmmDex struct {
	pool     sui.ObjectID
	ref      sui.ObjectRef
	pkg      sui.ObjectID
	coinA    sui.CoinType
	coinB    sui.CoinType
	a2b      bool
	reserves cpmmReserves
}

// NewFlowxClmmDex builds the Dex views for one FlowX CLMM pool.
func NewFlowxClmmDex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(FlowxClmmExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/flowxclmm: missing FlowxClmmExtra")
	}
	if !pool.HasToken(coinIn) {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/flowxclmm: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	liq, ok1 := decodeU64LE(res.BCS, flowxLiquidityOffset)
	sqrtP, ok2 := decodeU64LE(res.BCS, flowxSqrtPriceOffset)
	if !ok1 || !ok2 || sqrtP == 0 {
		return nil, ErrPoolUnavailable
	}
	// resA = liq / (sqrtP / 2^shift), i.e. (liq << shift) / sqrtP in 128 bits,
	// saturating when the quotient does not fit in a u64.
	resA := ^uint64(0)
	if hi := liq >> (64 - flowxSqrtPriceShift); hi < sqrtP {
		resA, _ = bits.Div64(hi, liq<<flowxSqrtPriceShift, sqrtP)
	}
	resB := mulShift(liq, sqrtP, flowxSqrtPriceShift)

	candidates := pool.OtherTokens(coinIn)
	if coinOut != nil {
		candidates = filterCoin(candidates, *coinOut)
	}

	out := make([]Dex, 0, len(candidates))
	for _, co := range candidates {
		a2b := pool.Tokens[0].CoinType == coinIn
		reserveIn, reserveOut := resA, resB
		if !a2b {
			reserveIn, reserveOut = resB, resA
		}
		out = append(out, &flowxClmmDex{
			pool:     pool.PoolID,
			ref:      sui.ObjectRef{ObjectID: pool.PoolID, Version: res.Ref.Version, Digest: res.Ref.Digest},
			pkg:      extra.PackageID,
			coinA:    coinIn,
			coinB:    co,
			a2b:      a2b,
			reserves: cpmmReserves{reserveA: reserveIn, reserveB: reserveOut, feeBps: extra.FeeBps},
		})
	}
	return out, nil
}

func maxu64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func mulShift(a, b uint64, shift uint) uint64 {
	// b carries a 2^shift fixed-point scale; dropping one factor of 2^shift
	// from the 128-bit product leaves the result at a's (unscaled) units.
	hi, lo := bits.Mul64(a, b)
	return (hi << (64 - shift)) | (lo >> shift)
}

func (d *flowxClmmDex) CoinInType() sui.CoinType  { return d.coinA }
func (d *flowxClmmDex) CoinOutType() sui.CoinType { return d.coinB }
func (d *flowxClmmDex) Protocol() Protocol        { return ProtocolFlowxClmm }
func (d *flowxClmmDex) ObjectID() sui.ObjectID    { return d.pool }
func (d *flowxClmmDex) Liquidity() uint64         { return d.reserves.liquidity() }
func (d *flowxClmmDex) IsA2B() bool               { return d.a2b }
func (d *flowxClmmDex) EstimateAmountOut(amountIn uint64) uint64 {
	return d.reserves.amountOut(amountIn)
}

func (d *flowxClmmDex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	d.reserves.reserveA, d.reserves.reserveB = d.reserves.reserveB, d.reserves.reserveA
	return d
}

func (d *flowxClmmDex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *flowxClmmDex) SupportFlashloan() bool { return false }

func (d *flowxClmmDex) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (d *flowxClmmDex) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}

func (d *flowxClmmDex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	clockArg := tc.Obj(sui.ObjectRef{ObjectID: sui.ClockObjectID}, false)
	a2bArg := tc.Pure(boolBCS(d.a2b))
	out := tc.MoveCall(d.pkg, "pool_manager", "swap", []sui.CoinType{d.coinA, d.coinB},
		[]sui.Argument{poolArg, in, a2bArg, clockArg})
	return out, nil
}
