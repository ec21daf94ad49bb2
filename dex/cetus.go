package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// CetusExtra carries the package/config handles Cetus's `clmm_pool::swap`
// entry function needs beyond the pool object itself.
type CetusExtra struct {
	PackageID      sui.ObjectID
	GlobalConfigID sui.ObjectID
	FeeBps         uint16
}

func (CetusExtra) isPoolExtra() {}

const cetusReserveAOffset = 8
const cetusReserveBOffset = 16

type cetusDex struct {
	pool      sui.ObjectID
	ref       sui.ObjectRef
	pkg       sui.ObjectID
	globalCfg sui.ObjectID
	coinA     sui.CoinType
	coinB     sui.CoinType
	a2b       bool
	reserves  cpmmReserves
}

// NewCetusDex builds the Dex views for one Cetus pool (spec §4.C1). Grounded
// on core/liquidity_pools.go's constant-product AMM.Swap formula, adapted to
// Sui's shared-object + global-config call convention.
func NewCetusDex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(CetusExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/cetus: missing CetusExtra")
	}
	if !pool.HasToken(coinIn) {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/cetus: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	resA, ok1 := decodeU64LE(res.BCS, cetusReserveAOffset)
	resB, ok2 := decodeU64LE(res.BCS, cetusReserveBOffset)
	if !ok1 || !ok2 {
		return nil, ErrPoolUnavailable
	}

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
		out = append(out, &cetusDex{
			pool:      pool.PoolID,
			ref:       sui.ObjectRef{ObjectID: pool.PoolID, Version: res.Ref.Version, Digest: res.Ref.Digest},
			pkg:       extra.PackageID,
			globalCfg: extra.GlobalConfigID,
			coinA:     coinIn,
			coinB:     co,
			a2b:       a2b,
			reserves:  cpmmReserves{reserveA: reserveIn, reserveB: reserveOut, feeBps: extra.FeeBps},
		})
	}
	return out, nil
}

func filterCoin(coins []sui.CoinType, want sui.CoinType) []sui.CoinType {
	for _, c := range coins {
		if c == want {
			return []sui.CoinType{c}
		}
	}
	return nil
}

func (d *cetusDex) CoinInType() sui.CoinType  { return d.coinA }
func (d *cetusDex) CoinOutType() sui.CoinType { return d.coinB }
func (d *cetusDex) Protocol() Protocol        { return ProtocolCetus }
func (d *cetusDex) ObjectID() sui.ObjectID    { return d.pool }
func (d *cetusDex) Liquidity() uint64         { return d.reserves.liquidity() }
func (d *cetusDex) IsA2B() bool               { return d.a2b }
func (d *cetusDex) EstimateAmountOut(amountIn uint64) uint64 {
	return d.reserves.amountOut(amountIn)
}

func (d *cetusDex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	d.reserves.reserveA, d.reserves.reserveB = d.reserves.reserveB, d.reserves.reserveA
	return d
}

func (d *cetusDex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *cetusDex) SupportFlashloan() bool { return false }

func (d *cetusDex) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (d *cetusDex) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}

// ExtendTradeTx appends a `clmm_pool::swap` call consuming coinIn whole, or
// a split of exactly *amountIn when amountIn is non-nil (see DESIGN.md open
// question #2 on per-adapter amount_in semantics).
func (d *cetusDex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	cfgArg := tc.Obj(sui.ObjectRef{ObjectID: d.globalCfg}, false)
	clockArg := tc.Obj(sui.ObjectRef{ObjectID: sui.ClockObjectID}, false)
	a2bArg := tc.Pure(boolBCS(d.a2b))
	out := tc.MoveCall(d.pkg, "clmm_pool", "swap", []sui.CoinType{d.coinA, d.coinB},
		[]sui.Argument{cfgArg, poolArg, in, a2bArg, clockArg})
	return out, nil
}

func boolBCS(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
