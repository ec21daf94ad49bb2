package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// KriyaAmmExtra carries Kriya's spot AMM package handle and fee tier.
type KriyaAmmExtra struct {
	PackageID sui.ObjectID
	FeeBps    uint16
}

func (KriyaAmmExtra) isPoolExtra() {}

const (
	kriyaReserveAOffset = 16
	kriyaReserveBOffset = 24
)

type kriyaAmmDex struct {
	pool     sui.ObjectID
	ref      sui.ObjectRef
	pkg      sui.ObjectID
	coinA    sui.CoinType
	coinB    sui.CoinType
	a2b      bool
	reserves cpmmReserves
}

// NewKriyaAmmDex builds the Dex views for one Kriya spot-AMM pool, a
// textbook x*y=k pool identical in shape to core/liquidity_pools.go's
// AMM.Swap.
func NewKriyaAmmDex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(KriyaAmmExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/kriyaamm: missing KriyaAmmExtra")
	}
	if !pool.HasToken(coinIn) {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/kriyaamm: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	resA, ok1 := decodeU64LE(res.BCS, kriyaReserveAOffset)
	resB, ok2 := decodeU64LE(res.BCS, kriyaReserveBOffset)
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
		out = append(out, &kriyaAmmDex{
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

func (d *kriyaAmmDex) CoinInType() sui.CoinType  { return d.coinA }
func (d *kriyaAmmDex) CoinOutType() sui.CoinType { return d.coinB }
func (d *kriyaAmmDex) Protocol() Protocol        { return ProtocolKriyaAmm }
func (d *kriyaAmmDex) ObjectID() sui.ObjectID    { return d.pool }
func (d *kriyaAmmDex) Liquidity() uint64         { return d.reserves.liquidity() }
func (d *kriyaAmmDex) IsA2B() bool               { return d.a2b }
func (d *kriyaAmmDex) EstimateAmountOut(amountIn uint64) uint64 {
	return d.reserves.amountOut(amountIn)
}

func (d *kriyaAmmDex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	d.reserves.reserveA, d.reserves.reserveB = d.reserves.reserveB, d.reserves.reserveA
	return d
}

func (d *kriyaAmmDex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *kriyaAmmDex) SupportFlashloan() bool { return false }

func (d *kriyaAmmDex) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (d *kriyaAmmDex) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}

func (d *kriyaAmmDex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	fn := "swap_a2b"
	if !d.a2b {
		fn = "swap_b2a"
	}
	out := tc.MoveCall(d.pkg, "spot_dex", fn, []sui.CoinType{d.coinA, d.coinB}, []sui.Argument{poolArg, in})
	return out, nil
}
