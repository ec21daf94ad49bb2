package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// BlueMoveExtra carries BlueMove's DEX package handle and fee tier.
type BlueMoveExtra struct {
	PackageID sui.ObjectID
	FeeBps    uint16
}

func (BlueMoveExtra) isPoolExtra() {}

const (
	bluemoveReserveAOffset = 0
	bluemoveReserveBOffset = 8
)

type blueMoveDex struct {
	pool     sui.ObjectID
	ref      sui.ObjectRef
	pkg      sui.ObjectID
	coinA    sui.CoinType
	coinB    sui.CoinType
	a2b      bool
	reserves cpmmReserves
}

// NewBlueMoveDex builds the Dex views for one BlueMove pool — another
// constant-product AMM, differing from Kriya only in its reserve field
// offsets and entry-function names.
func NewBlueMoveDex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(BlueMoveExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/bluemove: missing BlueMoveExtra")
	}
	if !pool.HasToken(coinIn) {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/bluemove: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	resA, ok1 := decodeU64LE(res.BCS, bluemoveReserveAOffset)
	resB, ok2 := decodeU64LE(res.BCS, bluemoveReserveBOffset)
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
		out = append(out, &blueMoveDex{
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

func (d *blueMoveDex) CoinInType() sui.CoinType  { return d.coinA }
func (d *blueMoveDex) CoinOutType() sui.CoinType { return d.coinB }
func (d *blueMoveDex) Protocol() Protocol        { return ProtocolBlueMove }
func (d *blueMoveDex) ObjectID() sui.ObjectID    { return d.pool }
func (d *blueMoveDex) Liquidity() uint64         { return d.reserves.liquidity() }
func (d *blueMoveDex) IsA2B() bool               { return d.a2b }
func (d *blueMoveDex) EstimateAmountOut(amountIn uint64) uint64 {
	return d.reserves.amountOut(amountIn)
}

func (d *blueMoveDex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	d.reserves.reserveA, d.reserves.reserveB = d.reserves.reserveB, d.reserves.reserveA
	return d
}

func (d *blueMoveDex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *blueMoveDex) SupportFlashloan() bool { return false }

func (d *blueMoveDex) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (d *blueMoveDex) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}

func (d *blueMoveDex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	dirArg := tc.Pure(boolBCS(d.a2b))
	out := tc.MoveCall(d.pkg, "swap", "swap_exact_in", []sui.CoinType{d.coinA, d.coinB}, []sui.Argument{poolArg, in, dirArg})
	return out, nil
}
