package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// AftermathExtra carries Aftermath's package/registry handles. Aftermath is
// this core's primary flash-loan source (spec §4.C4): its pools expose a
// matched borrow/repay entry-function pair instead of requiring a separate
// lending-protocol hop.
type AftermathExtra struct {
	PackageID  sui.ObjectID
	PoolConfig sui.ObjectID
	FeeBps     uint16
}

func (AftermathExtra) isPoolExtra() {}

const (
	aftermathReserveAOffset = 8
	aftermathReserveBOffset = 16
)

type aftermathDex struct {
	pool     sui.ObjectID
	ref      sui.ObjectRef
	pkg      sui.ObjectID
	cfg      sui.ObjectID
	coinA    sui.CoinType
	coinB    sui.CoinType
	a2b      bool
	reserves cpmmReserves
}

// NewAftermathDex builds the Dex views for one Aftermath pool.
func NewAftermathDex(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error) {
	extra, ok := pool.Extra.(AftermathExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/aftermath: missing AftermathExtra")
	}
	if !pool.HasToken(coinIn) {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/aftermath: read pool object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	resA, ok1 := decodeU64LE(res.BCS, aftermathReserveAOffset)
	resB, ok2 := decodeU64LE(res.BCS, aftermathReserveBOffset)
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
		out = append(out, &aftermathDex{
			pool:     pool.PoolID,
			ref:      sui.ObjectRef{ObjectID: pool.PoolID, Version: res.Ref.Version, Digest: res.Ref.Digest},
			pkg:      extra.PackageID,
			cfg:      extra.PoolConfig,
			coinA:    coinIn,
			coinB:    co,
			a2b:      a2b,
			reserves: cpmmReserves{reserveA: reserveIn, reserveB: reserveOut, feeBps: extra.FeeBps},
		})
	}
	return out, nil
}

func (d *aftermathDex) CoinInType() sui.CoinType  { return d.coinA }
func (d *aftermathDex) CoinOutType() sui.CoinType { return d.coinB }
func (d *aftermathDex) Protocol() Protocol        { return ProtocolAftermath }
func (d *aftermathDex) ObjectID() sui.ObjectID    { return d.pool }
func (d *aftermathDex) Liquidity() uint64         { return d.reserves.liquidity() }
func (d *aftermathDex) IsA2B() bool               { return d.a2b }
func (d *aftermathDex) EstimateAmountOut(amountIn uint64) uint64 {
	return d.reserves.amountOut(amountIn)
}

func (d *aftermathDex) Flip() Dex {
	d.coinA, d.coinB = d.coinB, d.coinA
	d.a2b = !d.a2b
	d.reserves.reserveA, d.reserves.reserveB = d.reserves.reserveB, d.reserves.reserveA
	return d
}

func (d *aftermathDex) Clone() Dex {
	cp := *d
	return &cp
}

func (d *aftermathDex) SupportFlashloan() bool { return true }

func (d *aftermathDex) ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	in := coinIn
	if amountIn != nil {
		in = tc.SplitCoin(coinIn, tc.Pure(PureU64(*amountIn)))
	}
	poolArg := tc.Obj(d.ref, true)
	cfgArg := tc.Obj(sui.ObjectRef{ObjectID: d.cfg}, false)
	out := tc.MoveCall(d.pkg, "swap", "swap_exact_in", []sui.CoinType{d.coinA, d.coinB}, []sui.Argument{cfgArg, poolArg, in})
	return out, nil
}

// ExtendFlashloanTx appends Aftermath's `flash_loan::borrow`, which returns
// (Coin<T>, FlashReceipt) — the receipt carries the fee owed and must be
// consumed exactly once by ExtendRepayTx (spec §3).
func (d *aftermathDex) ExtendFlashloanTx(ctx context.Context, tc *TradeCtx, amount uint64) (FlashResult, error) {
	poolArg := tc.Obj(d.ref, true)
	cfgArg := tc.Obj(sui.ObjectRef{ObjectID: d.cfg}, false)
	amountArg := tc.Pure(PureU64(amount))
	cmdIdx := tc.MoveCallMulti(d.pkg, "flash_loan", "borrow", []sui.CoinType{d.coinA}, []sui.Argument{cfgArg, poolArg, amountArg})
	poolArgCopy := poolArg
	return FlashResult{
		CoinOutArg: NestedResult(cmdIdx, 0),
		ReceiptArg: NestedResult(cmdIdx, 1),
		PoolArg:    &poolArgCopy,
	}, nil
}

// ExtendRepayTx appends `flash_loan::repay`, consuming fr.ReceiptArg and the
// repayment coin.
func (d *aftermathDex) ExtendRepayTx(ctx context.Context, tc *TradeCtx, repayCoin sui.Argument, fr FlashResult) (sui.Argument, error) {
	if fr.PoolArg == nil {
		return sui.Argument{}, utils.Wrap(ErrFlashloanNotSupported, "dex/aftermath: missing pool handle for repay")
	}
	cfgArg := tc.Obj(sui.ObjectRef{ObjectID: d.cfg}, false)
	out := tc.MoveCall(d.pkg, "flash_loan", "repay", []sui.CoinType{d.coinA},
		[]sui.Argument{cfgArg, *fr.PoolArg, repayCoin, fr.ReceiptArg})
	return out, nil
}
