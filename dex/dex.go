package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/sui"
)

// ObjectResolver reads an on-chain object's current BCS bytes and version,
// the subset of the simulator's snapshot surface a Dex adapter needs during
// pool discovery (spec §4.C1 "Reads the pool object via the simulator").
type ObjectResolver interface {
	ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error)
}

// FlashResult is returned by ExtendFlashloanTx (spec §3): the borrowed coin
// argument, the receipt argument that must be repaid exactly once, and,
// where the protocol needs it again during repay, the mutable pool handle.
type FlashResult struct {
	CoinOutArg sui.Argument
	ReceiptArg sui.Argument
	PoolArg    *sui.Argument
}

// Dex is an operational, direction-oriented view of a Pool (spec §3).
// Implementations must be safe to Clone (path prefixes are freely
// duplicated during search) and comparable by PoolID.
type Dex interface {
	CoinInType() sui.CoinType
	CoinOutType() sui.CoinType
	Protocol() Protocol
	ObjectID() sui.ObjectID
	Liquidity() uint64

	// Flip swaps coin_in/coin_out (and any internal a2b flag) in place and
	// returns the receiver; calling it twice is idempotent (restores the
	// original direction).
	Flip() Dex

	// IsA2B reports whether the current direction matches the pool's
	// canonical token0->token1 orientation.
	IsA2B() bool

	// SupportFlashloan reports whether this Dex can frame a flash loan.
	// Defaults to false; only Aftermath overrides it in this module.
	SupportFlashloan() bool

	// EstimateAmountOut is a pure quote function over the reserve/depth
	// state captured when this view was built, used by package simulator
	// to compute trial profit without re-reading chain state per trial.
	EstimateAmountOut(amountIn uint64) uint64

	// ExtendTradeTx appends exactly one swap to ctx consuming coinIn (or a
	// split of it, per adapter contract — see DESIGN.md open question #2)
	// and returns a fresh coin argument for the output.
	ExtendTradeTx(ctx context.Context, tc *TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error)

	// ExtendFlashloanTx appends a flash-borrow call; fails with
	// ErrFlashloanNotSupported unless SupportFlashloan().
	ExtendFlashloanTx(ctx context.Context, tc *TradeCtx, amount uint64) (FlashResult, error)

	// ExtendRepayTx appends the paired repay call, consuming fr.ReceiptArg
	// exactly once; symmetric requirement to ExtendFlashloanTx.
	ExtendRepayTx(ctx context.Context, tc *TradeCtx, repayCoin sui.Argument, fr FlashResult) (sui.Argument, error)

	// Clone returns a deep-enough copy safe to flip/mutate independently of
	// the original (path prefixes are freely duplicated during search).
	Clone() Dex
}

// unsupportedFlashloan supplies the flash-loan methods of an adapter that
// never supports flash loans. None of this module's adapters embed it; each
// defines its own SupportFlashloan/ExtendFlashloanTx/ExtendRepayTx.
type unsupportedFlashloan struct{}

func (unsupportedFlashloan) SupportFlashloan() bool { return false }

func (unsupportedFlashloan) ExtendFlashloanTx(context.Context, *TradeCtx, uint64) (FlashResult, error) {
	return FlashResult{}, ErrFlashloanNotSupported
}

func (unsupportedFlashloan) ExtendRepayTx(context.Context, *TradeCtx, sui.Argument, FlashResult) (sui.Argument, error) {
	return sui.Argument{}, ErrFlashloanNotSupported
}
