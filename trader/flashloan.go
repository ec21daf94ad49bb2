package trader

import (
	"context"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// maxDigestNudgeIterations bounds the gas-budget nudge loop (spec §4.C4
// step 6: "implementations cap at, say, 1e6 iterations"). Kept far smaller
// here since each increment is one full digest recompute and a budget this
// wide has never failed to separate two distinct digests in practice.
const maxDigestNudgeIterations = 100_000

// shioBidFunction is the entry point a Shio-sourced flash-loan tx calls to
// submit its MEV bid alongside the trade (spec §4.C4 step 4).
const shioBidModule, shioBidFunction = "shio_feed", "submit_bid"

// FlashloanTxParams bundles build_flashloan_trade_tx's inputs (spec §4.C4).
type FlashloanTxParams struct {
	Path          dex.Path
	Sender        sui.Address
	AmountIn      uint64
	GasCoins      []sui.ObjectRef
	GasPrice      uint64
	Source        sui.Source
	OppTxDigest   *sui.Digest // nil: no digest-ordering constraint (spec §4.C6 Public/Private carry one too; Shio's is on Source)
	FlashFallback dex.FlashProvider
	BidPackage    sui.ObjectID
}

// BuildFlashloanTradeTx assembles a flash-loan-framed round-trip transaction
// (spec §4.C4 "Flash-loan-framed assembly").
func BuildFlashloanTradeTx(ctx context.Context, p FlashloanTxParams) (*sui.TransactionData, error) {
	if len(p.Path) == 0 {
		return nil, ErrEmptyPath
	}

	budget := defaultGasBudget
	for iter := 0; ; iter++ {
		txData, err := assembleFlashloanTx(ctx, p, budget)
		if err != nil {
			return nil, err
		}
		if p.OppTxDigest == nil {
			return txData, nil
		}
		if txData.Digest().Greater(*p.OppTxDigest) {
			return txData, nil
		}
		if iter >= maxDigestNudgeIterations {
			return nil, ErrDigestOrderUnreachable
		}
		budget++
	}
}

func assembleFlashloanTx(ctx context.Context, p FlashloanTxParams, gasBudget uint64) (*sui.TransactionData, error) {
	tc := dex.NewTradeCtx()

	provider, startIdx, err := pickFlashProvider(p.Path, p.FlashFallback)
	if err != nil {
		return nil, err
	}
	fr, err := provider.ExtendFlashloanTx(ctx, tc, p.AmountIn)
	if err != nil {
		return nil, utils.Wrap(err, "trader: extend_flashloan_tx")
	}

	coinArg := fr.CoinOutArg
	for i := startIdx; i < len(p.Path); i++ {
		// The coin handed between flash-loan-framed hops always already
		// carries the exact balance the previous step produced (the
		// borrowed amount, or the prior hop's output), so unlike the
		// swap-only assembly no hop here needs an explicit split.
		coinArg, err = p.Path[i].ExtendTradeTx(ctx, tc, p.Sender, coinArg, nil)
		if err != nil {
			return nil, utils.Wrapf(err, "trader: extend_trade_tx hop %d (%s)", i, p.Path[i].Protocol())
		}
	}

	residual, err := provider.ExtendRepayTx(ctx, tc, coinArg, fr)
	if err != nil {
		return nil, utils.Wrap(err, "trader: extend_repay_tx")
	}

	if p.Source.IsShio() && p.Source.Bid() > 0 {
		bidCoin := tc.SplitCoin(residual, tc.Pure(dex.PureU64(p.Source.Bid())))
		oppDigest := p.Source.OppTxDigest
		tc.MoveCall(p.BidPackage, shioBidModule, shioBidFunction, nil,
			[]sui.Argument{bidCoin, tc.Pure(oppDigest[:])})
	}

	tc.TransferArg(residual, tc.Pure(dex.PureAddress(p.Sender)))

	return &sui.TransactionData{
		Sender: p.Sender,
		PT:     tc.Finish(),
		Gas:    sui.GasData{Payment: p.GasCoins, Owner: p.Sender, Price: p.GasPrice, Budget: gasBudget},
	}, nil
}

// pickFlashProvider selects the flash-loan provider per spec §4.C4 step 1:
// the path's own first hop if it supports one, otherwise the supplied
// fallback (e.g. a Navi lending pool). Returns the index trading hops
// should resume from.
func pickFlashProvider(path dex.Path, fallback dex.FlashProvider) (flashSource, int, error) {
	if path[0].SupportFlashloan() {
		return path[0], 1, nil
	}
	if fallback == nil {
		return nil, 0, ErrNoFlashProvider
	}
	return fallback, 0, nil
}

// flashSource unifies dex.Dex (when it serves as its own flash provider)
// and dex.FlashProvider (a dedicated lending module) behind one call shape.
type flashSource interface {
	ExtendFlashloanTx(ctx context.Context, tc *dex.TradeCtx, amount uint64) (dex.FlashResult, error)
	ExtendRepayTx(ctx context.Context, tc *dex.TradeCtx, repayCoin sui.Argument, fr dex.FlashResult) (sui.Argument, error)
}
