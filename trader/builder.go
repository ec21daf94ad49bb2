// Package trader assembles programmable transactions from a Path: a plain
// swap, or a flash-loan-framed round trip with MEV bid splitting and the
// digest-ordering nudge (spec §4.C4).
//
// Grounded on the original bot's bin/arb/src/trader.rs (build_swap_tx /
// build_flashloan_trade_tx / get_trade_result) and core/liquidity_pools.go's
// "ledger mutation under a single constructor function" shape, which the
// swap-leg loop follows.
package trader

import (
	"context"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// defaultGasBudget is the protocol-default gas budget new transactions are
// finalized with (spec §4.C4 "a protocol-default gas budget").
const defaultGasBudget uint64 = 50_000_000

// MockedInputCoin records that BuildSwapTx synthesized its input coin from
// the mocked gas coin rather than using a real supplied one, so the caller
// can register it with the simulator as a borrowed amount (spec §4.C4 step
// 1, §4.C3 "Borrowed coin synthesis").
type MockedInputCoin struct {
	CoinType sui.CoinType
	Amount   uint64
}

// BuildSwapTx assembles a swap-only transaction over path (spec §4.C4
// "Swap-only assembly"). It is only ever used for a single-direction leg
// starting at SUI (the arb engine's buy-path trials), so the input coin is
// always synthesized by splitting the transaction's own (mocked) gas coin
// rather than threading in a real coin object.
func BuildSwapTx(ctx context.Context, path dex.Path, sender sui.Address, amountIn uint64, gasCoins []sui.ObjectRef, gasPrice uint64) (*sui.TransactionData, *MockedInputCoin, error) {
	if len(path) == 0 {
		return nil, nil, ErrEmptyPath
	}
	tc := dex.NewTradeCtx()

	coinArg := tc.SplitCoin(sui.GasCoinArg, tc.Pure(dex.PureU64(amountIn)))
	mocked := &MockedInputCoin{CoinType: path.CoinInType(), Amount: amountIn}

	var err error
	for i, hop := range path {
		var amtPtr *uint64
		if i == 0 {
			amtPtr = &amountIn
		}
		coinArg, err = hop.ExtendTradeTx(ctx, tc, sender, coinArg, amtPtr)
		if err != nil {
			return nil, nil, utils.Wrapf(err, "trader: extend_trade_tx hop %d (%s)", i, hop.Protocol())
		}
	}
	tc.TransferArg(coinArg, tc.Pure(dex.PureAddress(sender)))

	txData := &sui.TransactionData{
		Sender: sender,
		PT:     tc.Finish(),
		Gas:    sui.GasData{Payment: gasCoins, Owner: sender, Price: gasPrice, Budget: defaultGasBudget},
	}
	return txData, mocked, nil
}
