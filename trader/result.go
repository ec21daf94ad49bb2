package trader

import (
	"context"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

// TradeType selects which assembly get_trade_result uses (spec §4.C4).
type TradeType uint8

const (
	TradeTypeSwap TradeType = iota
	TradeTypeFlashloan
)

// TradeResult is get_trade_result's output (spec §4.C4).
type TradeResult struct {
	AmountOut   uint64
	GasCost     uint64
	CacheMisses int
}

// GetTradeResultParams bundles get_trade_result's inputs.
type GetTradeResultParams struct {
	Path          dex.Path
	Sender        sui.Address
	AmountIn      uint64
	TradeType     TradeType
	GasCoins      []sui.ObjectRef
	GasPrice      uint64
	Source        sui.Source
	OppTxDigest   *sui.Digest
	FlashFallback dex.FlashProvider
	BidPackage    sui.ObjectID
	SimCtx        *simulator.SimulateCtx
}

// GetTradeResult builds the relevant transaction, simulates it, and reports
// the sender's net gain of path.CoinOutType() (spec §4.C4 "Per-path trial").
// A simulation that runs but reports a non-OK status returns the zero
// TradeResult and a nil error, so a worker's grid scan or GSS refinement
// can keep iterating; errors from assembling the transaction or from the
// simulator call itself are returned.
func GetTradeResult(ctx context.Context, sim *simulator.Simulator, p GetTradeResultParams) (TradeResult, error) {
	var txData *sui.TransactionData
	var mocked *MockedInputCoin
	var err error

	switch p.TradeType {
	case TradeTypeSwap:
		txData, mocked, err = BuildSwapTx(ctx, p.Path, p.Sender, p.AmountIn, p.GasCoins, p.GasPrice)
	case TradeTypeFlashloan:
		txData, err = BuildFlashloanTradeTx(ctx, FlashloanTxParams{
			Path: p.Path, Sender: p.Sender, AmountIn: p.AmountIn, GasCoins: p.GasCoins,
			GasPrice: p.GasPrice, Source: p.Source, OppTxDigest: p.OppTxDigest,
			FlashFallback: p.FlashFallback, BidPackage: p.BidPackage,
		})
	}
	if err != nil {
		return TradeResult{}, err
	}

	simCtx := p.SimCtx
	if len(p.GasCoins) == 0 {
		simCtx.UseMockGasCoin()
	}
	if mocked != nil {
		simCtx.SetBorrowedCoin(simulator.BorrowedCoin{CoinType: mocked.CoinType, Amount: mocked.Amount})
	}
	simCtx.SetTrade(p.Path, p.AmountIn)

	res, err := sim.Simulate(ctx, txData, simCtx)
	if err != nil {
		return TradeResult{}, err
	}
	if res.Status != simulator.StatusOK {
		return TradeResult{}, nil
	}

	outType := p.Path.CoinOutType()
	delta := res.BalanceChanges[simulator.BalanceKey{Owner: p.Sender, CoinType: outType}]
	gasCost := res.GasCost

	// For SUI-in/SUI-out round trips the sender's SUI delta already nets
	// out the amount borrowed and repaid; add amount_in + gas_cost back so
	// callers can uniformly compute profit = amount_out - amount_in - gas_cost
	// (spec §4.C4 "Per-path trial").
	amountOut := delta
	if outType.IsSUI() {
		amountOut += int64(p.AmountIn) + int64(gasCost)
	}
	if amountOut < 0 {
		amountOut = 0
	}

	return TradeResult{
		AmountOut:   uint64(amountOut),
		GasCost:     gasCost,
		CacheMisses: res.CacheMisses,
	}, nil
}
