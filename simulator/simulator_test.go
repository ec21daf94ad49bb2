package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/sui"
)

type fakeSnapshot struct {
	objects map[sui.ObjectID]sui.ObjectReadResult
	reads   int
}

func (s *fakeSnapshot) ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	s.reads++
	if res, ok := s.objects[id]; ok {
		return res, nil
	}
	return sui.NotFound(id), nil
}

// passthroughHop quotes amountOut = amountIn - fixedFee, enough to exercise
// the simulator's balance-delta bookkeeping without a real reserve model.
type passthroughHop struct {
	id       sui.ObjectID
	coinIn   sui.CoinType
	coinOut  sui.CoinType
	fixedFee uint64
}

func (h *passthroughHop) CoinInType() sui.CoinType  { return h.coinIn }
func (h *passthroughHop) CoinOutType() sui.CoinType { return h.coinOut }
func (h *passthroughHop) Protocol() dex.Protocol    { return dex.ProtocolCetus }
func (h *passthroughHop) ObjectID() sui.ObjectID    { return h.id }
func (h *passthroughHop) Liquidity() uint64         { return 1 << 40 }
func (h *passthroughHop) IsA2B() bool               { return true }
func (h *passthroughHop) SupportFlashloan() bool    { return false }
func (h *passthroughHop) Flip() dex.Dex {
	h.coinIn, h.coinOut = h.coinOut, h.coinIn
	return h
}
func (h *passthroughHop) Clone() dex.Dex { cp := *h; return &cp }
func (h *passthroughHop) EstimateAmountOut(amountIn uint64) uint64 {
	if amountIn <= h.fixedFee {
		return 0
	}
	return amountIn - h.fixedFee
}
func (h *passthroughHop) ExtendTradeTx(context.Context, *dex.TradeCtx, sui.Address, sui.Argument, *uint64) (sui.Argument, error) {
	return sui.Argument{}, nil
}
func (h *passthroughHop) ExtendFlashloanTx(context.Context, *dex.TradeCtx, uint64) (dex.FlashResult, error) {
	return dex.FlashResult{}, dex.ErrFlashloanNotSupported
}
func (h *passthroughHop) ExtendRepayTx(context.Context, *dex.TradeCtx, sui.Argument, dex.FlashResult) (sui.Argument, error) {
	return sui.Argument{}, dex.ErrFlashloanNotSupported
}

func TestSimulateAppliesGasAndBorrowedCoinAdjustment(t *testing.T) {
	sender, err := sui.ParseAddress("0xaa")
	require.NoError(t, err)
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")

	snap := &fakeSnapshot{objects: map[sui.ObjectID]sui.ObjectReadResult{}}
	sim := New(snap, 16, nil)

	hopID, _ := sui.ParseAddress("0xb1")
	hop := &passthroughHop{id: hopID, coinIn: sui.SUI, coinOut: usdc, fixedFee: 1000}

	txData := &sui.TransactionData{Sender: sender, Gas: sui.GasData{Price: 1000, Budget: 10_000_000}}

	simCtx := NewSimulateCtx(1, nil)
	simCtx.UseMockGasCoin()
	simCtx.SetTrade(dex.Path{hop}, 1_000_000)
	borrowedID, _ := sui.ParseAddress("0xc1")
	simCtx.SetBorrowedCoin(BorrowedCoin{ObjectID: borrowedID, CoinType: sui.SUI, Amount: 1_000_000})

	res, err := sim.Simulate(context.Background(), txData, simCtx)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Status)

	suiDelta := res.BalanceChanges[BalanceKey{Owner: sender, CoinType: sui.SUI}]
	usdcDelta := res.BalanceChanges[BalanceKey{Owner: sender, CoinType: usdc}]

	assert.Equal(t, int64(999_000), usdcDelta) // 1_000_000 - fixedFee
	// sui delta = -gasCost (mocked gas) - amountIn (trade debit) - borrowedAmount
	assert.Less(t, suiDelta, int64(-1_000_000))
}

func TestSimulateZeroLiquidityReportsExecutionFailure(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	snap := &fakeSnapshot{objects: map[sui.ObjectID]sui.ObjectReadResult{}}
	sim := New(snap, 16, nil)

	hopID, _ := sui.ParseAddress("0xb2")
	hop := &passthroughHop{id: hopID, coinIn: sui.SUI, coinOut: sui.MustNormalizeCoinType("0x7::usdc::USDC"), fixedFee: 1_000_000_000}

	txData := &sui.TransactionData{Sender: sender, Gas: sui.GasData{Price: 1000}}
	simCtx := NewSimulateCtx(1, nil)
	simCtx.UseMockGasCoin()
	simCtx.SetTrade(dex.Path{hop}, 10)

	res, err := sim.Simulate(context.Background(), txData, simCtx)
	require.NoError(t, err)
	assert.Equal(t, StatusExecutionFailure, res.Status)
}

func TestOverrideCacheFallbackDisabledReturnsNotFound(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	missingID, _ := sui.ParseAddress("0xdeadbeef")
	snap := &fakeSnapshot{objects: map[sui.ObjectID]sui.ObjectReadResult{}}
	sim := New(snap, 16, nil)

	txData := &sui.TransactionData{
		Sender: sender,
		PT: sui.ProgrammableTransaction{
			Inputs: []sui.CallArg{{Kind: sui.CallArgObject, Object: sui.ObjectRef{ObjectID: missingID}}},
		},
		Gas: sui.GasData{Price: 1000},
	}
	simCtx := NewSimulateCtx(1, nil)
	simCtx.DisableFallback()

	res, err := sim.Simulate(context.Background(), txData, simCtx)
	require.NoError(t, err)
	assert.Equal(t, StatusGasInit, res.Status)
}
