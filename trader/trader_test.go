package trader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

type fakeSnapshot struct{}

func (fakeSnapshot) ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	return sui.NotFound(id), nil
}

type stubDex struct {
	id        sui.ObjectID
	coinIn    sui.CoinType
	coinOut   sui.CoinType
	flashable bool
	fee       uint64
}

func (d *stubDex) CoinInType() sui.CoinType  { return d.coinIn }
func (d *stubDex) CoinOutType() sui.CoinType { return d.coinOut }
func (d *stubDex) Protocol() dex.Protocol    { return dex.ProtocolAftermath }
func (d *stubDex) ObjectID() sui.ObjectID    { return d.id }
func (d *stubDex) Liquidity() uint64         { return 1 << 40 }
func (d *stubDex) IsA2B() bool               { return true }
func (d *stubDex) SupportFlashloan() bool    { return d.flashable }
func (d *stubDex) Flip() dex.Dex {
	d.coinIn, d.coinOut = d.coinOut, d.coinIn
	return d
}
func (d *stubDex) Clone() dex.Dex { cp := *d; return &cp }
func (d *stubDex) EstimateAmountOut(amountIn uint64) uint64 {
	if amountIn <= d.fee {
		return 0
	}
	return amountIn - d.fee
}
func (d *stubDex) ExtendTradeTx(ctx context.Context, tc *dex.TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	return tc.SplitCoin(coinIn, tc.Pure(dex.PureU64(1))), nil
}
func (d *stubDex) ExtendFlashloanTx(ctx context.Context, tc *dex.TradeCtx, amount uint64) (dex.FlashResult, error) {
	if !d.flashable {
		return dex.FlashResult{}, dex.ErrFlashloanNotSupported
	}
	poolArg := tc.Obj(sui.ObjectRef{ObjectID: d.id}, true)
	cmdIdx := tc.MoveCallMulti(sui.ObjectID{}, "flash_loan", "borrow", nil, []sui.Argument{poolArg})
	return dex.FlashResult{CoinOutArg: dex.NestedResult(cmdIdx, 0), ReceiptArg: dex.NestedResult(cmdIdx, 1), PoolArg: &poolArg}, nil
}
func (d *stubDex) ExtendRepayTx(ctx context.Context, tc *dex.TradeCtx, repayCoin sui.Argument, fr dex.FlashResult) (sui.Argument, error) {
	return tc.MoveCall(sui.ObjectID{}, "flash_loan", "repay", nil, []sui.Argument{repayCoin, fr.ReceiptArg}), nil
}

func TestBuildSwapTxSynthesizesMockedInput(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	hopID, _ := sui.ParseAddress("0xb1")
	hop := &stubDex{id: hopID, coinIn: sui.SUI, coinOut: usdc}

	txData, mocked, err := BuildSwapTx(context.Background(), dex.Path{hop}, sender, 1_000_000, nil, 1000)
	require.NoError(t, err)
	require.NotNil(t, mocked)
	assert.Equal(t, uint64(1_000_000), mocked.Amount)
	assert.Equal(t, sui.SUI, mocked.CoinType)
	assert.NotEmpty(t, txData.PT.Commands)
}

func TestBuildFlashloanTradeTxUsesPathsOwnFlashloan(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	hopID, _ := sui.ParseAddress("0xb2")
	hop := &stubDex{id: hopID, coinIn: sui.SUI, coinOut: usdc, flashable: true}

	txData, err := BuildFlashloanTradeTx(context.Background(), FlashloanTxParams{
		Path: dex.Path{hop}, Sender: sender, AmountIn: 1_000_000, GasPrice: 1000, Source: sui.PublicSource(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, txData.PT.Commands)
}

func TestBuildFlashloanTradeTxRequiresFallbackWithoutSelfFlash(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	hopID, _ := sui.ParseAddress("0xb3")
	hop := &stubDex{id: hopID, coinIn: sui.SUI, coinOut: usdc, flashable: false}

	_, err := BuildFlashloanTradeTx(context.Background(), FlashloanTxParams{
		Path: dex.Path{hop}, Sender: sender, AmountIn: 1_000_000, GasPrice: 1000, Source: sui.PublicSource(),
	})
	assert.ErrorIs(t, err, ErrNoFlashProvider)
}

func TestBuildFlashloanTradeTxNudgesGasBudgetOnDigestTie(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	hopID, _ := sui.ParseAddress("0xb5")
	hop := &stubDex{id: hopID, coinIn: sui.SUI, coinOut: usdc, flashable: true}

	params := FlashloanTxParams{
		Path: dex.Path{hop}, Sender: sender, AmountIn: 1_000_000, GasPrice: 1000, Source: sui.PublicSource(),
	}

	// Force at least one nudge iteration by pinning OppTxDigest to exactly
	// the digest the very first assembly attempt (at the default budget)
	// would produce: Greater is strict, so a tie never satisfies the exit
	// condition and the loop must bump the gas budget before returning.
	firstAttempt, err := assembleFlashloanTx(context.Background(), params, defaultGasBudget)
	require.NoError(t, err)
	tie := firstAttempt.Digest()
	params.OppTxDigest = &tie

	txData, err := BuildFlashloanTradeTx(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, txData.Digest().Greater(tie))
	assert.Greater(t, txData.Gas.Budget, defaultGasBudget)
}

func TestGetTradeResultSwapReportsAmountOut(t *testing.T) {
	sender, _ := sui.ParseAddress("0xaa")
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	hopID, _ := sui.ParseAddress("0xb4")
	hop := &stubDex{id: hopID, coinIn: sui.SUI, coinOut: usdc, fee: 1000}

	sim := simulator.New(fakeSnapshot{}, 16, nil)
	simCtx := simulator.NewSimulateCtx(1, nil)

	res, err := GetTradeResult(context.Background(), sim, GetTradeResultParams{
		Path: dex.Path{hop}, Sender: sender, AmountIn: 1_000_000, TradeType: TradeTypeSwap,
		GasPrice: 1000, Source: sui.PublicSource(), SimCtx: simCtx,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(999_000), res.AmountOut)
}
