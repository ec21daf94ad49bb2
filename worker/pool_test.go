package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/arb"
	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

type fakeSnapshot struct{}

func (fakeSnapshot) ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	return sui.NotFound(id), nil
}

type fakeResolver struct{}

func (fakeResolver) ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	return sui.NotFound(id), nil
}

// rateHop is a minimal dex.Dex whose EstimateAmountOut applies a flat
// amountIn*rateBps/10_000 rate (mirrors the arb package's test double).
type rateHop struct {
	id        sui.ObjectID
	coinIn    sui.CoinType
	coinOut   sui.CoinType
	rateBps   uint64
	flashable bool
}

func (d *rateHop) CoinInType() sui.CoinType  { return d.coinIn }
func (d *rateHop) CoinOutType() sui.CoinType { return d.coinOut }
func (d *rateHop) Protocol() dex.Protocol    { return dex.ProtocolAftermath }
func (d *rateHop) ObjectID() sui.ObjectID    { return d.id }
func (d *rateHop) Liquidity() uint64         { return 1 << 40 }
func (d *rateHop) IsA2B() bool               { return true }
func (d *rateHop) SupportFlashloan() bool    { return d.flashable }
func (d *rateHop) Flip() dex.Dex {
	d.coinIn, d.coinOut = d.coinOut, d.coinIn
	return d
}
func (d *rateHop) Clone() dex.Dex { cp := *d; return &cp }
func (d *rateHop) EstimateAmountOut(amountIn uint64) uint64 {
	return amountIn * d.rateBps / 10_000
}
func (d *rateHop) ExtendTradeTx(ctx context.Context, tc *dex.TradeCtx, sender sui.Address, coinIn sui.Argument, amountIn *uint64) (sui.Argument, error) {
	return tc.SplitCoin(coinIn, tc.Pure(dex.PureU64(1))), nil
}
func (d *rateHop) ExtendFlashloanTx(ctx context.Context, tc *dex.TradeCtx, amount uint64) (dex.FlashResult, error) {
	if !d.flashable {
		return dex.FlashResult{}, dex.ErrFlashloanNotSupported
	}
	return dex.FlashResult{CoinOutArg: tc.Pure(dex.PureU64(amount)), ReceiptArg: tc.Pure(dex.PureU64(0))}, nil
}
func (d *rateHop) ExtendRepayTx(ctx context.Context, tc *dex.TradeCtx, repayCoin sui.Argument, fr dex.FlashResult) (sui.Argument, error) {
	return repayCoin, nil
}

func mustID(t *testing.T, s string) sui.ObjectID {
	t.Helper()
	id, err := sui.ParseAddress(s)
	require.NoError(t, err)
	return id
}

// recordingSubmitter captures submitted Actions for assertion.
type recordingSubmitter struct {
	mu      sync.Mutex
	actions []Action
}

func (s *recordingSubmitter) Submit(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *recordingSubmitter) all() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Action(nil), s.actions...)
}

// recordingNotifier captures notified messages for assertion.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func buildTestRegistry(t *testing.T, coin sui.CoinType, rateA, rateB uint64) *dex.Registry {
	t.Helper()
	registry := dex.NewRegistry(dex.DefaultConfig(), nil)
	poolA := &rateHop{id: mustID(t, "0xf1"), coinIn: coin, coinOut: sui.SUI, rateBps: rateA, flashable: true}
	poolB := &rateHop{id: mustID(t, "0xf2"), coinIn: coin, coinOut: sui.SUI, rateBps: rateB}
	registry.RegisterAdapter(dex.ProtocolAftermath, func(ctx context.Context, resolver dex.ObjectResolver, pool *dex.Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]dex.Dex, error) {
		if coinIn == sui.SUI {
			return nil, nil
		}
		return []dex.Dex{poolA, poolB}, nil
	})
	pool := &dex.Pool{Protocol: dex.ProtocolAftermath, PoolID: mustID(t, "0xf3"), Tokens: []dex.PoolToken{{CoinType: sui.SUI}, {CoinType: coin}}}
	require.NoError(t, registry.AddPool(context.Background(), fakeResolver{}, pool))
	return registry
}

func TestProcessItemSkipsPastDeadlineBeforeSearch(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	sender, _ := sui.ParseAddress("0xaa")
	registry := buildTestRegistry(t, usdc, 10_100, 10_000)
	sim := simulator.New(fakeSnapshot{}, 16, nil)

	submitter := &recordingSubmitter{}
	notifier := &recordingNotifier{}
	p := NewPool(1, registry, fakeSnapshot{}, 16, arb.DefaultEngineConfig(), Config{Sender: sender, GasPrice: 1000}, submitter, notifier, nil)

	past := uint64(time.Now().Add(-time.Hour).UnixMilli())
	item := opportunity.ArbItem{
		Coin:   usdc,
		SimCtx: simulator.NewSimulateCtx(1, nil),
		Source: sui.NewShioSource(sui.Digest{0x1}, past-1000, past),
	}

	p.processItem(context.Background(), p.units[0], item)

	assert.Empty(t, submitter.all())
	require.Len(t, notifier.all(), 1)
	assert.Contains(t, notifier.all()[0], "skipped")

	_ = sim // sim is not used by processItem; the Pool builds its own simulators.
}

func TestProcessItemSubmitsExecutePublicTxForPublicSource(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	sender, _ := sui.ParseAddress("0xaa")
	registry := buildTestRegistry(t, usdc, 10_100, 10_000)

	submitter := &recordingSubmitter{}
	notifier := &recordingNotifier{}
	p := NewPool(1, registry, fakeSnapshot{}, 16, arb.DefaultEngineConfig(), Config{Sender: sender, GasPrice: 1000}, submitter, notifier, nil)

	item := opportunity.ArbItem{
		Coin:   usdc,
		SimCtx: simulator.NewSimulateCtx(1, nil),
		Source: sui.PublicSource(),
	}

	p.processItem(context.Background(), p.units[0], item)

	require.Len(t, submitter.all(), 1)
	action, ok := submitter.all()[0].(ExecutePublicTx)
	require.True(t, ok)
	assert.NotNil(t, action.TxData)
	assert.Empty(t, notifier.all())
}

func TestProcessItemSubmitsShioSubmitBidForShioSource(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	sender, _ := sui.ParseAddress("0xaa")
	registry := buildTestRegistry(t, usdc, 10_100, 10_000)

	submitter := &recordingSubmitter{}
	notifier := &recordingNotifier{}
	p := NewPool(1, registry, fakeSnapshot{}, 16, arb.DefaultEngineConfig(), Config{Sender: sender, GasPrice: 1000}, submitter, notifier, nil)

	future := uint64(time.Now().Add(time.Hour).UnixMilli())
	item := opportunity.ArbItem{
		Coin:   usdc,
		SimCtx: simulator.NewSimulateCtx(1, nil),
		Source: sui.NewShioSource(sui.Digest{0x2}, future-2000, future),
	}

	p.processItem(context.Background(), p.units[0], item)

	require.Len(t, submitter.all(), 1)
	action, ok := submitter.all()[0].(ShioSubmitBid)
	require.True(t, ok)
	assert.NotNil(t, action.TxData)
	assert.Equal(t, sui.Digest{0x2}, action.OppTxDigest)
	assert.Greater(t, action.BidAmount, uint64(0))
}

func TestProcessItemNotifiesWhenNoOpportunityFound(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	sender, _ := sui.ParseAddress("0xaa")
	// Both legs neutral with no bonus: grid scan can never clear the gas cost.
	registry := buildTestRegistry(t, usdc, 10_000, 10_000)

	submitter := &recordingSubmitter{}
	notifier := &recordingNotifier{}
	p := NewPool(1, registry, fakeSnapshot{}, 16, arb.DefaultEngineConfig(), Config{Sender: sender, GasPrice: 1000}, submitter, notifier, nil)

	item := opportunity.ArbItem{
		Coin:   usdc,
		SimCtx: simulator.NewSimulateCtx(1, nil),
		Source: sui.PublicSource(),
	}

	p.processItem(context.Background(), p.units[0], item)

	assert.Empty(t, submitter.all())
	require.Len(t, notifier.all(), 1)
	assert.Contains(t, notifier.all()[0], "no opportunity")
}

func TestPoolRunDrainsChannelAcrossWorkers(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	sender, _ := sui.ParseAddress("0xaa")
	registry := buildTestRegistry(t, usdc, 10_100, 10_000)

	submitter := &recordingSubmitter{}
	notifier := &recordingNotifier{}
	p := NewPool(2, registry, fakeSnapshot{}, 16, arb.DefaultEngineConfig(), Config{Sender: sender, GasPrice: 1000}, submitter, notifier, nil)

	items := make(chan opportunity.ArbItem, 4)
	for i := 0; i < 4; i++ {
		items <- opportunity.ArbItem{Coin: usdc, SimCtx: simulator.NewSimulateCtx(1, nil), Source: sui.PublicSource()}
	}
	close(items)

	p.Run(context.Background(), items)

	assert.Len(t, submitter.all(), 4)
}
