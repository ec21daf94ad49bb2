package opportunity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/sui"
)

func mustCoin(s string) sui.CoinType { return sui.MustNormalizeCoinType(s) }

func TestArbCacheInsertReplacesSameCoin(t *testing.T) {
	c := NewArbCache(DefaultTTLMs)
	usdc := mustCoin("0x7::usdc::USDC")
	poolA := sui.ObjectID{0x01}
	poolB := sui.ObjectID{0x02}

	c.Insert(usdc, &poolA, sui.Digest{}, nil, sui.PublicSource())
	c.Insert(usdc, &poolB, sui.Digest{}, nil, sui.PublicSource())
	assert.Equal(t, 1, c.Len())

	item, ok := c.PopOne()
	require.True(t, ok)
	assert.Equal(t, poolB, *item.PoolID)
}

func TestArbCachePopOneReturnsMostRecentFirst(t *testing.T) {
	c := NewArbCache(DefaultTTLMs)
	a := mustCoin("0x7::a::A")
	b := mustCoin("0x7::b::B")

	c.Insert(a, nil, sui.Digest{}, nil, sui.PublicSource())
	c.Insert(b, nil, sui.Digest{}, nil, sui.PublicSource())

	item, ok := c.PopOne()
	require.True(t, ok)
	assert.Equal(t, b, item.Coin)

	item, ok = c.PopOne()
	require.True(t, ok)
	assert.Equal(t, a, item.Coin)

	_, ok = c.PopOne()
	assert.False(t, ok)
}

func TestArbCachePopOneSkipsExpiredEntries(t *testing.T) {
	c := NewArbCache(1)
	usdc := mustCoin("0x7::usdc::USDC")
	c.entries[usdc] = &CacheEntry{Item: ArbItem{Coin: usdc}, InsertedAt: nowMillis() - 1000}
	c.order = append(c.order, usdc)

	_, ok := c.PopOne()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

type fakeRecognizer struct {
	coinIn, coinOut sui.CoinType
	poolID          sui.ObjectID
	ok              bool
}

func (r fakeRecognizer) RecognizeSwap(ev SuiEvent) (sui.CoinType, sui.CoinType, sui.ObjectID, bool) {
	return r.coinIn, r.coinOut, r.poolID, r.ok
}

func TestDispatcherOnPublicTxEffectsInsertsAndFansOut(t *testing.T) {
	usdc := mustCoin("0x7::usdc::USDC")
	poolID, _ := sui.ParseAddress("0xaa")
	rec := fakeRecognizer{coinIn: sui.SUI, coinOut: usdc, poolID: poolID, ok: true}

	out := make(chan ArbItem, 10)
	d := NewDispatcher(rec, out, DefaultDispatcherConfig(nil), nil)

	d.OnPublicTxEffects(context.Background(), TxEffects{Digest: sui.Digest{0x1}}, []SuiEvent{{Type: "swap"}})

	require.Len(t, out, 1)
	item := <-out
	assert.Equal(t, usdc, item.Coin)
	assert.Equal(t, sui.SourcePublic, item.Source.Kind)
}

func TestDispatcherRecentCoinSkipSuppressesNonShioRepeat(t *testing.T) {
	usdc := mustCoin("0x7::usdc::USDC")
	poolID, _ := sui.ParseAddress("0xbb")
	rec := fakeRecognizer{coinIn: sui.SUI, coinOut: usdc, poolID: poolID, ok: true}

	out := make(chan ArbItem, 10)
	d := NewDispatcher(rec, out, DefaultDispatcherConfig(nil), nil)

	d.OnPublicTxEffects(context.Background(), TxEffects{Digest: sui.Digest{0x1}}, []SuiEvent{{Type: "swap"}})
	require.Len(t, out, 1)
	<-out // drain so we can tell whether the second insert reaches the channel

	d.OnPublicTxEffects(context.Background(), TxEffects{Digest: sui.Digest{0x2}}, []SuiEvent{{Type: "swap"}})
	assert.Len(t, out, 0) // suppressed: usdc was dispatched moments ago and source isn't Shio
}

func TestDispatcherShioSourceBypassesRecentCoinSkip(t *testing.T) {
	usdc := mustCoin("0x7::usdc::USDC")
	poolID, _ := sui.ParseAddress("0xcc")
	rec := fakeRecognizer{coinIn: sui.SUI, coinOut: usdc, poolID: poolID, ok: true}

	out := make(chan ArbItem, 10)
	d := NewDispatcher(rec, out, DefaultDispatcherConfig(nil), nil)

	d.OnPublicTxEffects(context.Background(), TxEffects{Digest: sui.Digest{0x1}}, []SuiEvent{{Type: "swap"}})
	<-out

	d.OnShioItem(context.Background(), ShioEvent{
		TxDigest: sui.Digest{0x2}, DeadlineTimestampMs: uint64(nowMillis()) + 5000,
		Events: []SuiEvent{{Type: "swap"}},
	})
	require.Len(t, out, 1)
	item := <-out
	assert.Equal(t, sui.SourceShio, item.Source.Kind)
}
