package dex

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/sui"
)

// fakeResolver serves one fixed BCS payload for every ReadObject call,
// enough for a single adapter-construction test.
type fakeResolver struct {
	bcs []byte
	ref sui.ObjectRef
}

func (f *fakeResolver) ReadObject(context.Context, sui.ObjectID) (sui.ObjectReadResult, error) {
	return sui.ObjectReadResult{Status: sui.ObjectStatusExists, Ref: f.ref, BCS: f.bcs}, nil
}

func kriyaBCS(resA, resB uint64) []byte {
	b := make([]byte, 32)
	binary.LittleEndian.PutUint64(b[kriyaReserveAOffset:], resA)
	binary.LittleEndian.PutUint64(b[kriyaReserveBOffset:], resB)
	return b
}

// TestKriyaAmmReservesOrientToCoinIn reproduces an asymmetric-reserve pool
// (Tokens[0]'s reserve != Tokens[1]'s reserve) and checks both directional
// views quote off the correct input-side reserve. Before the fix,
// cpmmReserves.reserveA was always set from Tokens[0]'s offset regardless of
// which coin is actually the input, so the Tokens[1]->Tokens[0] view quoted
// as if reserveA (the output reserve) were the input reserve.
func TestKriyaAmmReservesOrientToCoinIn(t *testing.T) {
	usdc := sui.MustNormalizeCoinType("0x7::usdc::USDC")
	const resUSDC, resSUI = 1_000_000, 4_000_000

	pool := &Pool{
		Protocol: ProtocolKriyaAmm,
		PoolID:   mustID(t, "0xbb01"),
		Tokens:   []PoolToken{{CoinType: usdc}, {CoinType: sui.SUI}},
		Extra:    KriyaAmmExtra{PackageID: mustID(t, "0xbb02"), FeeBps: 30},
	}
	resolver := &fakeResolver{bcs: kriyaBCS(resUSDC, resSUI)}
	const amountIn = 10_000

	// a2b: coinIn == Tokens[0] (USDC), so USDC's reserve is the input side.
	a2bViews, err := NewKriyaAmmDex(context.Background(), resolver, pool, usdc, nil)
	require.NoError(t, err)
	require.Len(t, a2bViews, 1)
	wantA2B := cpmmReserves{reserveA: resUSDC, reserveB: resSUI, feeBps: 30}.amountOut(amountIn)
	assert.Equal(t, wantA2B, a2bViews[0].EstimateAmountOut(amountIn))

	// b2a: coinIn == Tokens[1] (SUI), so SUI's reserve must become the input
	// side even though it sits at Tokens[1]'s BCS offset.
	b2aViews, err := NewKriyaAmmDex(context.Background(), resolver, pool, sui.SUI, nil)
	require.NoError(t, err)
	require.Len(t, b2aViews, 1)
	wantB2A := cpmmReserves{reserveA: resSUI, reserveB: resUSDC, feeBps: 30}.amountOut(amountIn)
	assert.Equal(t, wantB2A, b2aViews[0].EstimateAmountOut(amountIn))

	// The two quotes must differ for an asymmetric pool; equal outputs would
	// mean both views are still quoting off the same (Tokens[0]) reserve.
	assert.NotEqual(t, wantA2B, wantB2A)
}
