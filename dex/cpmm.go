package dex

import "encoding/binary"

// cpmmReserves computes a constant-product swap output, grounded on
// core/liquidity_pools.go's AMM.Swap: fee taken off the input before the
// x*y=k update, amountOut = resOut - resIn*resOut/(resIn+amountInMinusFee).
type cpmmReserves struct {
	reserveA uint64
	reserveB uint64
	feeBps   uint16
}

// amountOut quotes a swap of amountIn of coinA for coinB. reserveA always
// tracks whichever coin is currently the input side: Flip() swaps
// reserveA/reserveB in lockstep with coinA/coinB, so callers never need to
// specify a direction here.
func (r cpmmReserves) amountOut(amountIn uint64) uint64 {
	resIn, resOut := r.reserveA, r.reserveB
	if resIn == 0 || resOut == 0 || amountIn == 0 {
		return 0
	}
	fee := amountIn * uint64(r.feeBps) / 10_000
	amountInMinusFee := amountIn - fee
	k := resIn * resOut
	newResIn := resIn + amountInMinusFee
	if newResIn == 0 {
		return 0
	}
	newResOut := k / newResIn
	if newResOut >= resOut {
		return 0
	}
	return resOut - newResOut
}

// liquidity is a rough cross-pool-comparable figure-of-merit: the smaller
// side of the pool's reserves, in raw base units. It is not meant to equal
// any protocol's own TVL accounting, only to rank candidates during path
// search pruning (spec §4.C2).
func (r cpmmReserves) liquidity() uint64 {
	if r.reserveA < r.reserveB {
		return r.reserveA
	}
	return r.reserveB
}

// decodeU64LE reads one little-endian u64 field at a fixed offset out of a
// pool object's Move BCS bytes. Real Sui pool structs also carry LP-supply,
// admin-cap, and versioning fields the core never needs; each protocol
// adapter defines its own offsets for its own struct layout, not a shared
// one, since field order differs per package. For a short or malformed
// payload it returns (0, false), which the adapters report as
// ErrPoolUnavailable rather than panicking on untrusted chain data.
func decodeU64LE(b []byte, offset int) (uint64, bool) {
	if offset < 0 || offset+8 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[offset : offset+8]), true
}
