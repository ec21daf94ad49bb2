package opportunity

import "github.com/pittcat/sui-arb-core/sui"

// SwapRecognizer recognizes a pool's swap event and reports its coin pair
// and pool id (spec §6 "Event adapters": "Swap event: move event type and
// JSON field shape sufficient to derive pool id, input/output coin types").
// Each DEX family's JSON event shape is Move-module-specific and
// unspecified here, so this core treats recognition as a single pluggable
// boundary rather than hardcoding per-protocol payload decoding; a
// conformant deployment supplies one implementation covering every
// registered protocol (e.g. backed by dex.Registry's known pool ids).
type SwapRecognizer interface {
	RecognizeSwap(ev SuiEvent) (coinIn, coinOut sui.CoinType, poolID sui.ObjectID, ok bool)
}

// interestingCoin implements spec §4.C6's "the interesting side is the
// non-SUI coin if present, else the input coin" rule.
func interestingCoin(coinIn, coinOut sui.CoinType) sui.CoinType {
	if !coinOut.IsSUI() {
		return coinOut
	}
	return coinIn
}
