// Package dex implements the uniform trading interface (spec §4.C1) over a
// handful of Sui DEX protocol families, plus the registry and path searcher
// (spec §4.C2) that sit on top of it.
//
// Grounded on core/liquidity_pools.go (x*y=k AMM with fee-bps split) and
// core/amm.go (routing graph), generalized to Sui's Move-call framing and
// the original bot's defi/*.rs protocol adapters.
package dex

import "github.com/pittcat/sui-arb-core/sui"

// Protocol tags which DEX family a Pool belongs to (spec §3).
type Protocol uint8

const (
	ProtocolCetus Protocol = iota
	ProtocolFlowxClmm
	ProtocolKriyaAmm
	ProtocolBlueMove
	ProtocolAftermath
	ProtocolDeepbookV2
	ProtocolNaviLending
)

func (p Protocol) String() string {
	switch p {
	case ProtocolCetus:
		return "Cetus"
	case ProtocolFlowxClmm:
		return "FlowxClmm"
	case ProtocolKriyaAmm:
		return "KriyaAmm"
	case ProtocolBlueMove:
		return "BlueMove"
	case ProtocolAftermath:
		return "Aftermath"
	case ProtocolDeepbookV2:
		return "DeepbookV2"
	case ProtocolNaviLending:
		return "NaviLending"
	default:
		return "Unknown"
	}
}

// PoolToken is one (coin_type, decimals) entry of a Pool's ordered token
// list (spec §3).
type PoolToken struct {
	CoinType sui.CoinType
	Decimals uint8
}

// PoolExtra is protocol-specific auxiliary pool data (fee bps, LP token
// type, tick spacing, ...), carried as a tagged variant per spec §3. Each
// protocol file defines its own concrete Extra type implementing this
// marker interface.
type PoolExtra interface {
	isPoolExtra()
}

// Pool is the canonical DEX pool record (spec §3). It is immutable after
// construction; a Dex view over it never mutates it, only its own direction
// fields.
type Pool struct {
	Protocol Protocol
	PoolID   sui.ObjectID
	Tokens   []PoolToken
	Extra    PoolExtra
}

// HasToken reports whether ct is one of the pool's tokens.
func (p *Pool) HasToken(ct sui.CoinType) bool {
	for _, t := range p.Tokens {
		if t.CoinType == ct {
			return true
		}
	}
	return false
}

// OtherTokens returns every pool token except in (spec §4.C1: "yields one
// Dex per (coin_in, coin_out) pair formed from the pool's token set
// excluding coin_in").
func (p *Pool) OtherTokens(in sui.CoinType) []sui.CoinType {
	out := make([]sui.CoinType, 0, len(p.Tokens)-1)
	for _, t := range p.Tokens {
		if t.CoinType != in {
			out = append(out, t.CoinType)
		}
	}
	return out
}
