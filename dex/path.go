package dex

import "github.com/pittcat/sui-arb-core/sui"

// Path is an ordered sequence of Dex views composing a trade (spec §3). A
// zero-length path means "no trade required" — used when the target coin
// already equals the base coin (SUI).
type Path []Dex

// CoinInType is the input coin of the first hop, or the zero value for an
// empty path.
func (p Path) CoinInType() sui.CoinType {
	if len(p) == 0 {
		return ""
	}
	return p[0].CoinInType()
}

// CoinOutType is the output coin of the last hop, or the zero value for an
// empty path.
func (p Path) CoinOutType() sui.CoinType {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1].CoinOutType()
}

// HopCount is the number of swaps in the path.
func (p Path) HopCount() int { return len(p) }

// ContainsPool reports whether any hop trades through pool id.
func (p Path) ContainsPool(id sui.ObjectID) bool {
	for _, d := range p {
		if d.ObjectID() == id {
			return true
		}
	}
	return false
}

// IsDisjoint reports that p and other share no pool id (spec §3; enforced
// pairwise during path enumeration rather than via a global visited set,
// since distinct paths may revisit earlier coins).
func (p Path) IsDisjoint(other Path) bool {
	for _, d := range p {
		if other.ContainsPool(d.ObjectID()) {
			return false
		}
	}
	return true
}

// Clone deep-copies every hop so the returned Path can be flipped/mutated
// independently (path prefixes are freely duplicated during search).
func (p Path) Clone() Path {
	out := make(Path, len(p))
	for i, d := range p {
		out[i] = d.Clone()
	}
	return out
}

// Reversed returns a new Path with hop order reversed and each hop flipped,
// turning a "X -> ... -> SUI" sell path into a "SUI -> ... -> X" buy path
// (spec §4.C2 find_buy_paths).
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, d := range p {
		out[len(p)-1-i] = d.Clone().Flip()
	}
	return out
}

// Concat returns a new Path formed by appending other's hops to p's.
func (p Path) Concat(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	out = append(out, other...)
	return out
}
