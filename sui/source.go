package sui

import "fmt"

// SourceKind tags the provenance of an arbitrage opportunity (spec §3
// ArbItem.source), mirroring the original bot's `Source` enum
// (bin/arb/src/types.rs).
type SourceKind uint8

const (
	SourcePublic SourceKind = iota
	SourcePrivate
	SourceShio
	SourceShioDeadlineMissed
)

// Source describes where an opportunity came from and, for MEV sources, the
// deadline/bid bookkeeping needed to decide whether and how much to bid.
// Only the fields relevant to Kind are meaningful, mirroring the Rust
// original's enum-with-payload shape.
type Source struct {
	Kind SourceKind

	OppTxDigest Digest // Shio only
	BidAmount   uint64 // Shio only
	StartMs     uint64 // Shio / ShioDeadlineMissed
	ArbFoundMs  uint64 // Shio / ShioDeadlineMissed
	DeadlineMs  uint64 // Shio / ShioDeadlineMissed
}

// PublicSource builds a Source for an opportunity derived from public chain
// transaction effects.
func PublicSource() Source { return Source{Kind: SourcePublic} }

// PrivateSource builds a Source for an opportunity derived from a private
// relay transaction.
func PrivateSource() Source { return Source{Kind: SourcePrivate} }

// NewShioSource builds a Source for a Shio MEV opportunity bound to a
// deadline, as produced by the strategy's on_shio_item ingestion (spec
// §4.C6).
func NewShioSource(oppTxDigest Digest, startMs, deadlineMs uint64) Source {
	return Source{
		Kind:        SourceShio,
		OppTxDigest: oppTxDigest,
		StartMs:     startMs,
		DeadlineMs:  deadlineMs,
	}
}

// IsShio reports whether s is an *active* Shio opportunity (not a missed one).
func (s Source) IsShio() bool { return s.Kind == SourceShio }

// HasDeadline reports whether s carries a bidding deadline.
func (s Source) HasDeadline() bool { return s.Kind == SourceShio }

// Deadline returns the bidding deadline in epoch milliseconds, and whether
// one applies.
func (s Source) Deadline() (uint64, bool) {
	if s.Kind == SourceShio {
		return s.DeadlineMs, true
	}
	return 0, false
}

// Bid returns the currently recorded bid amount (0 for non-Shio sources).
func (s Source) Bid() uint64 {
	if s.Kind == SourceShio {
		return s.BidAmount
	}
	return 0
}

// WithBidAmount returns a copy of s with BidAmount updated, a no-op for
// non-Shio sources.
func (s Source) WithBidAmount(newBid uint64) Source {
	if s.Kind != SourceShio {
		return s
	}
	s.BidAmount = newBid
	return s
}

// WithArbFoundTime records when the arbitrage computation completed. If that
// time is at or past the deadline, the source transitions to
// ShioDeadlineMissed (spec §3 ArbItem.source sink state); otherwise it stays
// an active Shio source with ArbFoundMs updated. Non-Shio sources are
// returned unmodified.
func (s Source) WithArbFoundTime(nowMs uint64) Source {
	if s.Kind != SourceShio {
		return s
	}
	if nowMs >= s.DeadlineMs {
		return Source{
			Kind:       SourceShioDeadlineMissed,
			StartMs:    s.StartMs,
			ArbFoundMs: nowMs,
			DeadlineMs: s.DeadlineMs,
		}
	}
	s.ArbFoundMs = nowMs
	return s
}

func (s Source) String() string {
	switch s.Kind {
	case SourcePublic:
		return "source: public market"
	case SourcePrivate:
		return "source: private relay"
	case SourceShio:
		return fmt.Sprintf(
			"source: shio (opp=%s start=%d deadline=%d window=%dms found=%d lead=%dms bid=%d)",
			shortDigest(s.OppTxDigest), s.StartMs, s.DeadlineMs, satSub(s.DeadlineMs, s.StartMs),
			s.ArbFoundMs, satSub(s.DeadlineMs, s.ArbFoundMs), s.BidAmount,
		)
	case SourceShioDeadlineMissed:
		return fmt.Sprintf(
			"source: shio deadline missed (start=%d deadline=%d window=%dms found=%d overdue=%dms)",
			s.StartMs, s.DeadlineMs, satSub(s.DeadlineMs, s.StartMs), s.ArbFoundMs, satSub(s.ArbFoundMs, s.DeadlineMs),
		)
	default:
		return "source: unknown"
	}
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func shortDigest(d Digest) string {
	h := d.Hex()
	if len(h) <= 10 {
		return h
	}
	return h[:10]
}
