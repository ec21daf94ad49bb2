// Package opportunity implements the opportunity cache and strategy
// dispatcher: ingress adapters turn raw chain/relay/MEV events into ArbItems,
// a TTL'd cache deduplicates by coin, and a recent-coin FIFO suppresses
// re-dispatching the same coin too often (spec §4.C6).
//
// Grounded on the original bot's bin/arb/src/{types,strategy}.rs and
// core/authority_nodes.go's "bounded in-memory registry with its own
// expiry sweep" shape, which ArbCache follows.
package opportunity

import (
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

// ArbItem is one opportunity cache entry (spec §3 "ArbItem"): the coin to
// search, an optional pool constraint, the originating tx digest (carried
// for every source kind, not just Shio — see DESIGN.md), the simulation
// context to run trials under, and the source provenance.
type ArbItem struct {
	Coin        sui.CoinType
	PoolID      *sui.ObjectID
	OppTxDigest sui.Digest
	SimCtx      *simulator.SimulateCtx
	Source      sui.Source
}

// Event is the sealed interface implemented by the three ingress event
// shapes the dispatcher accepts (spec §6 "Event sources consumed"; spec
// SUPPLEMENTED FEATURES "Action/Event boundary enums" from the original's
// types.rs).
type Event interface {
	isEvent()
}

// SuiEvent is a minimal stand-in for a Move event: its type tag and raw
// JSON payload, the subset the dispatcher's swap recognizer
// needs (spec §6 "Event adapters").
type SuiEvent struct {
	Type string
	JSON []byte
}

// TxEffects is a minimal stand-in for Sui's TransactionEffects: just the
// digest the dispatcher records as an ArbItem's OppTxDigest (spec §6
// "Public tx effects source").
type TxEffects struct {
	Digest sui.Digest
}

// PublicTxEvent wraps a public-tx-effects ingress record (spec §6 "Public
// tx effects source": "produces (tx_effects, [sui_event]) items").
type PublicTxEvent struct {
	Effects TxEffects
	Events  []SuiEvent
}

func (PublicTxEvent) isEvent() {}

// PrivateTxEvent wraps a private-relay ingress record (spec §6 "Private tx
// source": "produces tx_data items"). on_private_tx is a reserved
// interface per spec §4.C6 — a conformant implementation MAY simulate the
// tx locally to extract swap events; this core leaves that extraction to the
// caller, which supplies the events alongside the tx data, and the
// SwapRecognizer only classifies each supplied event.
type PrivateTxEvent struct {
	TxData *sui.TransactionData
	Events []SuiEvent
}

func (PrivateTxEvent) isEvent() {}

// ShioObject mirrors one `shio_object` entry (spec §6 "Shio MEV source").
type ShioObject struct {
	ID                 sui.ObjectID
	DataType           string
	ObjectType         string
	HasPublicTransfer  bool
	ObjectBCSBase64    string
	Owner              sui.Address
}

// ShioEvent wraps a Shio MEV ingress record (spec §6 "Shio MEV source":
// "produces shio_item records").
type ShioEvent struct {
	TxDigest              sui.Digest
	GasPrice              uint64
	DeadlineTimestampMs    uint64
	Events                 []SuiEvent
	CreatedMutatedObjects  []ShioObject
}

func (ShioEvent) isEvent() {}
