package worker

import "github.com/pittcat/sui-arb-core/sui"

// Action is the boundary action a worker emits after a successful
// opportunity search (spec §6 "Action sink"; spec SUPPLEMENTED FEATURES
// "Action/Event boundary enums" from the original's types.rs).
type Action interface {
	isAction()
}

// ExecutePublicTx submits a transaction derived from a Public/Private
// sourced opportunity (spec §4.C7 step 4).
type ExecutePublicTx struct {
	TxData *sui.TransactionData
}

func (ExecutePublicTx) isAction() {}

// ShioSubmitBid submits a transaction plus its MEV bid to the Shio relay
// (spec §4.C7 step 4).
type ShioSubmitBid struct {
	TxData      *sui.TransactionData
	BidAmount   uint64
	OppTxDigest sui.Digest
}

func (ShioSubmitBid) isAction() {}

// NotifyTelegram is a diagnostic-only action (spec §6 "NotifyTelegram(message)").
type NotifyTelegram struct {
	Message string
}

func (NotifyTelegram) isAction() {}
