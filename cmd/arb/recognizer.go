package main

import (
	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/sui"
)

// noopRecognizer is the default opportunity.SwapRecognizer: it recognizes
// nothing. Real swap-event recognition is Move-module and deployment
// specific (see DESIGN.md's note on SwapRecognizer); a production
// deployment supplies its own implementation backed by the registry's
// known pool ids and each protocol's real event type tags.
type noopRecognizer struct{}

func (noopRecognizer) RecognizeSwap(ev opportunity.SuiEvent) (sui.CoinType, sui.CoinType, sui.ObjectID, bool) {
	return "", "", sui.ObjectID{}, false
}

// unsupportedTxDataDecoder is the collector.TxDataDecoder placeholder: this
// core has no Move/BCS deserializer (spec §1 Non-goals), so a private-tx
// collector needs a caller-supplied decoder wired in its place.
func unsupportedTxDataDecoder(bcs []byte) (*sui.TransactionData, error) {
	return nil, errUnsupportedTxDataDecode
}
