package main

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/worker"
)

// errUnsupportedTxDataDecode is returned by unsupportedTxDataDecoder.
var errUnsupportedTxDataDecode = errors.New("cmd/arb: private tx_data BCS decoding requires a deployment-supplied decoder")

// logSubmitter logs the action it would submit instead of signing and
// broadcasting it. Keypair custody and RPC broadcast are out of scope for
// this core (spec §1 Non-goals); a production deployment supplies its own
// worker.Submitter backed by a real signer and Sui client.
type logSubmitter struct {
	log *log.Logger
}

func newLogSubmitter(logger *log.Logger) *logSubmitter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &logSubmitter{log: logger}
}

func (s *logSubmitter) Submit(ctx context.Context, action worker.Action) error {
	switch a := action.(type) {
	case worker.ExecutePublicTx:
		s.log.WithField("digest", a.TxData.Digest().Hex()).Info("arb: would submit ExecutePublicTx")
	case worker.ShioSubmitBid:
		s.log.WithFields(log.Fields{"digest": a.TxData.Digest().Hex(), "bid_amount": a.BidAmount}).Info("arb: would submit ShioSubmitBid")
	case worker.NotifyTelegram:
		s.log.Info(a.Message)
	}
	return nil
}
