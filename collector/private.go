package collector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/sui"
)

// PrivateTxHandler receives one decoded private-relay transaction.
// opportunity.Dispatcher.OnPrivateTx satisfies this signature.
type PrivateTxHandler func(ctx context.Context, txData *sui.TransactionData, events []opportunity.SuiEvent)

// TxDataDecoder deserializes a raw BCS TransactionData payload. Real BCS
// deserialization of TransactionData is out of scope for this core (spec
// §1 Non-goals: no Move VM); a deployment supplies its own decoder backed
// by a real Sui BCS library.
type TxDataDecoder func(bcs []byte) (*sui.TransactionData, error)

type privateTxMessage struct {
	TxBytes string                  `json:"tx_bytes"`
	Events  []opportunity.SuiEvent `json:"events,omitempty"`
}

// WSPrivateTxSource reads spec §6's reference private-tx wire format: JSON
// `{ "tx_bytes": base64(bcs(tx_data)) }` text frames over WebSocket.
type WSPrivateTxSource struct {
	url     string
	decode  TxDataDecoder
	handler PrivateTxHandler
	dialer  *websocket.Dialer
	log     *log.Logger
}

// NewWSPrivateTxSource dials url lazily on Run.
func NewWSPrivateTxSource(url string, decode TxDataDecoder, handler PrivateTxHandler, logger *log.Logger) *WSPrivateTxSource {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &WSPrivateTxSource{url: url, decode: decode, handler: handler, dialer: websocket.DefaultDialer, log: logger}
}

// Run dials the relay and processes frames until ctx is cancelled or the
// connection closes.
func (s *WSPrivateTxSource) Run(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("collector: dial private relay %q: %w", s.url, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		s.handleFrame(ctx, payload)
	}
}

func (s *WSPrivateTxSource) handleFrame(ctx context.Context, payload []byte) {
	var msg privateTxMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.log.WithError(err).Warn("collector: private tx frame decode failed")
		return
	}
	raw, err := base64.StdEncoding.DecodeString(msg.TxBytes)
	if err != nil {
		s.log.WithError(err).Warn("collector: private tx_bytes base64 decode failed")
		return
	}
	txData, err := s.decode(raw)
	if err != nil {
		s.log.WithError(err).Warn("collector: private tx_data BCS decode failed")
		return
	}
	s.handler(ctx, txData, msg.Events)
}
