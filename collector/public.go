// Package collector provides reference implementations of the three
// ingress transports spec §6 describes only at their boundary ("transport
// is unspecified... a reference implementation..."): a length-prefixed
// local socket for public tx effects, a WebSocket JSON feed for private
// relay transactions, and a WebSocket JSON feed for Shio MEV items.
//
// Grounded on net.Listener/bufio framing as used elsewhere in the pack and,
// for the two WebSocket sources, github.com/gorilla/websocket as used
// throughout the pack's chain-client repos.
package collector

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/sui"
)

// PublicTxEffectsHandler receives one decoded public-tx-effects record.
// opportunity.Dispatcher.OnPublicTxEffects satisfies this signature.
type PublicTxEffectsHandler func(ctx context.Context, effects opportunity.TxEffects, events []opportunity.SuiEvent)

// SocketPublicTxSource reads the reference wire format spec §6 describes
// for the public tx effects source: each record is
// `u32_le length_effects · bcs(tx_effects) · u32_le length_events · json([sui_event])`
// over a local (unix domain) socket.
type SocketPublicTxSource struct {
	listener net.Listener
	handler  PublicTxEffectsHandler
	log      *log.Logger
}

// NewSocketPublicTxSource listens on the unix socket at path.
func NewSocketPublicTxSource(path string, handler PublicTxEffectsHandler, logger *log.Logger) (*SocketPublicTxSource, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("collector: listen on %q: %w", path, err)
	}
	return &SocketPublicTxSource{listener: l, handler: handler, log: logger}, nil
}

// Close stops accepting new connections.
func (s *SocketPublicTxSource) Close() error { return s.listener.Close() }

// Run accepts connections until ctx is cancelled or the listener closes,
// handling each on its own goroutine.
func (s *SocketPublicTxSource) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *SocketPublicTxSource) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		effects, events, err := readPublicTxRecord(r)
		if err != nil {
			if err != io.EOF {
				s.log.WithError(err).Warn("collector: public tx socket record decode failed")
			}
			return
		}
		s.handler(ctx, effects, events)
	}
}

func readPublicTxRecord(r *bufio.Reader) (opportunity.TxEffects, []opportunity.SuiEvent, error) {
	effectsLen, err := readU32LE(r)
	if err != nil {
		return opportunity.TxEffects{}, nil, err
	}
	effectsBCS := make([]byte, effectsLen)
	if _, err := io.ReadFull(r, effectsBCS); err != nil {
		return opportunity.TxEffects{}, nil, fmt.Errorf("collector: read tx_effects body: %w", err)
	}

	eventsLen, err := readU32LE(r)
	if err != nil {
		return opportunity.TxEffects{}, nil, fmt.Errorf("collector: read events length: %w", err)
	}
	eventsJSON := make([]byte, eventsLen)
	if _, err := io.ReadFull(r, eventsJSON); err != nil {
		return opportunity.TxEffects{}, nil, fmt.Errorf("collector: read events body: %w", err)
	}

	var events []opportunity.SuiEvent
	if err := json.Unmarshal(eventsJSON, &events); err != nil {
		return opportunity.TxEffects{}, nil, fmt.Errorf("collector: decode events json: %w", err)
	}

	return decodeTxEffects(effectsBCS), events, nil
}

func readU32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// decodeTxEffects extracts the digest from a raw tx_effects BCS blob.
// Full TransactionEffects deserialization is out of scope (spec §1
// Non-goals: no Move VM/bytecode interpretation in this core); the
// dispatcher only ever needs the leading 32-byte digest, which real Sui
// TransactionEffects BCS encodes first.
func decodeTxEffects(bcs []byte) opportunity.TxEffects {
	var d sui.Digest
	copy(d[:], bcs)
	return opportunity.TxEffects{Digest: d}
}
