package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/sui"
)

// ShioItemHandler receives one decoded Shio MEV item.
// opportunity.Dispatcher.OnShioItem satisfies this signature.
type ShioItemHandler func(ctx context.Context, item opportunity.ShioEvent)

type shioObjectMessage struct {
	ID                string `json:"id"`
	DataType          string `json:"data_type"`
	ObjectType        string `json:"object_type"`
	HasPublicTransfer bool   `json:"has_public_transfer"`
	ObjectBCS         string `json:"object_bcs"`
	Owner             string `json:"owner"`
}

type shioItemMessage struct {
	TxDigest              string              `json:"tx_digest"`
	GasPrice              uint64              `json:"gas_price"`
	DeadlineTimestampMs   uint64              `json:"deadline_timestamp_ms"`
	Events                []opportunity.SuiEvent `json:"events"`
	CreatedMutatedObjects []shioObjectMessage `json:"created_mutated_objects"`
}

// WSShioSource reads spec §6's reference Shio MEV wire format: JSON
// `shio_item` records over WebSocket text frames, one item per frame.
type WSShioSource struct {
	url     string
	handler ShioItemHandler
	dialer  *websocket.Dialer
	log     *log.Logger
}

// NewWSShioSource dials url lazily on Run.
func NewWSShioSource(url string, handler ShioItemHandler, logger *log.Logger) *WSShioSource {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &WSShioSource{url: url, handler: handler, dialer: websocket.DefaultDialer, log: logger}
}

// Run dials the relay and processes frames until ctx is cancelled or the
// connection closes.
func (s *WSShioSource) Run(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("collector: dial shio relay %q: %w", s.url, err)
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

func (s *WSShioSource) handleFrame(ctx context.Context, payload []byte) {
	var msg shioItemMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.log.WithError(err).Warn("collector: shio item frame decode failed")
		return
	}
	item, err := decodeShioItem(msg)
	if err != nil {
		s.log.WithError(err).Warn("collector: shio item field decode failed")
		return
	}
	s.handler(ctx, item)
}

func decodeShioItem(msg shioItemMessage) (opportunity.ShioEvent, error) {
	digest, err := parseDigest(msg.TxDigest)
	if err != nil {
		return opportunity.ShioEvent{}, fmt.Errorf("collector: tx_digest: %w", err)
	}

	objects := make([]opportunity.ShioObject, 0, len(msg.CreatedMutatedObjects))
	for _, o := range msg.CreatedMutatedObjects {
		id, err := sui.ParseAddress(o.ID)
		if err != nil {
			return opportunity.ShioEvent{}, fmt.Errorf("collector: shio_object.id: %w", err)
		}
		owner, err := sui.ParseAddress(o.Owner)
		if err != nil {
			return opportunity.ShioEvent{}, fmt.Errorf("collector: shio_object.owner: %w", err)
		}
		objects = append(objects, opportunity.ShioObject{
			ID:                id,
			DataType:          o.DataType,
			ObjectType:        o.ObjectType,
			HasPublicTransfer: o.HasPublicTransfer,
			ObjectBCSBase64:   o.ObjectBCS,
			Owner:             owner,
		})
	}

	return opportunity.ShioEvent{
		TxDigest:              digest,
		GasPrice:              msg.GasPrice,
		DeadlineTimestampMs:   msg.DeadlineTimestampMs,
		Events:                msg.Events,
		CreatedMutatedObjects: objects,
	}, nil
}

// parseDigest parses a hex-encoded 32-byte digest, reusing sui.ParseAddress's
// hex-width rules (Digest and Address share the same [32]byte shape).
func parseDigest(s string) (sui.Digest, error) {
	addr, err := sui.ParseAddress(s)
	if err != nil {
		return sui.Digest{}, err
	}
	return sui.Digest(addr), nil
}
