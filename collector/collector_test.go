package collector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pittcat/sui-arb-core/opportunity"
)

func encodeU32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestReadPublicTxRecordDecodesLengthPrefixedFrame(t *testing.T) {
	effectsBCS := bytes.Repeat([]byte{0xab}, 32)
	events := []opportunity.SuiEvent{{Type: "0x2::pool::Swap", JSON: []byte(`{"amount":1}`)}}
	eventsJSON, err := json.Marshal(events)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write(encodeU32LE(uint32(len(effectsBCS))))
	buf.Write(effectsBCS)
	buf.Write(encodeU32LE(uint32(len(eventsJSON))))
	buf.Write(eventsJSON)

	effects, gotEvents, err := readPublicTxRecord(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, effectsBCS, effects.Digest[:])
	require.Len(t, gotEvents, 1)
	assert.Equal(t, "0x2::pool::Swap", gotEvents[0].Type)
}

func TestReadPublicTxRecordMultipleFramesOnOneStream(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		effectsBCS := bytes.Repeat([]byte{byte(i)}, 32)
		eventsJSON := []byte(`[]`)
		buf.Write(encodeU32LE(uint32(len(effectsBCS))))
		buf.Write(effectsBCS)
		buf.Write(encodeU32LE(uint32(len(eventsJSON))))
		buf.Write(eventsJSON)
	}

	r := bufio.NewReader(&buf)
	for i := 0; i < 3; i++ {
		effects, events, err := readPublicTxRecord(r)
		require.NoError(t, err)
		assert.Equal(t, byte(i), effects.Digest[0])
		assert.Empty(t, events)
	}
}

func TestDecodeShioItemParsesHexIdsAndObjects(t *testing.T) {
	msg := shioItemMessage{
		TxDigest:            "0x11",
		GasPrice:            1000,
		DeadlineTimestampMs: 123456,
		Events:              []opportunity.SuiEvent{{Type: "swap", JSON: []byte("{}")}},
		CreatedMutatedObjects: []shioObjectMessage{
			{ID: "0x2", DataType: "moveObject", ObjectType: "0x2::pool::Pool", HasPublicTransfer: true, ObjectBCS: "YWJj", Owner: "0xaa"},
		},
	}

	item, err := decodeShioItem(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), item.GasPrice)
	assert.Equal(t, uint64(123456), item.DeadlineTimestampMs)
	require.Len(t, item.CreatedMutatedObjects, 1)
	assert.Equal(t, "YWJj", item.CreatedMutatedObjects[0].ObjectBCSBase64)
	assert.True(t, item.CreatedMutatedObjects[0].HasPublicTransfer)
}

func TestDecodeShioItemRejectsMalformedID(t *testing.T) {
	msg := shioItemMessage{
		TxDigest: "0xaa",
		CreatedMutatedObjects: []shioObjectMessage{
			{ID: "not-hex", Owner: "0xaa"},
		},
	}
	_, err := decodeShioItem(msg)
	assert.Error(t, err)
}
