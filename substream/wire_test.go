package substream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func encodeClockForTest(number uint64, seconds int64) []byte {
	var b []byte
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, number)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(seconds))
	return b
}

func encodeBlockScopedDataForTest(number uint64, seconds int64, cursor string, output []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeClockForTest(number, seconds))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, cursor)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, output)

	var envelope []byte
	envelope = protowire.AppendTag(envelope, 1, protowire.BytesType)
	envelope = protowire.AppendBytes(envelope, b)
	return envelope
}

func encodeBlockUndoSignalForTest(lastValidCursor string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, lastValidCursor)

	var envelope []byte
	envelope = protowire.AppendTag(envelope, 2, protowire.BytesType)
	envelope = protowire.AppendBytes(envelope, b)
	return envelope
}

func TestDecodeFrameBlockScopedData(t *testing.T) {
	raw := encodeBlockScopedDataForTest(42, 1700000000, "cursor-42", []byte(`{"editsPublished":[]}`))

	frame, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, FrameBlock, frame.Kind)
	assert.Equal(t, uint64(42), frame.BlockNumber)
	assert.Equal(t, "cursor-42", frame.Cursor)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), frame.Timestamp)
	assert.Equal(t, []byte(`{"editsPublished":[]}`), frame.Output)
}

func TestDecodeFrameBlockUndoSignal(t *testing.T) {
	raw := encodeBlockUndoSignalForTest("rewind-to-41")

	frame, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, FrameUndo, frame.Kind)
	assert.Equal(t, "rewind-to-41", frame.LastValidCursor)
}

func TestDecodeFrameUnknownOuterTagErrors(t *testing.T) {
	var envelope []byte
	envelope = protowire.AppendTag(envelope, 9, protowire.BytesType)
	envelope = protowire.AppendBytes(envelope, []byte{})

	_, err := decodeFrame(envelope)
	require.Error(t, err)
}

func TestEncodeBlockRequestProducesNonEmptyPayload(t *testing.T) {
	sub := Subscription{PackageURL: "https://example.com/geo.spkg", Module: "geo_out", StartBlock: 100, EndBlock: 200}
	encoded := encodeBlockRequest(sub, "resume-cursor")
	assert.NotEmpty(t, encoded)
}
