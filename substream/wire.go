package substream

import (
	"errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/geobrowser/kg-indexer/kgerror"
)

var (
	errUnknownFrameTag = errors.New("substream: unrecognized frame envelope tag")
	errMalformedFrame  = errors.New("substream: malformed frame envelope")
)

// encodeBlockRequest serializes a Request message: the resolved
// package URL, module name, block range and resume cursor, in the
// field layout the stream RPC expects.
func encodeBlockRequest(sub Subscription, cursor string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, sub.PackageURL)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, sub.Module)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sub.StartBlock))
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sub.EndBlock))
	if cursor != "" {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, cursor)
	}
	return b
}

// decodeFrame parses one streamed message into a Frame. The upstream
// message is one of two shapes distinguished by its outer oneof tag:
// a BlockScopedData (clock, cursor, module output bytes) or a
// BlockUndoSignal (last valid cursor). Field layout follows the
// envelope described in the stream RPC's wire contract; only the
// fields this indexer consumes are extracted, everything else is
// skipped.
func decodeFrame(raw []byte) (Frame, error) {
	num, typ, n := protowire.ConsumeTag(raw)
	if n < 0 || typ != protowire.BytesType {
		return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeFrame", errMalformedFrame)
	}
	payload, m := protowire.ConsumeBytes(raw[n:])
	if m < 0 {
		return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeFrame", errMalformedFrame)
	}

	switch num {
	case 1:
		return decodeBlockScopedData(payload)
	case 2:
		return decodeBlockUndoSignal(payload)
	default:
		return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeFrame", errUnknownFrameTag)
	}
}

func decodeBlockScopedData(raw []byte) (Frame, error) {
	f := Frame{Kind: FrameBlock}

	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockScopedData", errMalformedFrame)
		}
		raw = raw[n:]

		switch num {
		case 1: // clock
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockScopedData", errMalformedFrame)
			}
			number, ts, err := decodeClock(v)
			if err != nil {
				return Frame{}, err
			}
			f.BlockNumber = number
			f.Timestamp = ts
			raw = raw[n:]
		case 2: // cursor
			v, n := protowire.ConsumeString(raw)
			if n < 0 {
				return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockScopedData", errMalformedFrame)
			}
			f.Cursor = v
			raw = raw[n:]
		case 3: // module output value bytes
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockScopedData", errMalformedFrame)
			}
			f.Output = append([]byte(nil), v...)
			raw = raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockScopedData", errMalformedFrame)
			}
			raw = raw[n:]
		}
	}

	return f, nil
}

func decodeBlockUndoSignal(raw []byte) (Frame, error) {
	f := Frame{Kind: FrameUndo}

	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockUndoSignal", errMalformedFrame)
		}
		raw = raw[n:]

		if num == 1 {
			v, n := protowire.ConsumeString(raw)
			if n < 0 {
				return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockUndoSignal", errMalformedFrame)
			}
			f.LastValidCursor = v
			raw = raw[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, raw)
		if n < 0 {
			return Frame{}, kgerror.New(kgerror.CodeStream, "substream.decodeBlockUndoSignal", errMalformedFrame)
		}
		raw = raw[n:]
	}

	return f, nil
}

// decodeClock reads a Clock message's block number and timestamp.
func decodeClock(raw []byte) (uint64, time.Time, error) {
	var number uint64
	var seconds int64

	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return 0, time.Time{}, kgerror.New(kgerror.CodeStream, "substream.decodeClock", errMalformedFrame)
		}
		raw = raw[n:]

		switch num {
		case 2: // block number
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return 0, time.Time{}, kgerror.New(kgerror.CodeStream, "substream.decodeClock", errMalformedFrame)
			}
			number = v
			raw = raw[n:]
		case 3: // timestamp.seconds (flattened)
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return 0, time.Time{}, kgerror.New(kgerror.CodeStream, "substream.decodeClock", errMalformedFrame)
			}
			seconds = int64(v)
			raw = raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return 0, time.Time{}, kgerror.New(kgerror.CodeStream, "substream.decodeClock", errMalformedFrame)
			}
			raw = raw[n:]
		}
	}

	return number, time.Unix(seconds, 0).UTC(), nil
}
