package substream

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/geobrowser/kg-indexer/kgerror"
)

const streamMethod = "/sf.substreams.rpc.v2.Stream/Blocks"

// reconnectDelay is how long Subscribe waits before re-opening the
// stream after a transient error. Mirrors the fixed one-second pause
// the Postgres LISTEN reconnect loop this is grounded on uses.
const reconnectDelay = time.Second

func init() {
	encoding.RegisterCodec(rawBytesCodec{})
}

// rawBytesCodec hands the wire bytes of each streamed response straight
// to the caller instead of unmarshaling through a generated message
// type, since no .proto-generated client exists for the upstream
// service in this module.
type rawBytesCodec struct{}

func (rawBytesCodec) Name() string { return "proto" }

func (rawBytesCodec) Marshal(v any) ([]byte, error) {
	if b, ok := v.(*rawMessage); ok {
		return b.data, nil
	}
	return nil, kgerror.New(kgerror.CodeStream, "substream.rawBytesCodec.Marshal", errUnknownFrameTag)
}

func (rawBytesCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*rawMessage)
	if !ok {
		return kgerror.New(kgerror.CodeStream, "substream.rawBytesCodec.Unmarshal", errUnknownFrameTag)
	}
	b.data = append([]byte(nil), data...)
	return nil
}

// rawMessage carries an undecoded protobuf payload through grpc's
// codec boundary.
type rawMessage struct{ data []byte }

// Subscribe opens the stream subscription described by sub and returns
// a channel of decoded Frame values. The returned channel is closed
// when ctx is cancelled or the stream reaches a clean end of range; a
// transport error triggers a reconnect after reconnectDelay rather
// than closing the channel, resuming from the last cursor observed.
func (c *Client) Subscribe(ctx context.Context, log *logrus.Entry, sub Subscription) (<-chan Frame, error) {
	frames := make(chan Frame)

	go func() {
		defer close(frames)

		cursor := sub.Cursor
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			next, err := c.streamOnce(ctx, sub, cursor, frames)
			cursor = next
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WithError(err).Warn("substream stream interrupted, reconnecting")
				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
					continue
				}
			}

			// Clean end of range (or cancellation): close the channel.
			return
		}
	}()

	return frames, nil
}

// streamOnce opens one stream invocation and pushes every frame it
// yields onto out, returning the last cursor observed so a reconnect
// can resume from it.
func (c *Client) streamOnce(ctx context.Context, sub Subscription, cursor string, out chan<- Frame) (string, error) {
	streamCtx := c.authContext(ctx)

	stream, err := c.conn.NewStream(streamCtx, &grpc.StreamDesc{ServerStreams: true}, streamMethod)
	if err != nil {
		return cursor, kgerror.New(kgerror.CodeStream, "substream.streamOnce", err)
	}

	req := &rawMessage{data: encodeBlockRequest(sub, cursor)}
	if err := stream.SendMsg(req); err != nil {
		return cursor, kgerror.New(kgerror.CodeStream, "substream.streamOnce", err)
	}
	if err := stream.CloseSend(); err != nil {
		return cursor, kgerror.New(kgerror.CodeStream, "substream.streamOnce", err)
	}

	for {
		resp := &rawMessage{}
		if err := stream.RecvMsg(resp); err != nil {
			if err == io.EOF {
				return cursor, nil
			}
			return cursor, kgerror.New(kgerror.CodeStream, "substream.streamOnce", err)
		}

		frame, err := decodeFrame(resp.data)
		if err != nil {
			return cursor, err
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return cursor, nil
		}

		if frame.Kind == FrameBlock && frame.Cursor != "" {
			cursor = frame.Cursor
		}
		if frame.Kind == FrameUndo && frame.LastValidCursor != "" {
			cursor = frame.LastValidCursor
		}
	}
}
