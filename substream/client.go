// Package substream wraps the upstream block-producing protocol: a
// gRPC bidirectional stream keyed by package descriptor, module name,
// start/end block, and an optional resume cursor.
package substream

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/geobrowser/kg-indexer/kgerror"
)

// FrameKind discriminates the two message shapes the upstream stream
// can yield.
type FrameKind int

const (
	FrameBlock FrameKind = iota
	FrameUndo
)

// Frame is a sum type over BlockScopedData and BlockUndoSignal: the
// two message kinds the upstream stream subscription yields.
type Frame struct {
	Kind FrameKind

	// FrameBlock
	Cursor      string
	BlockNumber uint64
	Timestamp   time.Time
	Output      []byte

	// FrameUndo
	LastValidCursor string
}

// Subscription describes one stream session: the resolved package,
// module to execute, block range, and resume cursor.
type Subscription struct {
	PackageURL string
	Module     string
	StartBlock int64
	EndBlock   int64
	Cursor     string
}

// Client dials the upstream stream RPC endpoint.
type Client struct {
	endpoint string
	apiToken string
	conn     *grpc.ClientConn
}

// Dial opens a connection to endpoint. apiToken may be empty.
func Dial(ctx context.Context, endpoint, apiToken string) (*Client, error) {
	creds := credentials.NewTLS(nil)
	host := endpoint
	if h, _, err := net.SplitHostPort(endpoint); err == nil {
		host = h
	}
	if host == "localhost" || host == "127.0.0.1" {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, kgerror.New(kgerror.CodeStream, "substream.Dial", err)
	}

	return &Client{endpoint: endpoint, apiToken: apiToken, conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) authContext(ctx context.Context) context.Context {
	if c.apiToken == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.apiToken)
}
