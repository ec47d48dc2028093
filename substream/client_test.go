package substream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestDialLocalhostUsesInsecureCredentials(t *testing.T) {
	client, err := Dial(context.Background(), "localhost:10000", "")
	require.NoError(t, err)
	defer client.Close()
}

func TestAuthContextAddsBearerTokenWhenPresent(t *testing.T) {
	client := &Client{apiToken: "secret-token"}
	ctx := client.authContext(context.Background())

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer secret-token"}, md.Get("authorization"))
}

func TestAuthContextLeavesContextUnchangedWhenTokenEmpty(t *testing.T) {
	client := &Client{}
	ctx := context.Background()
	got := client.authContext(ctx)

	_, ok := metadata.FromOutgoingContext(got)
	assert.False(t, ok)
}
