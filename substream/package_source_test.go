package substream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePackageHTTPURL(t *testing.T) {
	got, err := ResolvePackage("https://example.com/geo.spkg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/geo.spkg", got)
}

func TestResolvePackageLocalPath(t *testing.T) {
	for _, source := range []string{"/abs/path.spkg", "./rel.spkg", "../up/rel.spkg"} {
		got, err := ResolvePackage(source)
		require.NoError(t, err)
		assert.Equal(t, source, got)
	}
}

func TestResolvePackageNameAtVersion(t *testing.T) {
	got, err := ResolvePackage("geo-substream@1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://spkg.io/v1/packages/geo-substream/1.2.3", got)
}

func TestResolvePackageNameAtVersionStripsLeadingV(t *testing.T) {
	got, err := ResolvePackage("geo-substream@v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://spkg.io/v1/packages/geo-substream/1.2.3", got)
}

func TestResolvePackageBareNameDefaultsToLatest(t *testing.T) {
	got, err := ResolvePackage("geo-substream")
	require.NoError(t, err)
	assert.Equal(t, "https://spkg.io/v1/packages/geo-substream/latest", got)
}

func TestResolvePackageRejectsInvalidName(t *testing.T) {
	_, err := ResolvePackage("9-starts-with-digit@1.0.0")
	require.Error(t, err)
}

func TestResolvePackageRejectsNonSemverVersion(t *testing.T) {
	_, err := ResolvePackage("geo-substream@not-a-version")
	require.Error(t, err)
}
