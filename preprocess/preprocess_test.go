package preprocess

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/kg-indexer/cache"
	"github.com/geobrowser/kg-indexer/config"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
)

type fakeGetter struct {
	byURI map[string]cache.Result
}

func (f *fakeGetter) Get(_ context.Context, uri string, _ config.RetryConfig) (cache.Result, error) {
	if r, ok := f.byURI[uri]; ok {
		return r, nil
	}
	return cache.Result{IsErrored: true}, nil
}

func TestRunResolvesEditsAndDropsBlocklisted(t *testing.T) {
	getter := &fakeGetter{byURI: map[string]cache.Result{
		"ipfs://a": {Edit: &model.Edit{ID: "edit-a", Name: "A"}},
	}}

	raw := []byte(`{
		"editsPublished": [
			{"daoAddress":"0xaaaa000000000000000000000000000000000a","contentUri":"ipfs://a"},
			{"daoAddress":"0x22238cd64d914583f06223adfe9cddf9b45d1971","contentUri":"ipfs://blocked"}
		]
	}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{BlockNumber: 1}, "mainnet", getter, config.DefaultRetryConfig(), nil)
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	assert.Equal(t, "edit-a", result.Edits[0].Edit.ID)
}

func TestRunIncrementsEditsBlocklistedMetric(t *testing.T) {
	getter := &fakeGetter{byURI: map[string]cache.Result{
		"ipfs://a": {Edit: &model.Edit{ID: "edit-a", Name: "A"}},
	}}
	reg := metrics.New()

	raw := []byte(`{
		"editsPublished": [
			{"daoAddress":"0xaaaa000000000000000000000000000000000a","contentUri":"ipfs://a"},
			{"daoAddress":"0x22238cd64d914583f06223adfe9cddf9b45d1971","contentUri":"ipfs://blocked"}
		]
	}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{BlockNumber: 1}, "mainnet", getter, config.DefaultRetryConfig(), reg)
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.EditsBlocklisted))
}

func TestRunMarksUnresolvedEditAsErrored(t *testing.T) {
	getter := &fakeGetter{}

	raw := []byte(`{"editsPublished":[{"daoAddress":"0xaaaa000000000000000000000000000000000a","contentUri":"ipfs://missing"}]}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{}, "mainnet", getter, config.DefaultRetryConfig(), nil)
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	assert.True(t, result.Edits[0].IsErrored)
	assert.Nil(t, result.Edits[0].Edit)
}

func TestRunDecodeErrorIsFatal(t *testing.T) {
	_, err := Run(context.Background(), []byte(`not json`), model.BlockMetadata{}, "mainnet", &fakeGetter{}, config.DefaultRetryConfig(), nil)
	require.Error(t, err)
}

func TestMatchSpacesGovernanceWinsOnTie(t *testing.T) {
	raw := []byte(`{
		"spacesCreated": [{"daoAddress":"0xdao","spaceAddress":"0xspace"}],
		"governancePluginsCreated": [{"daoAddress":"0xdao","mainVotingAddress":"0xmv","memberAccessAddress":"0xma"}],
		"personalPluginsCreated": [{"daoAddress":"0xdao","personalAdminAddress":"0xpa"}]
	}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{}, "mainnet", &fakeGetter{}, config.DefaultRetryConfig(), nil)
	require.NoError(t, err)
	require.Len(t, result.Spaces, 1)
	assert.Equal(t, model.SpacePublic, result.Spaces[0].Kind)
}

func TestMatchSpacesDropsUnmatched(t *testing.T) {
	raw := []byte(`{"spacesCreated": [{"daoAddress":"0xdao","spaceAddress":"0xspace"}]}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{}, "mainnet", &fakeGetter{}, config.DefaultRetryConfig(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Spaces)
}

func TestInitialEditorsAddedFlattensAddresses(t *testing.T) {
	raw := []byte(`{"initialEditorsAdded":[{"daoAddress":"0xdao","addresses":["0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c","0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"]}]}`)

	result, err := Run(context.Background(), raw, model.BlockMetadata{}, "mainnet", &fakeGetter{}, config.DefaultRetryConfig(), nil)
	require.NoError(t, err)
	require.Len(t, result.AddedEditors, 2)
	assert.Equal(t, "0x5A0b54D5dc17e0AadC383d2db43B0a0D3E029c4c", result.AddedEditors[0].Address)
}
