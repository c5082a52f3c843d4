package apiclient

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosvani/blocktally/pkg/api"
	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/status"
)

func testServer(t *testing.T) *Client {
	t.Helper()

	level := block.StorageLevel{UseMemory: true, Replication: 1}
	engine := status.NewEngine(status.Config{
		Node: block.NodeID{Host: "localhost", Port: 7337, ExecutorID: "exec-1"},
	})
	engine.AddOrUpdate(block.DatasetBlock{Dataset: "events", Partition: 0}, block.Record{Level: level, MemSize: 200})
	engine.AddOrUpdate(block.OpaqueBlock{Name: "scratch-0"}, block.Record{Level: level, MemSize: 100})

	guard := api.Guard{Mu: &sync.RWMutex{}, Engine: engine}
	srv := httptest.NewServer(api.NewRouter(guard))
	t.Cleanup(srv.Close)

	return New(srv.URL)
}

func TestClientHealth(t *testing.T) {
	client := testServer(t)
	assert.NoError(t, client.Health())
}

func TestClientNode(t *testing.T) {
	client := testServer(t)

	info, err := client.Node()
	require.NoError(t, err)
	assert.Equal(t, "exec-1", info.ExecutorID)
	assert.Equal(t, 7337, info.Port)
}

func TestClientUsage(t *testing.T) {
	client := testServer(t)

	info, err := client.Usage()
	require.NoError(t, err)
	assert.Equal(t, 2, info.BlockCount)
	assert.Equal(t, int64(300), info.MemUsed)
	assert.Nil(t, info.MaxMem)
}

func TestClientDatasets(t *testing.T) {
	client := testServer(t)

	list, err := client.Datasets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "events", list[0].ID)
}

func TestClientDatasetNotFound(t *testing.T) {
	client := testServer(t)

	_, err := client.Dataset("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClientBlock(t *testing.T) {
	client := testServer(t)

	info, err := client.Block("scratch-0")
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.MemSize)
}

func TestClientConnectionError(t *testing.T) {
	client := New("http://127.0.0.1:1")

	err := client.Health()
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
