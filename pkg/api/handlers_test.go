package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/status"
)

func int64ptr(v int64) *int64 { return &v }

func seededGuard() Guard {
	level := block.StorageLevel{UseMemory: true, Replication: 1}
	engine := status.NewEngine(status.Config{
		Node:          block.NodeID{Host: "localhost", Port: 7337, ExecutorID: "exec-1"},
		MaxOnHeapMem:  int64ptr(1000),
		MaxOffHeapMem: int64ptr(500),
	})

	engine.AddOrUpdate(block.DatasetBlock{Dataset: "events", Partition: 0}, block.Record{Level: level, MemSize: 200})
	engine.AddOrUpdate(block.DatasetBlock{Dataset: "events", Partition: 1}, block.Record{Level: level, MemSize: 300, DiskSize: 30})
	engine.AddOrUpdate(block.OpaqueBlock{Name: "scratch-0"}, block.Record{Level: level, MemSize: 100})

	return Guard{Mu: &sync.RWMutex{}, Engine: engine}
}

func doRequest(t *testing.T, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	router := NewRouter(seededGuard())
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// decodeData round-trips the envelope's Data field into a typed value.
func decodeData[T any](t *testing.T, resp Response) T {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", resp.Status)
}

func TestNodeEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/v1/node")
	require.Equal(t, http.StatusOK, rec.Code)

	info := decodeData[NodeInfo](t, resp)
	assert.Equal(t, "localhost", info.Host)
	assert.Equal(t, 7337, info.Port)
	assert.Equal(t, "exec-1", info.ExecutorID)
	assert.Equal(t, "exec-1 (localhost:7337)", info.Display)
}

func TestUsageEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/v1/usage")
	require.Equal(t, http.StatusOK, rec.Code)

	info := decodeData[UsageInfo](t, resp)
	assert.Equal(t, 3, info.BlockCount)
	assert.Equal(t, 1, info.DatasetCount)
	assert.Equal(t, int64(100), info.OnHeapMemUsed)
	assert.Equal(t, int64(100), info.MemUsed)
	require.NotNil(t, info.MaxMem)
	assert.Equal(t, int64(1500), *info.MaxMem)
	require.NotNil(t, info.MemRemaining)
	assert.Equal(t, int64(1400), *info.MemRemaining)
}

func TestUsageOmitsUnconfiguredCeilings(t *testing.T) {
	engine := status.NewEngine(status.Config{
		Node: block.NodeID{Host: "localhost", Port: 7337, ExecutorID: "exec-1"},
	})
	guard := Guard{Mu: &sync.RWMutex{}, Engine: engine}

	req := httptest.NewRequest(http.MethodGet, "/v1/usage", nil)
	rec := httptest.NewRecorder()
	NewRouter(guard).ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	info := decodeData[UsageInfo](t, resp)

	assert.Nil(t, info.MaxOnHeapMem)
	assert.Nil(t, info.MaxMem)
	assert.Nil(t, info.MemRemaining, "absent ceilings must not become fabricated numbers")
}

func TestDatasetsEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/v1/datasets")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeData[[]DatasetInfo](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "events", list[0].ID)
	assert.Equal(t, 2, list[0].BlockCount)
	assert.Equal(t, int64(500), list[0].MemoryUsage)
	assert.Equal(t, int64(30), list[0].DiskUsage)
}

func TestDatasetEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/v1/datasets/events")
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decodeData[DatasetDetail](t, resp)
	assert.Equal(t, "events", detail.ID)
	require.Len(t, detail.Blocks, 2)
	assert.Equal(t, "dataset_events_0", detail.Blocks[0].ID)
	assert.Equal(t, "dataset_events_1", detail.Blocks[1].ID)
}

func TestDatasetEndpointNotFound(t *testing.T) {
	rec, resp := doRequest(t, "/v1/datasets/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestBlockEndpoint(t *testing.T) {
	rec, resp := doRequest(t, "/v1/blocks/scratch-0")
	require.Equal(t, http.StatusOK, rec.Code)

	info := decodeData[BlockInfo](t, resp)
	assert.Equal(t, "scratch-0", info.ID)
	assert.Equal(t, int64(100), info.MemSize)
}

func TestBlockEndpointNotFound(t *testing.T) {
	rec, _ := doRequest(t, "/v1/blocks/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
