package status

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mosvani/blocktally/pkg/block"
)

// Collector exposes one engine's usage as Prometheus metrics.
//
// Values are read from the engine at scrape time rather than pushed on
// every mutation, so the accounting hot path stays free of metrics calls.
// The engine itself is not synchronized; Collector serializes scrapes with
// the caller-supplied lock, which must be the same lock the mutating side
// holds.
type Collector struct {
	mu     *sync.RWMutex
	engine *Engine

	blockCount    *prometheus.Desc
	datasetCount  *prometheus.Desc
	onHeapUsed    *prometheus.Desc
	offHeapUsed   *prometheus.Desc
	diskUsed      *prometheus.Desc
	datasetMemory *prometheus.Desc
	datasetDisk   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over engine guarded by mu.
func NewCollector(engine *Engine, mu *sync.RWMutex) *Collector {
	nodeLabel := prometheus.Labels{"node": engine.Node().String()}

	return &Collector{
		mu:     mu,
		engine: engine,
		blockCount: prometheus.NewDesc(
			"blocktally_blocks",
			"Number of blocks currently registered on the node",
			nil, nodeLabel,
		),
		datasetCount: prometheus.NewDesc(
			"blocktally_datasets",
			"Number of datasets with at least one block on the node",
			nil, nodeLabel,
		),
		onHeapUsed: prometheus.NewDesc(
			"blocktally_onheap_bytes",
			"On-heap memory used by opaque blocks",
			nil, nodeLabel,
		),
		offHeapUsed: prometheus.NewDesc(
			"blocktally_offheap_bytes",
			"Off-heap memory used by opaque blocks",
			nil, nodeLabel,
		),
		diskUsed: prometheus.NewDesc(
			"blocktally_disk_bytes",
			"Disk space used by opaque blocks",
			nil, nodeLabel,
		),
		datasetMemory: prometheus.NewDesc(
			"blocktally_dataset_memory_bytes",
			"Memory used by one dataset's blocks",
			[]string{"dataset"}, nodeLabel,
		),
		datasetDisk: prometheus.NewDesc(
			"blocktally_dataset_disk_bytes",
			"Disk space used by one dataset's blocks",
			[]string{"dataset"}, nodeLabel,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blockCount
	ch <- c.datasetCount
	ch <- c.onHeapUsed
	ch <- c.offHeapUsed
	ch <- c.diskUsed
	ch <- c.datasetMemory
	ch <- c.datasetDisk
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	blockCount := c.engine.BlockCount()
	node := c.engine.NodeUsage()
	datasets := c.engine.Datasets()

	type datasetSample struct {
		id    block.DatasetID
		usage block.DatasetUsage
	}
	samples := make([]datasetSample, 0, len(datasets))
	for _, d := range datasets {
		if usage, ok := c.engine.DatasetUsage(d); ok {
			samples = append(samples, datasetSample{id: d, usage: usage})
		}
	}
	c.mu.RUnlock()

	ch <- prometheus.MustNewConstMetric(c.blockCount, prometheus.GaugeValue, float64(blockCount))
	ch <- prometheus.MustNewConstMetric(c.datasetCount, prometheus.GaugeValue, float64(len(samples)))
	ch <- prometheus.MustNewConstMetric(c.onHeapUsed, prometheus.GaugeValue, float64(node.OnHeapUsage))
	ch <- prometheus.MustNewConstMetric(c.offHeapUsed, prometheus.GaugeValue, float64(node.OffHeapUsage))
	ch <- prometheus.MustNewConstMetric(c.diskUsed, prometheus.GaugeValue, float64(node.DiskUsage))

	for _, s := range samples {
		ch <- prometheus.MustNewConstMetric(c.datasetMemory, prometheus.GaugeValue, float64(s.usage.MemoryUsage), string(s.id))
		ch <- prometheus.MustNewConstMetric(c.datasetDisk, prometheus.GaugeValue, float64(s.usage.DiskUsage), string(s.id))
	}
}
