package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// StatsSource is anything that reports per-bucket entry counts.
// *cmap.Map satisfies it for every key and value type.
type StatsSource interface {
	Stats() []cmap.BucketStats
}

// Collector exports the entry count of every bucket of a live map.
//
// Stats locks each bucket in turn, so a scrape sees a per-bucket
// consistent view. Unregister the collector before destroying the map.
type Collector struct {
	src         StatsSource
	bucketDesc  *prometheus.Desc
	entriesDesc *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,
		bucketDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "bucket_entries"),
			"Entries stored in each bucket.",
			[]string{"bucket"}, nil,
		),
		entriesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Entries stored in the map.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bucketDesc
	ch <- c.entriesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	total := 0
	for _, s := range c.src.Stats() {
		total += s.Entries
		ch <- prometheus.MustNewConstMetric(c.bucketDesc, prometheus.GaugeValue,
			float64(s.Entries), strconv.Itoa(s.Index))
	}
	ch <- prometheus.MustNewConstMetric(c.entriesDesc, prometheus.GaugeValue, float64(total))
}
