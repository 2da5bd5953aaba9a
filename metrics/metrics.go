// Package metrics exports dhash table counters as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/dhash"
)

// Collector reads a stats snapshot on every scrape.
type Collector struct {
	src dhash.StatsProvider

	entries     *prometheus.Desc
	capacity    *prometheus.Desc
	baseSize    *prometheus.Desc
	tombstones  *prometheus.Desc
	loadFactor  *prometheus.Desc
	grows       *prometheus.Desc
	shrinks     *prometheus.Desc
	compactions *prometheus.Desc
}

// NewCollector returns a collector for src labelled with table=name.
func NewCollector(name string, src dhash.StatsProvider) *Collector {
	labels := prometheus.Labels{"table": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("dhash", "", metric), help, nil, labels)
	}
	return &Collector{
		src:         src,
		entries:     desc("entries", "Number of live entries"),
		capacity:    desc("capacity_slots", "Number of slots in the slot store"),
		baseSize:    desc("base_size", "Requested capacity before prime rounding"),
		tombstones:  desc("tombstones", "Number of tombstone slots"),
		loadFactor:  desc("load_factor", "Live entries divided by slots"),
		grows:       desc("grows_total", "Number of grow resizes"),
		shrinks:     desc("shrinks_total", "Number of shrink resizes"),
		compactions: desc("compactions_total", "Number of tombstone compactions"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.baseSize
	ch <- c.tombstones
	ch <- c.loadFactor
	ch <- c.grows
	ch <- c.shrinks
	ch <- c.compactions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Count))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity))
	ch <- prometheus.MustNewConstMetric(c.baseSize, prometheus.GaugeValue, float64(st.BaseSize))
	ch <- prometheus.MustNewConstMetric(c.tombstones, prometheus.GaugeValue, float64(st.Tombstones))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, st.LoadFactor())
	ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(st.Grows))
	ch <- prometheus.MustNewConstMetric(c.shrinks, prometheus.CounterValue, float64(st.Shrinks))
	ch <- prometheus.MustNewConstMetric(c.compactions, prometheus.CounterValue, float64(st.Compactions))
}
