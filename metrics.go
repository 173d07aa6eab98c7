package pgdock

import "github.com/prometheus/client_golang/prometheus"

// PoolCollector exports a pool's statistics to a Prometheus registry.
// The pool label keeps several registered pools apart.
type PoolCollector struct {
	pool *Pool

	size          *prometheus.Desc
	busy          *prometheus.Desc
	free          *prometheus.Desc
	acquires      *prometheus.Desc
	emptyAcquires *prometheus.Desc
	releases      *prometheus.Desc
	discards      *prometheus.Desc
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// NewPoolCollector builds a collector over p's Stat snapshots.
func NewPoolCollector(p *Pool, poolName string) *PoolCollector {
	labels := prometheus.Labels{"pool": poolName}
	return &PoolCollector{
		pool: p,
		size: prometheus.NewDesc(
			"pgdock_pool_size",
			"Number of slots in the pool.",
			nil, labels,
		),
		busy: prometheus.NewDesc(
			"pgdock_pool_busy_connections",
			"Connections currently checked out.",
			nil, labels,
		),
		free: prometheus.NewDesc(
			"pgdock_pool_free_connections",
			"Connections sitting free in the pool.",
			nil, labels,
		),
		acquires: prometheus.NewDesc(
			"pgdock_pool_acquires_total",
			"Successful connection checkouts.",
			nil, labels,
		),
		emptyAcquires: prometheus.NewDesc(
			"pgdock_pool_empty_acquires_total",
			"Checkout attempts that found no free connection.",
			nil, labels,
		),
		releases: prometheus.NewDesc(
			"pgdock_pool_releases_total",
			"Handles returned to the pool.",
			nil, labels,
		),
		discards: prometheus.NewDesc(
			"pgdock_pool_discards_total",
			"Connections closed during release.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.busy
	ch <- c.free
	ch <- c.acquires
	ch <- c.emptyAcquires
	ch <- c.releases
	ch <- c.discards
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(st.Size))
	ch <- prometheus.MustNewConstMetric(c.busy, prometheus.GaugeValue, float64(st.Busy))
	ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(st.Free))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(st.Acquires))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquires, prometheus.CounterValue, float64(st.EmptyAcquires))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(st.Releases))
	ch <- prometheus.MustNewConstMetric(c.discards, prometheus.CounterValue, float64(st.Discards))
}
