package inmemory_kv_state

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

type metrics struct {
	handleTimeHist     prometheus.Histogram
	viewRequestsCnt    prometheus.Counter
	updateRequestsCnt  prometheus.Counter
	successProcessCnt  prometheus.Counter
	errProcessCnt      prometheus.Counter
	repoSizeItemsGauge prometheus.GaugeFunc
	repoSizeBytesGauge prometheus.GaugeFunc
}

func newMetrics(repo *inmemoryKVState) *metrics {
	const ss = "inmemory_kv_state"

	return &metrics{
		handleTimeHist: prometheus.NewHistogram(*prometheus_helpers.NewHistOpts(
			"handle_time_hist",
			prometheus_helpers.HistOptsWithSubsystem(ss),
			prometheus_helpers.HistOptsWithHelp("Txn handle time distribution"),
		)),
		viewRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "view_requests_cnt",
			Subsystem: ss,
			Help:      "Count of read-only txns",
		}),
		updateRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "update_requests_cnt",
			Subsystem: ss,
			Help:      "Count of read-write txns",
		}),
		successProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "success_processes_cnt",
			Subsystem: ss,
			Help:      "Count of committed or cleanly finished txns",
		}),
		errProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "err_processes_cnt",
			Subsystem: ss,
			Help:      "Count of txns finished with non-nil error",
		}),
		repoSizeItemsGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:      "repo_size_items_gauge",
			Subsystem: ss,
			Help:      "actual count of items in repo",
		}, func() float64 {
			repo.mu.RLock()
			defer repo.mu.RUnlock()
			return float64(len(repo.storage))
		}),
		repoSizeBytesGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:      "repo_size_bytes_gauge",
			Subsystem: ss,
			Help:      "actual size of repo values in bytes",
		}, func() float64 {
			repo.mu.RLock()
			defer repo.mu.RUnlock()
			return float64(lo.SumBy(lo.Values(repo.storage), func(v []byte) int { return len(v) }))
		}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{
		m.handleTimeHist,
		m.viewRequestsCnt,
		m.updateRequestsCnt,
		m.successProcessCnt,
		m.errProcessCnt,
		m.repoSizeItemsGauge,
		m.repoSizeBytesGauge,
	}
}
