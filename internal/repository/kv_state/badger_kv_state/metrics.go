package badger_kv_state

import (
	"github.com/dgraph-io/badger"
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	handleTimeHist     prometheus.Histogram
	viewRequestsCnt    prometheus.Counter
	updateRequestsCnt  prometheus.Counter
	successProcessCnt  prometheus.Counter
	errProcessCnt      prometheus.Counter
	keyMissesCnt       prometheus.Counter
	repoSizeBytesGauge prometheus.GaugeFunc
}

func newMetrics(db *badger.DB) *metrics {
	const ss = "badger_kv_state"
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
		keyMissesCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "key_misses_cnt",
			Subsystem: ss,
			Help:      "Count of reads of keys not existing in repo",
		}),
		repoSizeBytesGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:      "repo_size_bytes_gauge",
			Subsystem: ss,
			Help:      "actual size of repo in bytes",
		}, func() float64 {
			kSize, vSize := db.Size()
			return float64(kSize + vSize)
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
		m.keyMissesCnt,
		m.repoSizeBytesGauge,
	}
}
