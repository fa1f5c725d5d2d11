package processor

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCommitted = "committed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

type metrics struct {
	handleTimeHist prometheus.Histogram
	actionsCnt     *prometheus.CounterVec
	eventsCnt      prometheus.Counter
}

func newMetrics() *metrics {
	const ss = "processor"
	return &metrics{
		handleTimeHist: prometheus.NewHistogram(*prometheus_helpers.NewHistOpts(
			"handle_time_hist",
			prometheus_helpers.HistOptsWithSubsystem(ss),
			prometheus_helpers.HistOptsWithHelp("Action handle time distribution"),
		)),
		actionsCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "actions_cnt",
			Subsystem: ss,
			Help:      "Count of dispatched actions by kind and outcome",
		}, []string{"kind", "outcome"}),
		eventsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "events_cnt",
			Subsystem: ss,
			Help:      "Count of emitted events",
		}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{m.handleTimeHist, m.actionsCnt, m.eventsCnt}
}
