package http_controller

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	handleTimeHist  prometheus.Histogram
	requestsCnt     prometheus.Counter
	okResponsesCnt  prometheus.Counter
	errResponsesCnt *prometheus.CounterVec
}

func newMetrics() *metrics {
	const ss = "http_controller"
	return &metrics{
		handleTimeHist: prometheus.NewHistogram(*prometheus_helpers.NewHistOpts(
			"handle_time_hist",
			prometheus_helpers.HistOptsWithSubsystem(ss),
			prometheus_helpers.HistOptsWithHelp("Request handle time distribution"),
		)),
		requestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "requests_cnt",
			Subsystem: ss,
			Help:      "Count of incoming requests",
		}),
		okResponsesCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "ok_responses_cnt",
			Subsystem: ss,
			Help:      "Count of requests answered with 200",
		}),
		errResponsesCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "err_responses_cnt",
			Subsystem: ss,
			Help:      "Count of error responses by error code",
		}, []string{"code"}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{
		m.handleTimeHist,
		m.requestsCnt,
		m.okResponsesCnt,
		m.errResponsesCnt,
	}
}
