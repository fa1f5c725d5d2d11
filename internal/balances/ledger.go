// Package balances is the reward side of the ledger: a per-account u128 balance
// kept in the same key-value state as the registries, so issuing a reward commits
// or rolls back together with the action that earned it.
package balances

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/prometheus/client_golang/prometheus"
)

const balancesPrefix = "balances/"

// MaxBalance is 2^128 - 1.
var MaxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

type Ledger struct {
	metrics *metrics
}

func New() *Ledger {
	return &Ledger{metrics: newMetrics()}
}

func (l *Ledger) Metrics() []prometheus.Collector {
	return l.metrics.list()
}

// IssueReward credits amount to account within txn.
func (l *Ledger) IssueReward(txn kv_state.Txn, account model.AccountID, amount *big.Int) error {
	defer func(ts time.Time) {
		l.metrics.handleTime.Observe(float64(time.Since(ts)))
	}(time.Now())

	if amount == nil || amount.Sign() < 0 {
		return model.InvalidInputError{Field: "reward amount"}
	}

	cur, err := l.Balance(txn, account)
	if err != nil {
		return err
	}

	next := new(big.Int).Add(cur, amount)
	if next.Cmp(MaxBalance) > 0 {
		l.metrics.overflowsCnt.Inc()
		return model.CapacityExceededError{Field: "balance bits", Max: 128}
	}

	if err := txn.Set(balancesPrefix+string(account), next); err != nil {
		return fmt.Errorf("setting balance of %s: %w", account, err)
	}

	l.metrics.issuedCnt.Inc()
	return nil
}

// Balance returns zero for accounts that never received anything.
func (l *Ledger) Balance(txn kv_state.Txn, account model.AccountID) (*big.Int, error) {
	res := new(big.Int)
	if err := txn.Get(balancesPrefix+string(account), res); err != nil {
		if errors.As(err, &kv_state.KeyNotFoundError{}) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("getting balance of %s: %w", account, err)
	}
	return res, nil
}

type metrics struct {
	issuedCnt    prometheus.Counter
	overflowsCnt prometheus.Counter
	handleTime   prometheus.Histogram
}

func newMetrics() *metrics {
	const ss = "balances"
	return &metrics{
		issuedCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "issued_rewards_cnt",
			Subsystem: ss,
			Help:      "Count of issued rewards",
		}),
		overflowsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "overflows_cnt",
			Subsystem: ss,
			Help:      "Count of rewards rejected by balance overflow",
		}),
		handleTime: prometheus.NewHistogram(*prometheus_helpers.NewHistOpts(
			"handle_time_hist",
			prometheus_helpers.HistOptsWithSubsystem(ss),
			prometheus_helpers.HistOptsWithHelp("Reward issue time distribution"),
		)),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{m.issuedCnt, m.overflowsCnt, m.handleTime}
}
