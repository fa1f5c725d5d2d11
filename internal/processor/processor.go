package processor

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/registry"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type RewardIssuer interface {
	IssueReward(txn kv_state.Txn, account model.AccountID, amount *big.Int) error
	Balance(txn kv_state.Txn, account model.AccountID) (*big.Int, error)
}

// EventHandler receives every event after the action that produced it has committed,
// in event log order. It runs outside the dispatch lock and may dispatch further calls;
// their events are delivered after the handler returns.
type EventHandler func(rec model.EventRecord)

type Processor struct {
	mu           sync.Mutex
	deliverMu    sync.Mutex
	pending      []model.EventRecord
	delivering   bool
	state        kv_state.Repository
	rewards      RewardIssuer
	verifier     OriginVerifier
	rewardAmount *big.Int
	testMode     bool
	onEvent      EventHandler
	Logger       zerolog.Logger
	metrics      *metrics
}

func New(
	state kv_state.Repository,
	rewards RewardIssuer,
	verifier OriginVerifier,
	rewardAmount *big.Int,
	testMode bool,
	onEvent EventHandler,
	logger zerolog.Logger,
) *Processor {
	if verifier == nil {
		verifier = DefaultOriginVerifier()
	}
	if rewardAmount == nil {
		rewardAmount = new(big.Int)
	}
	return &Processor{
		state:        state,
		rewards:      rewards,
		verifier:     verifier,
		rewardAmount: new(big.Int).Set(rewardAmount),
		testMode:     testMode,
		onEvent:      onEvent,
		Logger:       logger,
		metrics:      newMetrics(),
	}
}

func (pr *Processor) Metrics() []prometheus.Collector {
	return pr.metrics.list()
}

// RewardAmount returns a copy of the amount credited per accepted health check.
func (pr *Processor) RewardAmount() *big.Int {
	return new(big.Int).Set(pr.rewardAmount)
}

// mutation is the body of one action. It returns the event to append, if any.
type mutation func(reg *registry.Registry, txn kv_state.Txn) (model.Event, error)

// commit runs fn inside one state transaction. Nothing fn wrote survives an error.
func (pr *Processor) commit(kind model.ActionKind, fn mutation) (recs []model.EventRecord, resErr error) {
	defer func(ts time.Time) {
		pr.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		pr.metrics.actionsCnt.WithLabelValues(string(kind), outcome(resErr)).Inc()
	}(time.Now())

	var actionErr error
	err := pr.state.Update(func(txn kv_state.Txn) error {
		recs = nil
		reg := registry.New(txn)

		ev, err := fn(reg, txn)
		if err != nil {
			actionErr = err
			return err
		}
		if ev == nil {
			return nil
		}

		rec, err := reg.AppendEvent(ev)
		if err != nil {
			return fmt.Errorf("appending %s event: %w", ev.EventName(), err)
		}
		recs = append(recs, rec)
		return nil
	})
	if actionErr != nil {
		return nil, actionErr
	}
	if err != nil {
		return nil, fmt.Errorf("committing %s: %w", kind, err)
	}

	pr.metrics.eventsCnt.Add(float64(len(recs)))
	if pr.onEvent != nil && len(recs) > 0 {
		pr.deliverMu.Lock()
		pr.pending = append(pr.pending, recs...)
		pr.deliverMu.Unlock()
	}

	return recs, nil
}

// deliver hands queued events to onEvent. Only one goroutine delivers at a time,
// so a nested call from inside a handler returns at once and the outer loop
// picks up whatever the nested dispatch queued.
func (pr *Processor) deliver() {
	pr.deliverMu.Lock()
	if pr.delivering {
		pr.deliverMu.Unlock()
		return
	}
	pr.delivering = true

	for len(pr.pending) > 0 {
		rec := pr.pending[0]
		pr.pending = pr.pending[1:]

		pr.deliverMu.Unlock()
		pr.onEvent(rec)
		pr.deliverMu.Lock()
	}

	pr.pending = nil
	pr.delivering = false
	pr.deliverMu.Unlock()
}

func (pr *Processor) view(fn func(reg *registry.Registry, txn kv_state.Txn) error) error {
	var queryErr error
	err := pr.state.View(func(txn kv_state.Txn) error {
		queryErr = fn(registry.New(txn), txn)
		return queryErr
	})
	if queryErr != nil {
		return queryErr
	}
	return err
}

// IsRejection reports whether err is a domain rejection rather than a storage failure.
func IsRejection(err error) bool {
	return errors.As(err, &model.UnauthorizedError{}) ||
		errors.As(err, &model.AlreadyRegisteredError{}) ||
		errors.As(err, &model.NotFoundError{}) ||
		errors.As(err, &model.InvalidInputError{}) ||
		errors.As(err, &model.CapacityExceededError{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeCommitted
	case IsRejection(err):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
