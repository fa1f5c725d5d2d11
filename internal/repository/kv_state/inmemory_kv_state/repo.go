package inmemory_kv_state

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

var _ kv_state.Repository = &inmemoryKVState{}

type inmemoryKVState struct {
	storage map[string][]byte
	mu      sync.RWMutex
	metrics *metrics
}

func New() *inmemoryKVState {
	repo := inmemoryKVState{
		storage: map[string][]byte{},
	}

	repo.metrics = newMetrics(&repo)

	return &repo
}

func (repo *inmemoryKVState) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *inmemoryKVState) View(fn func(kv_state.Txn) error) (resErr error) {
	repo.metrics.viewRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if err := fn(&inmemoryTxn{base: repo.storage}); err != nil {
		return fmt.Errorf("performing view txn: %w", err)
	}
	return nil
}

// Writes are staged in the txn and applied to storage only if fn succeeds.
func (repo *inmemoryKVState) Update(fn func(kv_state.Txn) error) (resErr error) {
	repo.metrics.updateRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	txn := &inmemoryTxn{
		base:   repo.storage,
		writes: map[string][]byte{},
	}
	if err := fn(txn); err != nil {
		return fmt.Errorf("performing upd txn: %w", err)
	}

	for k, v := range txn.writes {
		repo.storage[k] = v
	}
	return nil
}

func (repo *inmemoryKVState) Close() error {
	return nil
}

func (repo *inmemoryKVState) observe(ts time.Time, resErr *error) {
	repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
	switch *resErr {
	case nil:
		repo.metrics.successProcessCnt.Inc()
	default:
		repo.metrics.errProcessCnt.Inc()
	}
}

type inmemoryTxn struct {
	base map[string][]byte
	// nil for read-only txns
	writes map[string][]byte
}

func (t *inmemoryTxn) lookup(key string) ([]byte, bool) {
	if v, found := t.writes[key]; found {
		return v, true
	}
	v, found := t.base[key]
	return v, found
}

func (t *inmemoryTxn) Get(key string, dst any) error {
	raw, found := t.lookup(key)
	if !found {
		return kv_state.KeyNotFoundError{Key: key}
	}

	if err := kv_state.Decode(raw, dst); err != nil {
		return fmt.Errorf("getting value of %s: %w", key, err)
	}
	return nil
}

func (t *inmemoryTxn) Has(key string) (bool, error) {
	_, found := t.lookup(key)
	return found, nil
}

func (t *inmemoryTxn) Set(key string, value any) error {
	if t.writes == nil {
		return kv_state.ErrReadOnlyTxn
	}

	data, err := kv_state.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	t.writes[key] = data
	return nil
}

func (t *inmemoryTxn) Scan(prefix string, fn func(key string, raw []byte) error) error {
	return t.ScanFrom(prefix, prefix, fn)
}

func (t *inmemoryTxn) ScanFrom(prefix, start string, fn func(key string, raw []byte) error) error {
	keys := lo.Filter(
		lo.Uniq(append(lo.Keys(t.base), lo.Keys(t.writes)...)),
		func(el string, _ int) bool { return strings.HasPrefix(el, prefix) && el >= start },
	)
	slices.Sort(keys)

	for _, key := range keys {
		raw, _ := t.lookup(key)
		if err := fn(key, slices.Clone(raw)); err != nil {
			return err
		}
	}
	return nil
}
