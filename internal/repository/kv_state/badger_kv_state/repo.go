package badger_kv_state

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/prometheus/client_golang/prometheus"
)

var _ kv_state.Repository = &badgerKVState{}

type badgerKVState struct {
	db      *badger.DB
	metrics *metrics
}

func New(db *badger.DB) *badgerKVState {
	return &badgerKVState{
		db:      db,
		metrics: newMetrics(db),
	}
}

// Opens badger at dir and wraps it. Closing the repo closes the db.
func Open(dir string) (*badgerKVState, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", dir, err)
	}
	return New(db), nil
}

func (repo *badgerKVState) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *badgerKVState) View(fn func(kv_state.Txn) error) (resErr error) {
	defer repo.observe(repo.metrics.viewRequestsCnt, time.Now(), &resErr)

	if err := repo.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn, metrics: repo.metrics})
	}); err != nil {
		return fmt.Errorf("performing view txn: %w", err)
	}
	return nil
}

// Runs fn in a read-write txn. If fn fails the txn is discarded.
func (repo *badgerKVState) Update(fn func(kv_state.Txn) error) (resErr error) {
	defer repo.observe(repo.metrics.updateRequestsCnt, time.Now(), &resErr)

	if err := repo.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn, metrics: repo.metrics})
	}); err != nil {
		return fmt.Errorf("performing upd txn: %w", err)
	}
	return nil
}

func (repo *badgerKVState) Close() error {
	if err := repo.db.Close(); err != nil {
		return fmt.Errorf("closing badger: %w", err)
	}
	return nil
}

func (repo *badgerKVState) observe(reqCnt prometheus.Counter, ts time.Time, resErr *error) {
	reqCnt.Inc()
	repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

	switch *resErr {
	case nil:
		repo.metrics.successProcessCnt.Inc()
	default:
		repo.metrics.errProcessCnt.Inc()
	}
}

type badgerTxn struct {
	txn     *badger.Txn
	metrics *metrics
}

func (t *badgerTxn) Get(key string, dst any) error {
	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			t.metrics.keyMissesCnt.Inc()
			return kv_state.KeyNotFoundError{Key: key}
		}
		return fmt.Errorf("getting item: %w", err)
	}

	if err := item.Value(func(val []byte) error {
		return kv_state.Decode(val, dst)
	}); err != nil {
		return fmt.Errorf("getting value of %s: %w", key, err)
	}

	return nil
}

func (t *badgerTxn) Has(key string) (bool, error) {
	_, err := t.txn.Get([]byte(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("getting item: %w", err)
	}
}

func (t *badgerTxn) Set(key string, value any) error {
	data, err := kv_state.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := t.txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("setting item to db: %w", err)
	}
	return nil
}

func (t *badgerTxn) Scan(prefix string, fn func(key string, raw []byte) error) error {
	return t.ScanFrom(prefix, prefix, fn)
}

func (t *badgerTxn) ScanFrom(prefix, start string, fn func(key string, raw []byte) error) error {
	it := t.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek([]byte(max(prefix, start))); it.ValidForPrefix(p); it.Next() {
		item := it.Item()

		raw, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("copying value: %w", err)
		}

		if err := fn(string(item.KeyCopy(nil)), raw); err != nil {
			return err
		}
	}

	return nil
}
