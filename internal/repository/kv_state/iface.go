package kv_state

import (
	"github.com/horockey/ibp/internal/model"
)

// Repository is the replicated key-value state. Update runs fn atomically:
// either every write made through the txn is committed or none is.
type Repository interface {
	model.MetricsProvider
	View(fn func(Txn) error) error
	Update(fn func(Txn) error) error
	Close() error
}

type Txn interface {
	// Decodes value stored under key into dst. Returns KeyNotFoundError if absent.
	Get(key string, dst any) error
	Has(key string) (bool, error)
	Set(key string, value any) error
	// Calls fn for every key with given prefix in ascending key order.
	Scan(prefix string, fn func(key string, raw []byte) error) error
	// Like Scan, but skips keys below start.
	ScanFrom(prefix, start string, fn func(key string, raw []byte) error) error
}
