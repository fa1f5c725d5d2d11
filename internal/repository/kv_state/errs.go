package kv_state

import (
	"errors"
	"fmt"
)

var _ error = KeyNotFoundError{}

type KeyNotFoundError struct {
	Key string
}

func (err KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %s not found", err.Key)
}

var ErrReadOnlyTxn = errors.New("txn is read-only")
