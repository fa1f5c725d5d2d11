package model

import (
	"slices"
)

const (
	MaxServiceNameLen       = 64
	MaxServiceURLPathLen    = 32
	MaxMemberNameLen        = 64
	MaxMemberServiceNameLen = 64
	MaxAddressLen           = 128
	MaxMonitorNameLen       = 32
	MaxHealthChecks         = 512
)

// BoundedString is a string whose byte length was checked against a fixed maximum.
type BoundedString string

// Rejects s if it is longer than max bytes. Never truncates.
func NewBoundedString(field string, s string, max int) (BoundedString, error) {
	if len(s) > max {
		return "", CapacityExceededError{Field: field, Max: max}
	}
	return BoundedString(s), nil
}

func (bs BoundedString) String() string {
	return string(bs)
}

func (bs BoundedString) IsEmpty() bool {
	return bs == ""
}

// BoundedSeq is an append-only sequence with a fixed capacity.
type BoundedSeq[T any] struct {
	Items []T `json:"items"`
	Cap   int `json:"cap"`
}

func NewBoundedSeq[T any](capacity int) BoundedSeq[T] {
	return BoundedSeq[T]{Cap: capacity}
}

func (seq BoundedSeq[T]) Len() int {
	return len(seq.Items)
}

func (seq BoundedSeq[T]) IsFull() bool {
	return len(seq.Items) >= seq.Cap
}

// Returns a copy of seq with item appended, or CapacityExceededError if seq is full.
// The receiver is never modified.
func (seq BoundedSeq[T]) TryPush(field string, item T) (BoundedSeq[T], error) {
	if seq.IsFull() {
		return seq, CapacityExceededError{Field: field, Max: seq.Cap}
	}

	items := make([]T, 0, len(seq.Items)+1)
	items = append(items, seq.Items...)
	items = append(items, item)

	return BoundedSeq[T]{Items: items, Cap: seq.Cap}, nil
}

func (seq BoundedSeq[T]) Slice() []T {
	return slices.Clone(seq.Items)
}
