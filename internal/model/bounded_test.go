package model_test

import (
	"strings"
	"testing"

	"github.com/horockey/ibp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundedString(t *testing.T) {
	bs, err := model.NewBoundedString("name", strings.Repeat("a", 8), 8)
	require.NoError(t, err)
	assert.Equal(t, 8, len(bs.String()))

	_, err = model.NewBoundedString("name", strings.Repeat("a", 9), 8)
	assert.Equal(t, model.CapacityExceededError{Field: "name", Max: 8}, err)

	// bytes are counted, not runes
	_, err = model.NewBoundedString("name", "ééééé", 8)
	assert.Error(t, err)

	empty, err := model.NewBoundedString("name", "", 8)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestBoundedSeq_TryPush(t *testing.T) {
	seq := model.NewBoundedSeq[int](2)

	seq, err := seq.TryPush("items", 1)
	require.NoError(t, err)
	full, err := seq.TryPush("items", 2)
	require.NoError(t, err)
	assert.True(t, full.IsFull())

	// pushes copy, the shorter seq is untouched
	assert.Equal(t, []int{1}, seq.Slice())

	rejected, err := full.TryPush("items", 3)
	assert.Equal(t, model.CapacityExceededError{Field: "items", Max: 2}, err)
	assert.Equal(t, []int{1, 2}, full.Slice())
	assert.Equal(t, full, rejected)
}

func TestParseServiceKind(t *testing.T) {
	k, err := model.ParseServiceKind("boot_node")
	require.NoError(t, err)
	assert.Equal(t, model.ServiceKindBootNode, k)

	_, err = model.ParseServiceKind("RPC")
	assert.ErrorIs(t, err, model.ErrInvalidServiceKind)
}

func TestErrorsComparable(t *testing.T) {
	var err error = model.NotFoundError{Entity: model.KindMonitor}
	assert.ErrorIs(t, err, model.ErrMonitorNotFound)
	assert.NotErrorIs(t, err, model.ErrMemberNotFound)
	assert.Equal(t, "monitor not found", err.Error())

	assert.Equal(t, "capacity exceeded for health checks: max 512", model.ErrHealthChecksFull.Error())
}
