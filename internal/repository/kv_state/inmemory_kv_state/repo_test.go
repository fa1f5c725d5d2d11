package inmemory_kv_state_test

import (
	"errors"
	"testing"

	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/horockey/ibp/internal/repository/kv_state/inmemory_kv_state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Get_KeyNotFound(t *testing.T) {
	repo := inmemory_kv_state.New()

	err := repo.View(func(txn kv_state.Txn) error {
		var v uint32
		return txn.Get("missing", &v)
	})

	assert.ErrorIs(t, err, kv_state.KeyNotFoundError{Key: "missing"})
}

func Test_View_IsReadOnly(t *testing.T) {
	repo := inmemory_kv_state.New()

	err := repo.View(func(txn kv_state.Txn) error {
		return txn.Set("k", uint32(1))
	})

	assert.ErrorIs(t, err, kv_state.ErrReadOnlyTxn)
}

func Test_Update_DiscardedOnError(t *testing.T) {
	repo := inmemory_kv_state.New()
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		return txn.Set("counters/member", uint32(3))
	}))

	failure := errors.New("boom")
	err := repo.Update(func(txn kv_state.Txn) error {
		require.NoError(t, txn.Set("counters/member", uint32(4)))
		require.NoError(t, txn.Set("members/bob", "Bob"))
		return failure
	})
	require.ErrorIs(t, err, failure)

	require.NoError(t, repo.View(func(txn kv_state.Txn) error {
		var cnt uint32
		require.NoError(t, txn.Get("counters/member", &cnt))
		assert.Equal(t, uint32(3), cnt)

		found, err := txn.Has("members/bob")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	}))
}

func Test_Scan_SeesStagedWrites(t *testing.T) {
	repo := inmemory_kv_state.New()
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		return txn.Set("events/00000000000000000001", "b")
	}))

	err := repo.Update(func(txn kv_state.Txn) error {
		require.NoError(t, txn.Set("events/00000000000000000000", "a"))
		require.NoError(t, txn.Set("other/x", "ignored"))

		vals := []string{}
		require.NoError(t, txn.Scan("events/", func(_ string, raw []byte) error {
			var s string
			if err := kv_state.Decode(raw, &s); err != nil {
				return err
			}
			vals = append(vals, s)
			return nil
		}))
		assert.Equal(t, []string{"a", "b"}, vals)
		return nil
	})
	require.NoError(t, err)
}

func Test_ScanFrom_SkipsKeysBelowStart(t *testing.T) {
	repo := inmemory_kv_state.New()
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		for _, k := range []string{"events/00000000000000000000", "events/00000000000000000002", "members/bob"} {
			if err := txn.Set(k, k); err != nil {
				return err
			}
		}
		return nil
	}))

	err := repo.Update(func(txn kv_state.Txn) error {
		require.NoError(t, txn.Set("events/00000000000000000001", "events/00000000000000000001"))

		keys := []string{}
		require.NoError(t, txn.ScanFrom("events/", "events/00000000000000000001", func(key string, _ []byte) error {
			keys = append(keys, key)
			return nil
		}))
		assert.Equal(t, []string{"events/00000000000000000001", "events/00000000000000000002"}, keys)
		return nil
	})
	require.NoError(t, err)
}

func Test_Metrics_Listed(t *testing.T) {
	repo := inmemory_kv_state.New()
	assert.Len(t, repo.Metrics(), 7)
}
