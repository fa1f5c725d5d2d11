package badger_kv_state_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/horockey/ibp/internal/repository/kv_state/badger_kv_state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name string
	Port uint16
}

func setupDB(t *testing.T) (*badger.DB, func()) {
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		t.Fatalf("failed to open badger db: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

func Test_Get_KeyNotFound(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)

	err := repo.View(func(txn kv_state.Txn) error {
		var rec record
		return txn.Get("nonexistent_key", &rec)
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, kv_state.KeyNotFoundError{Key: "nonexistent_key"}))
}

func Test_Update_Commit(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)
	want := record{Name: "rpc-1", Port: 443}

	err := repo.Update(func(txn kv_state.Txn) error {
		return txn.Set("services/0", want)
	})
	require.NoError(t, err)

	var got record
	err = repo.View(func(txn kv_state.Txn) error {
		return txn.Get("services/0", &got)
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func Test_Update_DiscardedOnError(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)
	failure := errors.New("validation failed")

	err := repo.Update(func(txn kv_state.Txn) error {
		if err := txn.Set("counters/service", uint32(1)); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	err = repo.View(func(txn kv_state.Txn) error {
		found, err := txn.Has("counters/service")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func Test_Update_ReadsOwnWrites(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)

	err := repo.Update(func(txn kv_state.Txn) error {
		require.NoError(t, txn.Set("k", uint32(7)))

		var v uint32
		require.NoError(t, txn.Get("k", &v))
		assert.Equal(t, uint32(7), v)
		return nil
	})
	require.NoError(t, err)
}

func Test_Scan_PrefixOrdered(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)

	err := repo.Update(func(txn kv_state.Txn) error {
		for _, k := range []string{"services/0000000002", "members/alice", "services/0000000000", "services/0000000001"} {
			if err := txn.Set(k, record{Name: k}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	keys := []string{}
	err = repo.View(func(txn kv_state.Txn) error {
		return txn.Scan("services/", func(key string, raw []byte) error {
			var rec record
			require.NoError(t, kv_state.Decode(raw, &rec))
			assert.Equal(t, key, rec.Name)
			keys = append(keys, key)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"services/0000000000", "services/0000000001", "services/0000000002"}, keys)
}

func Test_ScanFrom_SeeksToStart(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_kv_state.New(db)

	err := repo.Update(func(txn kv_state.Txn) error {
		for _, k := range []string{"members/alice", "services/0000000000", "services/0000000001", "services/0000000002", "tail"} {
			if err := txn.Set(k, record{Name: k}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	scan := func(start string) []string {
		keys := []string{}
		require.NoError(t, repo.View(func(txn kv_state.Txn) error {
			return txn.ScanFrom("services/", start, func(key string, _ []byte) error {
				keys = append(keys, key)
				return nil
			})
		}))
		return keys
	}

	assert.Equal(t, []string{"services/0000000001", "services/0000000002"}, scan("services/0000000001"))
	assert.Equal(t, []string{"services/0000000000", "services/0000000001", "services/0000000002"}, scan("a"))
	assert.Empty(t, scan("services/0000000003"))
	assert.Empty(t, scan("z"))
}

func Test_Reopen_Persists(t *testing.T) {
	dir := t.TempDir()

	repo, err := badger_kv_state.Open(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		return txn.Set("members/alice", record{Name: "Alice"})
	}))
	require.NoError(t, repo.Close())

	repo, err = badger_kv_state.Open(dir)
	require.NoError(t, err)
	defer repo.Close()

	var got record
	require.NoError(t, repo.View(func(txn kv_state.Txn) error {
		return txn.Get("members/alice", &got)
	}))
	assert.Equal(t, "Alice", got.Name)
}
