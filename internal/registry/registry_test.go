package registry_test

import (
	"testing"

	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/registry"
	"github.com/horockey/ibp/internal/repository/kv_state"
	"github.com/horockey/ibp/internal/repository/kv_state/inmemory_kv_state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, repo kv_state.Repository, fn func(reg *registry.Registry)) {
	t.Helper()
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		fn(registry.New(txn))
		return nil
	}))
}

func TestNextID_Monotonic(t *testing.T) {
	repo := inmemory_kv_state.New()

	update(t, repo, func(reg *registry.Registry) {
		for want := uint32(0); want < 5; want++ {
			got, err := reg.NextID(model.KindService)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		// counters are independent per kind
		got, err := reg.NextID(model.KindMember)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	update(t, repo, func(reg *registry.Registry) {
		next, err := reg.PeekID(model.KindService)
		require.NoError(t, err)
		assert.Equal(t, uint32(5), next)
	})
}

func TestNextID_Overflow(t *testing.T) {
	repo := inmemory_kv_state.New()
	require.NoError(t, repo.Update(func(txn kv_state.Txn) error {
		return txn.Set("counters/member_service", uint32(1<<32-1))
	}))

	update(t, repo, func(reg *registry.Registry) {
		_, err := reg.NextID(model.KindMemberService)
		var capErr model.CapacityExceededError
		assert.ErrorAs(t, err, &capErr)
	})
}

func TestService_RoundTrip(t *testing.T) {
	repo := inmemory_kv_state.New()
	svc := model.Service{ID: 3, Kind: model.ServiceKindBootNode, Name: "boot-1", URLPath: "/boot"}

	update(t, repo, func(reg *registry.Registry) {
		_, err := reg.Service(3)
		assert.ErrorIs(t, err, model.ErrServiceNotFound)
		require.NoError(t, reg.PutService(svc))
	})

	update(t, repo, func(reg *registry.Registry) {
		got, err := reg.Service(3)
		require.NoError(t, err)
		assert.Equal(t, svc, got)

		all, err := reg.Services()
		require.NoError(t, err)
		assert.Equal(t, []model.Service{svc}, all)
	})
}

func TestMembersAndMonitors(t *testing.T) {
	repo := inmemory_kv_state.New()

	update(t, repo, func(reg *registry.Registry) {
		found, err := reg.HasMember("alice")
		require.NoError(t, err)
		assert.False(t, found)

		_, err = reg.Member("alice")
		assert.ErrorIs(t, err, model.ErrMemberNotFound)
		_, err = reg.Monitor("alice")
		assert.ErrorIs(t, err, model.ErrMonitorNotFound)

		require.NoError(t, reg.PutMember("alice", model.Member{ID: 0, Name: "Alice"}))
		require.NoError(t, reg.PutMonitor(model.Monitor{Account: "alice", Name: "mon-a"}))
	})

	update(t, repo, func(reg *registry.Registry) {
		m, err := reg.Member("alice")
		require.NoError(t, err)
		assert.Equal(t, model.BoundedString("Alice"), m.Name)

		found, err := reg.HasMonitor("alice")
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestHealthChecks_DefaultEmpty(t *testing.T) {
	repo := inmemory_kv_state.New()

	update(t, repo, func(reg *registry.Registry) {
		hcs, err := reg.HealthChecks(0, "alice")
		require.NoError(t, err)
		assert.Equal(t, 0, hcs.Len())
		assert.Equal(t, model.MaxHealthChecks, hcs.Cap)

		hcs, err = hcs.TryPush("health checks", model.HealthCheck{Timestamp: 10, Status: true})
		require.NoError(t, err)
		require.NoError(t, reg.PutHealthChecks(0, "alice", hcs))
	})

	update(t, repo, func(reg *registry.Registry) {
		hcs, err := reg.HealthChecks(0, "alice")
		require.NoError(t, err)
		require.Equal(t, 1, hcs.Len())
		assert.Equal(t, uint64(10), hcs.Items[0].Timestamp)

		other, err := reg.HealthChecks(0, "bob")
		require.NoError(t, err)
		assert.Equal(t, 0, other.Len())
	})
}

func TestEvents_OrderedAndPaged(t *testing.T) {
	repo := inmemory_kv_state.New()

	update(t, repo, func(reg *registry.Registry) {
		for i := range 12 {
			rec, err := reg.AppendEvent(model.ServiceRegistered{ID: model.ServiceID(i)})
			require.NoError(t, err)
			assert.Equal(t, uint64(i), rec.Seq)
		}
	})

	update(t, repo, func(reg *registry.Registry) {
		page, err := reg.Events(10, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(10), page[0].Seq)
		assert.Equal(t, model.ServiceRegistered{ID: 11}, page[1].Event)

		page, err = reg.Events(2, 3)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, uint64(4), page[2].Seq)
	})
}

func TestDigest_ChangesWithState(t *testing.T) {
	a := inmemory_kv_state.New()
	b := inmemory_kv_state.New()

	var da, db string
	fill := func(reg *registry.Registry) {
		require.NoError(t, reg.PutMember("alice", model.Member{Name: "Alice"}))
	}
	update(t, a, fill)
	update(t, b, fill)

	update(t, a, func(reg *registry.Registry) {
		var err error
		da, err = reg.Digest()
		require.NoError(t, err)
	})
	update(t, b, func(reg *registry.Registry) {
		var err error
		db, err = reg.Digest()
		require.NoError(t, err)
	})
	assert.Equal(t, da, db)

	update(t, b, func(reg *registry.Registry) {
		require.NoError(t, reg.PutMember("bob", model.Member{ID: 1, Name: "Bob"}))
		changed, err := reg.Digest()
		require.NoError(t, err)
		assert.NotEqual(t, da, changed)
	})
}
