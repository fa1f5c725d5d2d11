package http_remote_ledger_test

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/horockey/ibp/internal/balances"
	"github.com/horockey/ibp/internal/controller/http_controller"
	"github.com/horockey/ibp/internal/gateway/remote_ledger"
	"github.com/horockey/ibp/internal/gateway/remote_ledger/http_remote_ledger"
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/processor"
	"github.com/horockey/ibp/internal/repository/kv_state/inmemory_kv_state"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiKey   = "api-key"
	adminKey = "admin-key"
)

func newGateway(t *testing.T) (remote_ledger.Gateway, *processor.Processor) {
	t.Helper()

	pr := processor.New(
		inmemory_kv_state.New(),
		balances.New(),
		processor.DefaultOriginVerifier(),
		big.NewInt(3),
		true,
		nil,
		zerolog.Nop(),
	)
	ctrl := http_controller.New("127.0.0.1:0", apiKey, adminKey, zerolog.Nop())

	srv := httptest.NewServer(ctrl.Handler(pr))
	t.Cleanup(srv.Close)

	return http_remote_ledger.New(srv.URL, apiKey, adminKey, time.Second*5, zerolog.Nop()), pr
}

func TestSubmitAndQuery(t *testing.T) {
	gw, pr := newGateway(t)
	ctx := context.Background()
	alice := model.SignedOrigin("alice")

	rcpt, err := gw.Submit(ctx, model.RootOrigin(), model.RegisterService{ServiceKind: model.ServiceKindBootNode, Name: "boot-1", URLPath: "/boot"})
	require.NoError(t, err)
	require.NotNil(t, rcpt.ID)
	assert.Equal(t, uint32(0), *rcpt.ID)
	require.Len(t, rcpt.Events, 1)
	assert.Equal(t, model.ServiceRegistered{ID: 0, Name: "boot-1"}, rcpt.Events[0].Event)

	_, err = gw.Submit(ctx, alice, model.RegisterMember{Name: "Alice"})
	require.NoError(t, err)
	_, err = gw.Submit(ctx, alice, model.RegisterMemberService{ServiceID: 0, Name: "alice-boot", Address: "boot.alice.example", Port: 30333})
	require.NoError(t, err)
	_, err = gw.Submit(ctx, alice, model.RegisterMonitor{Target: "alice", Name: "mon"})
	require.NoError(t, err)

	rcpt, err = gw.Submit(ctx, alice, model.SubmitHealthCheck{MemberServiceID: 0, Timestamp: 1, Status: true, ResponseTimeMs: 4})
	require.NoError(t, err)
	assert.Nil(t, rcpt.ID)
	require.Len(t, rcpt.Events, 1)
	assert.Equal(t, model.HealthCheckSubmitted{MemberServiceName: "alice-boot", MonitorName: "mon"}, rcpt.Events[0].Event)

	_, err = gw.Submit(ctx, alice, model.Mint{})
	require.NoError(t, err)

	svc, err := gw.Service(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Service{ID: 0, Kind: model.ServiceKindBootNode, Name: "boot-1", URLPath: "/boot"}, svc)

	svcs, err := gw.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Service{svc}, svcs)

	m, err := gw.Member(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.Member{ID: 0, Name: "Alice"}, m)

	ms, err := gw.MemberService(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, model.MemberService{ID: 0, Name: "alice-boot", Address: "boot.alice.example", Port: 30333}, ms)

	mss, err := gw.MemberServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.MemberService{ms}, mss)

	mon, err := gw.Monitor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.Monitor{Account: "alice", Name: "mon"}, mon)

	checks, err := gw.HealthChecks(ctx, 0, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.HealthCheck{{MemberServiceID: 0, Timestamp: 1, Status: true, ResponseTimeMs: 4}}, checks)

	bal, err := gw.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Cmp(big.NewInt(6)))

	evs, err := gw.Events(ctx, 0, 0)
	require.NoError(t, err)
	local, err := pr.Events(0, 0)
	require.NoError(t, err)
	assert.Equal(t, local, evs)

	digest, err := gw.Digest(ctx)
	require.NoError(t, err)
	localDigest, err := pr.Digest()
	require.NoError(t, err)
	assert.Equal(t, localDigest, digest)
}

func TestTypedErrors(t *testing.T) {
	gw, _ := newGateway(t)
	ctx := context.Background()

	_, err := gw.Submit(ctx, model.SignedOrigin("bob"), model.RegisterService{ServiceKind: model.ServiceKindRPC})
	assert.ErrorIs(t, err, model.ErrNotRoot)

	_, err = gw.Submit(ctx, model.SignedOrigin("bob"), model.RegisterMemberService{ServiceID: 0, Name: "x", Address: "y"})
	assert.ErrorIs(t, err, model.ErrServiceNotFound)

	_, err = gw.Submit(ctx, model.SignedOrigin("bob"), model.SubmitHealthCheck{MemberServiceID: 0})
	assert.ErrorIs(t, err, model.ErrMonitorNotFound)

	_, err = gw.Submit(ctx, model.NoneOrigin(), model.Mint{})
	assert.ErrorIs(t, err, model.ErrNotSigned)

	_, err = gw.Member(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrMemberNotFound)

	_, err = gw.MemberService(ctx, 9)
	assert.ErrorIs(t, err, model.ErrMemberServiceNotFound)
}

func TestWrongAPIKey(t *testing.T) {
	pr := processor.New(inmemory_kv_state.New(), balances.New(), nil, nil, false, nil, zerolog.Nop())
	srv := httptest.NewServer(http_controller.New("127.0.0.1:0", apiKey, adminKey, zerolog.Nop()).Handler(pr))
	t.Cleanup(srv.Close)

	gw := http_remote_ledger.New(srv.URL, "wrong", "", time.Second, zerolog.Nop())
	_, err := gw.Digest(context.Background())
	assert.Error(t, err)
}
