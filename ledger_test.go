package ibp_test

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/horockey/ibp"
	"github.com/horockey/ibp/internal/controller/http_controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubController struct {
	started chan *ibp.Processor
}

func (c *stubController) Metrics() []prometheus.Collector { return nil }

func (c *stubController) Start(ctx context.Context, proc *ibp.Processor) error {
	c.started <- proc
	<-ctx.Done()
	return nil
}

func TestNewLedger_Options(t *testing.T) {
	_, err := ibp.NewLedger("k", "a", ibp.WithServicePort(0))
	assert.Error(t, err)

	_, err = ibp.NewLedger("k", "a", ibp.WithBadgerDir(""))
	assert.Error(t, err)

	_, err = ibp.NewLedger("k", "a", ibp.WithRewardAmount(big.NewInt(-1)))
	assert.Error(t, err)

	tooLarge := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err = ibp.NewLedger("k", "a", ibp.WithRewardAmount(tooLarge))
	assert.Error(t, err)

	l, err := ibp.NewLedger("k", "a", ibp.WithRewardAmount(new(big.Int).Sub(tooLarge, big.NewInt(1))))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = ibp.NewLedger("k", "a", ibp.WithController(nil))
	assert.Error(t, err)
}

func TestLedger_InMemory(t *testing.T) {
	var events []ibp.EventRecord
	l, err := ibp.NewLedger("k", "a",
		ibp.WithLogger(zerolog.Nop()),
		ibp.WithRewardAmount(big.NewInt(100)),
		ibp.WithEventHandler(func(rec ibp.EventRecord) { events = append(events, rec) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	id, err := l.RegisterService(ibp.RootOrigin(), ibp.ServiceKindRPC, "rpc-1", "/rpc")
	require.NoError(t, err)
	assert.Equal(t, ibp.ServiceID(0), id)

	_, err = l.RegisterMember(ibp.SignedOrigin("alice"), "Alice")
	require.NoError(t, err)
	_, err = l.RegisterMember(ibp.SignedOrigin("alice"), "Alice")
	assert.ErrorIs(t, err, ibp.ErrMemberAlreadyRegistered)

	_, err = l.RegisterMemberService(ibp.SignedOrigin("bob"), 0, "x", "y", 1)
	assert.ErrorIs(t, err, ibp.ErrMemberNotFound)

	err = l.SubmitHealthCheck(ibp.SignedOrigin("alice"), 0, 1, true, 1)
	assert.ErrorIs(t, err, ibp.ErrMonitorNotFound)

	assert.ErrorIs(t, l.Mint(ibp.SignedOrigin("alice")), ibp.ErrMintDisabled)

	assert.Len(t, events, 2)
	assert.NotEmpty(t, l.Metrics())
}

func TestLedger_BadgerPersists(t *testing.T) {
	dir := t.TempDir()

	l, err := ibp.NewLedger("k", "a", ibp.WithLogger(zerolog.Nop()), ibp.WithBadgerDir(dir), ibp.WithTestMode(true))
	require.NoError(t, err)

	_, err = l.RegisterMember(ibp.SignedOrigin("alice"), "Alice")
	require.NoError(t, err)
	require.NoError(t, l.Mint(ibp.SignedOrigin("alice")))

	digest, err := l.Digest()
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = ibp.NewLedger("k", "a", ibp.WithLogger(zerolog.Nop()), ibp.WithBadgerDir(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	reopened, err := l.Digest()
	require.NoError(t, err)
	assert.Equal(t, digest, reopened)

	m, err := l.Member("alice")
	require.NoError(t, err)
	assert.Equal(t, ibp.MemberID(0), m.ID)

	bal, err := l.Balance("alice")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Cmp(big.NewInt(1)))

	id, err := l.RegisterMember(ibp.SignedOrigin("bob"), "Bob")
	require.NoError(t, err)
	assert.Equal(t, ibp.MemberID(1), id)
}

func TestLedger_Start(t *testing.T) {
	ctrl := &stubController{started: make(chan *ibp.Processor, 1)}
	l, err := ibp.NewLedger("k", "a", ibp.WithLogger(zerolog.Nop()), ibp.WithController(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	select {
	case proc := <-ctrl.started:
		assert.Same(t, l.Processor, proc)
	case <-time.After(time.Second):
		t.Fatal("controller was not started")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("ledger did not stop")
	}
}

func TestRemote(t *testing.T) {
	_, err := ibp.NewRemote("", "k")
	assert.Error(t, err)

	_, err = ibp.NewRemote("http://localhost:7000", "k", ibp.WithRemoteTimeout(0))
	assert.Error(t, err)

	l, err := ibp.NewLedger("k", "a", ibp.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	srv := httptest.NewServer(http_controller.New("127.0.0.1:0", "k", "a", zerolog.Nop()).Handler(l.Processor))
	t.Cleanup(srv.Close)

	remote, err := ibp.NewRemote(srv.URL, "k", ibp.WithRemoteAdminKey("a"), ibp.WithRemoteTimeout(time.Second*5))
	require.NoError(t, err)

	ctx := context.Background()
	rcpt, err := remote.Submit(ctx, ibp.RootOrigin(), ibp.RegisterService{ServiceKind: ibp.ServiceKindRPC, Name: "rpc-1", URLPath: "/rpc"})
	require.NoError(t, err)
	require.NotNil(t, rcpt.ID)

	_, err = remote.Submit(ctx, ibp.SignedOrigin("alice"), ibp.RegisterMonitor{Name: "mon"})
	assert.ErrorIs(t, err, ibp.ErrMemberNotFound)

	svc, err := l.Service(ibp.ServiceID(*rcpt.ID))
	require.NoError(t, err)
	assert.Equal(t, ibp.ServiceKindRPC, svc.Kind)
}
