package remote_ledger

import (
	"context"
	"math/big"

	"github.com/horockey/ibp/internal/model"
)

// Gateway drives a ledger node over the network.
type Gateway interface {
	model.MetricsProvider
	Submit(ctx context.Context, origin model.Origin, action model.Action) (model.Receipt, error)

	Service(ctx context.Context, id model.ServiceID) (model.Service, error)
	Services(ctx context.Context) ([]model.Service, error)
	Member(ctx context.Context, account model.AccountID) (model.Member, error)
	MemberService(ctx context.Context, id model.MemberServiceID) (model.MemberService, error)
	MemberServices(ctx context.Context) ([]model.MemberService, error)
	Monitor(ctx context.Context, account model.AccountID) (model.Monitor, error)
	HealthChecks(ctx context.Context, id model.MemberServiceID, monitor model.AccountID) ([]model.HealthCheck, error)
	Balance(ctx context.Context, account model.AccountID) (*big.Int, error)
	Events(ctx context.Context, from uint64, limit int) ([]model.EventRecord, error)
	Digest(ctx context.Context) (string, error)
}
