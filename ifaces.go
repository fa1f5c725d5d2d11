package ibp

import (
	"context"

	"github.com/horockey/ibp/internal/gateway/remote_ledger"
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/processor"
)

type (
	Processor      = processor.Processor
	RewardIssuer   = processor.RewardIssuer
	OriginVerifier = processor.OriginVerifier
	EventHandler   = processor.EventHandler
	Result         = processor.Result
	Remote         = remote_ledger.Gateway
)

type Controller interface {
	model.MetricsProvider
	Start(ctx context.Context, proc *Processor) error
}

type (
	AccountID       = model.AccountID
	ServiceID       = model.ServiceID
	MemberID        = model.MemberID
	MemberServiceID = model.MemberServiceID
	ServiceKind     = model.ServiceKind

	Origin        = model.Origin
	Service       = model.Service
	Member        = model.Member
	MemberService = model.MemberService
	Monitor       = model.Monitor
	HealthCheck   = model.HealthCheck

	Action                = model.Action
	Call                  = model.Call
	Receipt               = model.Receipt
	RegisterService       = model.RegisterService
	RegisterMember        = model.RegisterMember
	RegisterMemberService = model.RegisterMemberService
	RegisterMonitor       = model.RegisterMonitor
	SubmitHealthCheck     = model.SubmitHealthCheck
	Mint                  = model.Mint

	Event                   = model.Event
	EventRecord             = model.EventRecord
	ServiceRegistered       = model.ServiceRegistered
	MemberRegistered        = model.MemberRegistered
	MemberServiceRegistered = model.MemberServiceRegistered
	MonitorRegistered       = model.MonitorRegistered
	HealthCheckSubmitted    = model.HealthCheckSubmitted
)

const (
	ServiceKindRPC      = model.ServiceKindRPC
	ServiceKindBootNode = model.ServiceKindBootNode
)

var (
	RootOrigin   = model.RootOrigin
	SignedOrigin = model.SignedOrigin
	NoneOrigin   = model.NoneOrigin
)
