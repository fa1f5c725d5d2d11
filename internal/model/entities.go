package model

import "fmt"

type ServiceKind string

const (
	ServiceKindRPC      ServiceKind = "rpc"
	ServiceKindBootNode ServiceKind = "boot_node"
)

func ParseServiceKind(s string) (ServiceKind, error) {
	switch k := ServiceKind(s); k {
	case ServiceKindRPC, ServiceKindBootNode:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidServiceKind, s)
	}
}

func (k ServiceKind) IsValid() bool {
	return k == ServiceKindRPC || k == ServiceKindBootNode
}

type Service struct {
	ID      ServiceID     `json:"id"`
	Kind    ServiceKind   `json:"kind"`
	Name    BoundedString `json:"name"`
	URLPath BoundedString `json:"url_path"`
}

type Member struct {
	ID   MemberID      `json:"id"`
	Name BoundedString `json:"name"`
}

type MemberService struct {
	ID        MemberServiceID `json:"id"`
	ServiceID ServiceID       `json:"service_id"`
	MemberID  MemberID        `json:"member_id"`
	Name      BoundedString   `json:"name"`
	Address   BoundedString   `json:"address"`
	Port      uint16          `json:"port"`
}

type Monitor struct {
	Account AccountID     `json:"account"`
	Name    BoundedString `json:"name"`
}

type HealthCheck struct {
	MemberServiceID MemberServiceID `json:"member_service_id"`
	Timestamp       uint64          `json:"timestamp"`
	Status          bool            `json:"status"`
	ResponseTimeMs  uint32          `json:"response_time_ms"`
}

// HealthChecks is the history one monitor holds for one member service, oldest first.
type HealthChecks = BoundedSeq[HealthCheck]
