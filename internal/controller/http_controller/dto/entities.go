package dto

import (
	"fmt"
	"math/big"

	"github.com/horockey/ibp/internal/model"
)

type Service struct {
	ID      model.ServiceID   `json:"id"`
	Kind    model.ServiceKind `json:"kind"`
	Name    string            `json:"name"`
	URLPath string            `json:"url_path"`
}

func NewService(svc model.Service) Service {
	return Service{
		ID:      svc.ID,
		Kind:    svc.Kind,
		Name:    svc.Name.String(),
		URLPath: svc.URLPath.String(),
	}
}

func ServiceToModel(svc Service) model.Service {
	return model.Service{
		ID:      svc.ID,
		Kind:    svc.Kind,
		Name:    model.BoundedString(svc.Name),
		URLPath: model.BoundedString(svc.URLPath),
	}
}

type Member struct {
	ID   model.MemberID `json:"id"`
	Name string         `json:"name"`
}

func NewMember(m model.Member) Member {
	return Member{ID: m.ID, Name: m.Name.String()}
}

func MemberToModel(m Member) model.Member {
	return model.Member{ID: m.ID, Name: model.BoundedString(m.Name)}
}

type MemberService struct {
	ID        model.MemberServiceID `json:"id"`
	ServiceID model.ServiceID       `json:"service_id"`
	MemberID  model.MemberID        `json:"member_id"`
	Name      string                `json:"name"`
	Address   string                `json:"address"`
	Port      uint16                `json:"port"`
}

func NewMemberService(ms model.MemberService) MemberService {
	return MemberService{
		ID:        ms.ID,
		ServiceID: ms.ServiceID,
		MemberID:  ms.MemberID,
		Name:      ms.Name.String(),
		Address:   ms.Address.String(),
		Port:      ms.Port,
	}
}

func MemberServiceToModel(ms MemberService) model.MemberService {
	return model.MemberService{
		ID:        ms.ID,
		ServiceID: ms.ServiceID,
		MemberID:  ms.MemberID,
		Name:      model.BoundedString(ms.Name),
		Address:   model.BoundedString(ms.Address),
		Port:      ms.Port,
	}
}

type Monitor struct {
	Account model.AccountID `json:"account"`
	Name    string          `json:"name"`
}

func NewMonitor(m model.Monitor) Monitor {
	return Monitor{Account: m.Account, Name: m.Name.String()}
}

func MonitorToModel(m Monitor) model.Monitor {
	return model.Monitor{Account: m.Account, Name: model.BoundedString(m.Name)}
}

type HealthCheck struct {
	MemberServiceID model.MemberServiceID `json:"member_service_id"`
	Timestamp       uint64                `json:"timestamp"`
	Status          bool                  `json:"status"`
	ResponseTimeMs  uint32                `json:"response_time_ms"`
}

func NewHealthCheck(hc model.HealthCheck) HealthCheck {
	return HealthCheck(hc)
}

func HealthCheckToModel(hc HealthCheck) model.HealthCheck {
	return model.HealthCheck(hc)
}

// Balance carries the amount as a decimal string, it does not fit into a JSON number.
type Balance struct {
	Account model.AccountID `json:"account"`
	Amount  string          `json:"amount"`
}

func NewBalance(acc model.AccountID, amount *big.Int) Balance {
	return Balance{Account: acc, Amount: amount.String()}
}

func BalanceToModel(b Balance) (*big.Int, error) {
	res, ok := new(big.Int).SetString(b.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("parsing amount %q", b.Amount)
	}
	return res, nil
}

type Digest struct {
	Digest string `json:"digest"`
}
