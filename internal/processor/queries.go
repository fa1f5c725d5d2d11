package processor

import (
	"fmt"
	"math/big"

	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/registry"
	"github.com/horockey/ibp/internal/repository/kv_state"
)

func (pr *Processor) Service(id model.ServiceID) (res model.Service, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Service(id)
		return err
	})
	return res, resErr
}

func (pr *Processor) Services() (res []model.Service, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Services()
		return err
	})
	return res, resErr
}

func (pr *Processor) Member(account model.AccountID) (res model.Member, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Member(account)
		return err
	})
	return res, resErr
}

func (pr *Processor) MemberService(id model.MemberServiceID) (res model.MemberService, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.MemberService(id)
		return err
	})
	return res, resErr
}

func (pr *Processor) MemberServices() (res []model.MemberService, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.MemberServices()
		return err
	})
	return res, resErr
}

func (pr *Processor) Monitor(account model.AccountID) (res model.Monitor, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Monitor(account)
		return err
	})
	return res, resErr
}

// HealthChecks returns the history monitor holds for memberServiceID, oldest first.
// Unknown pairs yield an empty slice.
func (pr *Processor) HealthChecks(memberServiceID model.MemberServiceID, monitor model.AccountID) ([]model.HealthCheck, error) {
	var res model.HealthChecks
	err := pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.HealthChecks(memberServiceID, monitor)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Len() == 0 {
		return []model.HealthCheck{}, nil
	}
	return res.Slice(), nil
}

func (pr *Processor) Balance(account model.AccountID) (res *big.Int, resErr error) {
	resErr = pr.view(func(_ *registry.Registry, txn kv_state.Txn) (err error) {
		res, err = pr.rewards.Balance(txn, account)
		return err
	})
	return res, resErr
}

// Events returns up to limit committed events starting at seq from.
func (pr *Processor) Events(from uint64, limit int) (res []model.EventRecord, resErr error) {
	resErr = pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Events(from, limit)
		return err
	})
	return res, resErr
}

// Digest fingerprints the whole state. Ledgers fed the same calls in the same
// order report the same digest.
func (pr *Processor) Digest() (string, error) {
	var res string
	err := pr.view(func(reg *registry.Registry, _ kv_state.Txn) (err error) {
		res, err = reg.Digest()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("computing digest: %w", err)
	}
	return res, nil
}
