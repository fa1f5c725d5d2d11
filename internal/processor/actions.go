package processor

import (
	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/registry"
	"github.com/horockey/ibp/internal/repository/kv_state"
)

func (pr *Processor) registerService(origin model.Origin, act model.RegisterService) (*uint32, []model.EventRecord, error) {
	if err := pr.verifier.EnsureRoot(origin); err != nil {
		return nil, nil, err
	}
	if !act.ServiceKind.IsValid() {
		return nil, nil, model.ErrInvalidServiceKind
	}

	name, err := model.NewBoundedString("service name", act.Name, model.MaxServiceNameLen)
	if err != nil {
		return nil, nil, err
	}
	urlPath, err := model.NewBoundedString("service url path", act.URLPath, model.MaxServiceURLPathLen)
	if err != nil {
		return nil, nil, err
	}

	var id uint32
	recs, err := pr.commit(act.Kind(), func(reg *registry.Registry, _ kv_state.Txn) (model.Event, error) {
		var err error
		if id, err = reg.NextID(model.KindService); err != nil {
			return nil, err
		}

		svc := model.Service{
			ID:      model.ServiceID(id),
			Kind:    act.ServiceKind,
			Name:    name,
			URLPath: urlPath,
		}
		if err := reg.PutService(svc); err != nil {
			return nil, err
		}

		return model.ServiceRegistered{ID: svc.ID, Name: name}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &id, recs, nil
}

func (pr *Processor) registerMember(origin model.Origin, act model.RegisterMember) (*uint32, []model.EventRecord, error) {
	who, err := pr.verifier.EnsureSigned(origin)
	if err != nil {
		return nil, nil, err
	}

	name, err := model.NewBoundedString("member name", act.Name, model.MaxMemberNameLen)
	if err != nil {
		return nil, nil, err
	}

	var id uint32
	recs, err := pr.commit(act.Kind(), func(reg *registry.Registry, _ kv_state.Txn) (model.Event, error) {
		found, err := reg.HasMember(who)
		if err != nil {
			return nil, err
		}
		if found {
			return nil, model.ErrMemberAlreadyRegistered
		}
		if name.IsEmpty() {
			return nil, model.ErrInvalidMemberName
		}

		if id, err = reg.NextID(model.KindMember); err != nil {
			return nil, err
		}
		if err := reg.PutMember(who, model.Member{ID: model.MemberID(id), Name: name}); err != nil {
			return nil, err
		}

		return model.MemberRegistered{Account: who, ID: model.MemberID(id), Name: name}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &id, recs, nil
}

func (pr *Processor) registerMemberService(origin model.Origin, act model.RegisterMemberService) (*uint32, []model.EventRecord, error) {
	who, err := pr.verifier.EnsureSigned(origin)
	if err != nil {
		return nil, nil, err
	}

	name, err := model.NewBoundedString("member service name", act.Name, model.MaxMemberServiceNameLen)
	if err != nil {
		return nil, nil, err
	}
	address, err := model.NewBoundedString("address", act.Address, model.MaxAddressLen)
	if err != nil {
		return nil, nil, err
	}

	var id uint32
	recs, err := pr.commit(act.Kind(), func(reg *registry.Registry, _ kv_state.Txn) (model.Event, error) {
		if _, err := reg.Service(act.ServiceID); err != nil {
			return nil, err
		}
		member, err := reg.Member(who)
		if err != nil {
			return nil, err
		}
		if address.IsEmpty() {
			return nil, model.ErrInvalidAddress
		}

		if id, err = reg.NextID(model.KindMemberService); err != nil {
			return nil, err
		}

		ms := model.MemberService{
			ID:        model.MemberServiceID(id),
			ServiceID: act.ServiceID,
			MemberID:  member.ID,
			Name:      name,
			Address:   address,
			Port:      act.Port,
		}
		if err := reg.PutMemberService(ms); err != nil {
			return nil, err
		}

		return model.MemberServiceRegistered{
			ServiceID: ms.ServiceID,
			MemberID:  ms.MemberID,
			ID:        ms.ID,
			Name:      name,
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &id, recs, nil
}

// registerMonitor only lets a member register itself.
func (pr *Processor) registerMonitor(origin model.Origin, act model.RegisterMonitor) ([]model.EventRecord, error) {
	who, err := pr.verifier.EnsureSigned(origin)
	if err != nil {
		return nil, err
	}
	if act.Target != "" && act.Target != who {
		return nil, model.ErrForeignMonitor
	}

	name, err := model.NewBoundedString("monitor name", act.Name, model.MaxMonitorNameLen)
	if err != nil {
		return nil, err
	}

	return pr.commit(act.Kind(), func(reg *registry.Registry, _ kv_state.Txn) (model.Event, error) {
		isMember, err := reg.HasMember(who)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, model.ErrMemberNotFound
		}

		isMonitor, err := reg.HasMonitor(who)
		if err != nil {
			return nil, err
		}
		if isMonitor {
			return nil, model.ErrMonitorAlreadyRegistered
		}

		if err := reg.PutMonitor(model.Monitor{Account: who, Name: name}); err != nil {
			return nil, err
		}

		return model.MonitorRegistered{Who: who, Name: name}, nil
	})
}

func (pr *Processor) submitHealthCheck(origin model.Origin, act model.SubmitHealthCheck) ([]model.EventRecord, error) {
	who, err := pr.verifier.EnsureSigned(origin)
	if err != nil {
		return nil, err
	}

	return pr.commit(act.Kind(), func(reg *registry.Registry, txn kv_state.Txn) (model.Event, error) {
		monitor, err := reg.Monitor(who)
		if err != nil {
			return nil, err
		}
		ms, err := reg.MemberService(act.MemberServiceID)
		if err != nil {
			return nil, err
		}

		checks, err := reg.HealthChecks(act.MemberServiceID, who)
		if err != nil {
			return nil, err
		}
		checks, err = checks.TryPush("health checks", model.HealthCheck{
			MemberServiceID: act.MemberServiceID,
			Timestamp:       act.Timestamp,
			Status:          act.Status,
			ResponseTimeMs:  act.ResponseTimeMs,
		})
		if err != nil {
			return nil, model.ErrHealthChecksFull
		}
		if err := reg.PutHealthChecks(act.MemberServiceID, who, checks); err != nil {
			return nil, err
		}

		if err := pr.rewards.IssueReward(txn, who, pr.rewardAmount); err != nil {
			return nil, err
		}

		return model.HealthCheckSubmitted{MemberServiceName: ms.Name, MonitorName: monitor.Name}, nil
	})
}

// mint credits one reward to the caller. Available in test mode only.
func (pr *Processor) mint(origin model.Origin, act model.Mint) error {
	who, err := pr.verifier.EnsureSigned(origin)
	if err != nil {
		return err
	}
	if !pr.testMode {
		return model.ErrMintDisabled
	}

	_, err = pr.commit(act.Kind(), func(_ *registry.Registry, txn kv_state.Txn) (model.Event, error) {
		return nil, pr.rewards.IssueReward(txn, who, pr.rewardAmount)
	})
	return err
}
