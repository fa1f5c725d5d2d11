package processor

import (
	"fmt"

	"github.com/horockey/ibp/internal/model"
)

// Result is the outcome of one call of a block.
type Result struct {
	Receipt model.Receipt
	Err     error
}

// Dispatch routes call to its handler. Calls are applied one at a time
// in the order Dispatch is entered. Events go to the EventHandler once the
// call is applied.
func (pr *Processor) Dispatch(call model.Call) (model.Receipt, error) {
	if call.Action == nil {
		return model.Receipt{}, model.InvalidInputError{Field: "action"}
	}

	pr.mu.Lock()
	rcpt, err := pr.apply(call)
	pr.mu.Unlock()

	if pr.onEvent != nil {
		pr.deliver()
	}

	return rcpt, err
}

func (pr *Processor) apply(call model.Call) (model.Receipt, error) {
	rcpt := model.Receipt{Kind: call.Action.Kind()}
	var err error

	switch act := call.Action.(type) {
	case model.RegisterService:
		rcpt.ID, rcpt.Events, err = pr.registerService(call.Origin, act)
	case model.RegisterMember:
		rcpt.ID, rcpt.Events, err = pr.registerMember(call.Origin, act)
	case model.RegisterMemberService:
		rcpt.ID, rcpt.Events, err = pr.registerMemberService(call.Origin, act)
	case model.RegisterMonitor:
		rcpt.Events, err = pr.registerMonitor(call.Origin, act)
	case model.SubmitHealthCheck:
		rcpt.Events, err = pr.submitHealthCheck(call.Origin, act)
	case model.Mint:
		err = pr.mint(call.Origin, act)
	default:
		err = model.InvalidInputError{Field: fmt.Sprintf("action %T", act)}
	}

	l := pr.Logger.With().
		Str("action", string(rcpt.Kind)).
		Bool("root", call.Origin.Root).
		Str("signer", string(call.Origin.Signer)).
		Logger()

	switch {
	case err == nil:
		l.Debug().Int("events", len(rcpt.Events)).Msg("action committed")
		if rcpt.Events == nil {
			rcpt.Events = []model.EventRecord{}
		}
		return rcpt, nil
	case IsRejection(err):
		l.Info().Err(err).Msg("action rejected")
	default:
		l.Error().Err(fmt.Errorf("applying %s: %w", rcpt.Kind, err)).Send()
	}

	return model.Receipt{Kind: rcpt.Kind}, err
}

// ApplyBlock applies calls in order. Every call is independent: a failing
// call leaves no trace and does not stop the rest.
func (pr *Processor) ApplyBlock(calls []model.Call) []Result {
	res := make([]Result, 0, len(calls))
	for _, call := range calls {
		rcpt, err := pr.Dispatch(call)
		res = append(res, Result{Receipt: rcpt, Err: err})
	}
	return res
}

func (pr *Processor) RegisterService(origin model.Origin, kind model.ServiceKind, name, urlPath string) (model.ServiceID, error) {
	rcpt, err := pr.Dispatch(model.Call{
		Origin: origin,
		Action: model.RegisterService{ServiceKind: kind, Name: name, URLPath: urlPath},
	})
	if err != nil {
		return 0, err
	}
	return model.ServiceID(*rcpt.ID), nil
}

func (pr *Processor) RegisterMember(origin model.Origin, name string) (model.MemberID, error) {
	rcpt, err := pr.Dispatch(model.Call{
		Origin: origin,
		Action: model.RegisterMember{Name: name},
	})
	if err != nil {
		return 0, err
	}
	return model.MemberID(*rcpt.ID), nil
}

func (pr *Processor) RegisterMemberService(
	origin model.Origin,
	serviceID model.ServiceID,
	name string,
	address string,
	port uint16,
) (model.MemberServiceID, error) {
	rcpt, err := pr.Dispatch(model.Call{
		Origin: origin,
		Action: model.RegisterMemberService{ServiceID: serviceID, Name: name, Address: address, Port: port},
	})
	if err != nil {
		return 0, err
	}
	return model.MemberServiceID(*rcpt.ID), nil
}

// RegisterMonitor registers the caller as a monitor. target may be empty
// or the caller itself.
func (pr *Processor) RegisterMonitor(origin model.Origin, target model.AccountID, name string) error {
	_, err := pr.Dispatch(model.Call{
		Origin: origin,
		Action: model.RegisterMonitor{Target: target, Name: name},
	})
	return err
}

func (pr *Processor) SubmitHealthCheck(
	origin model.Origin,
	memberServiceID model.MemberServiceID,
	timestamp uint64,
	status bool,
	responseTimeMs uint32,
) error {
	_, err := pr.Dispatch(model.Call{
		Origin: origin,
		Action: model.SubmitHealthCheck{
			MemberServiceID: memberServiceID,
			Timestamp:       timestamp,
			Status:          status,
			ResponseTimeMs:  responseTimeMs,
		},
	})
	return err
}

func (pr *Processor) Mint(origin model.Origin) error {
	_, err := pr.Dispatch(model.Call{Origin: origin, Action: model.Mint{}})
	return err
}
