// Package registry maps ledger entities onto the key-value state.
// A Registry is bound to one txn and must not outlive it.
package registry

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/horockey/ibp/internal/model"
	"github.com/horockey/ibp/internal/repository/kv_state"
)

var errStopScan = errors.New("stop scan")

type Registry struct {
	txn kv_state.Txn
}

func New(txn kv_state.Txn) *Registry {
	return &Registry{txn: txn}
}

// NextID returns the current counter value for kind and advances it.
// Call it only after every precondition of the creating action holds.
func (r *Registry) NextID(kind model.EntityKind) (uint32, error) {
	cur, err := r.PeekID(kind)
	if err != nil {
		return 0, err
	}

	if cur == math.MaxUint32 {
		return 0, model.CapacityExceededError{Field: string(kind) + " ids", Max: math.MaxUint32}
	}

	if err := r.txn.Set(counterKey(kind), cur+1); err != nil {
		return 0, fmt.Errorf("setting %s counter: %w", kind, err)
	}

	return cur, nil
}

// PeekID returns the id the next creation of kind would get.
func (r *Registry) PeekID(kind model.EntityKind) (uint32, error) {
	var cur uint32
	if err := r.get(counterKey(kind), &cur); err != nil && !isNotFound(err) {
		return 0, fmt.Errorf("getting %s counter: %w", kind, err)
	}
	return cur, nil
}

func (r *Registry) Service(id model.ServiceID) (model.Service, error) {
	res := model.Service{}
	if err := r.get(serviceKey(id), &res); err != nil {
		if isNotFound(err) {
			return model.Service{}, model.ErrServiceNotFound
		}
		return model.Service{}, fmt.Errorf("getting service %d: %w", id, err)
	}
	return res, nil
}

func (r *Registry) PutService(svc model.Service) error {
	if err := r.txn.Set(serviceKey(svc.ID), svc); err != nil {
		return fmt.Errorf("setting service %d: %w", svc.ID, err)
	}
	return nil
}

func (r *Registry) Services() ([]model.Service, error) {
	return scanAll[model.Service](r.txn, servicesPrefix)
}

func (r *Registry) Member(acc model.AccountID) (model.Member, error) {
	res := model.Member{}
	if err := r.get(memberKey(acc), &res); err != nil {
		if isNotFound(err) {
			return model.Member{}, model.ErrMemberNotFound
		}
		return model.Member{}, fmt.Errorf("getting member %s: %w", acc, err)
	}
	return res, nil
}

func (r *Registry) HasMember(acc model.AccountID) (bool, error) {
	found, err := r.txn.Has(memberKey(acc))
	if err != nil {
		return false, fmt.Errorf("checking member %s: %w", acc, err)
	}
	return found, nil
}

func (r *Registry) PutMember(acc model.AccountID, m model.Member) error {
	if err := r.txn.Set(memberKey(acc), m); err != nil {
		return fmt.Errorf("setting member %s: %w", acc, err)
	}
	return nil
}

func (r *Registry) MemberService(id model.MemberServiceID) (model.MemberService, error) {
	res := model.MemberService{}
	if err := r.get(memberServiceKey(id), &res); err != nil {
		if isNotFound(err) {
			return model.MemberService{}, model.ErrMemberServiceNotFound
		}
		return model.MemberService{}, fmt.Errorf("getting member service %d: %w", id, err)
	}
	return res, nil
}

func (r *Registry) PutMemberService(ms model.MemberService) error {
	if err := r.txn.Set(memberServiceKey(ms.ID), ms); err != nil {
		return fmt.Errorf("setting member service %d: %w", ms.ID, err)
	}
	return nil
}

func (r *Registry) MemberServices() ([]model.MemberService, error) {
	return scanAll[model.MemberService](r.txn, memberServicesPrefix)
}

func (r *Registry) Monitor(acc model.AccountID) (model.Monitor, error) {
	res := model.Monitor{}
	if err := r.get(monitorKey(acc), &res); err != nil {
		if isNotFound(err) {
			return model.Monitor{}, model.ErrMonitorNotFound
		}
		return model.Monitor{}, fmt.Errorf("getting monitor %s: %w", acc, err)
	}
	return res, nil
}

func (r *Registry) HasMonitor(acc model.AccountID) (bool, error) {
	found, err := r.txn.Has(monitorKey(acc))
	if err != nil {
		return false, fmt.Errorf("checking monitor %s: %w", acc, err)
	}
	return found, nil
}

func (r *Registry) PutMonitor(m model.Monitor) error {
	if err := r.txn.Set(monitorKey(m.Account), m); err != nil {
		return fmt.Errorf("setting monitor %s: %w", m.Account, err)
	}
	return nil
}

// HealthChecks returns the stored history or an empty one with default capacity.
func (r *Registry) HealthChecks(id model.MemberServiceID, acc model.AccountID) (model.HealthChecks, error) {
	res := model.HealthChecks{}
	if err := r.get(healthChecksKey(id, acc), &res); err != nil {
		if isNotFound(err) {
			return model.NewBoundedSeq[model.HealthCheck](model.MaxHealthChecks), nil
		}
		return model.HealthChecks{}, fmt.Errorf("getting health checks %d/%s: %w", id, acc, err)
	}
	return res, nil
}

func (r *Registry) PutHealthChecks(id model.MemberServiceID, acc model.AccountID, hcs model.HealthChecks) error {
	if hcs.Len() > model.MaxHealthChecks {
		return model.ErrHealthChecksFull
	}
	if err := r.txn.Set(healthChecksKey(id, acc), hcs); err != nil {
		return fmt.Errorf("setting health checks %d/%s: %w", id, acc, err)
	}
	return nil
}

// AppendEvent stores ev at the next position of the event log.
func (r *Registry) AppendEvent(ev model.Event) (model.EventRecord, error) {
	var seq uint64
	if err := r.get(counterKey(model.KindEvent), &seq); err != nil && !isNotFound(err) {
		return model.EventRecord{}, fmt.Errorf("getting event counter: %w", err)
	}

	rec := model.EventRecord{Seq: seq, Event: ev}
	if err := r.txn.Set(eventKey(seq), rec); err != nil {
		return model.EventRecord{}, fmt.Errorf("setting event %d: %w", seq, err)
	}
	if err := r.txn.Set(counterKey(model.KindEvent), seq+1); err != nil {
		return model.EventRecord{}, fmt.Errorf("setting event counter: %w", err)
	}

	return rec, nil
}

// Events returns up to limit records starting at seq from. Non-positive limit means no limit.
func (r *Registry) Events(from uint64, limit int) ([]model.EventRecord, error) {
	res := []model.EventRecord{}

	err := r.txn.ScanFrom(eventsPrefix, eventKey(from), func(key string, raw []byte) error {
		if limit > 0 && len(res) >= limit {
			return errStopScan
		}

		rec := model.EventRecord{}
		if err := kv_state.Decode(raw, &rec); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		res = append(res, rec)
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, fmt.Errorf("scanning events: %w", err)
	}

	return res, nil
}

// Digest hashes the whole key space. Replicas that applied the same action log
// have equal digests.
func (r *Registry) Digest() (string, error) {
	h := sha256.New()
	lenBuf := make([]byte, 8)

	err := r.txn.Scan("", func(key string, raw []byte) error {
		binary.BigEndian.PutUint64(lenBuf, uint64(len(key)))
		h.Write(lenBuf)
		h.Write([]byte(key))
		binary.BigEndian.PutUint64(lenBuf, uint64(len(raw)))
		h.Write(lenBuf)
		h.Write(raw)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning state: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (r *Registry) get(key string, dst any) error {
	return r.txn.Get(key, dst)
}

func scanAll[T any](txn kv_state.Txn, prefix string) ([]T, error) {
	res := []T{}
	if err := txn.Scan(prefix, func(key string, raw []byte) error {
		var el T
		if err := kv_state.Decode(raw, &el); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		res = append(res, el)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", prefix, err)
	}
	return res, nil
}

func isNotFound(err error) bool {
	return errors.As(err, &kv_state.KeyNotFoundError{})
}
