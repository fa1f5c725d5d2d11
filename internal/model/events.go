package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventName string

const (
	EventServiceRegistered       EventName = "ServiceRegistered"
	EventMemberRegistered        EventName = "MemberRegistered"
	EventMemberServiceRegistered EventName = "MemberServiceRegistered"
	EventMonitorRegistered       EventName = "MonitorRegistered"
	EventHealthCheckSubmitted    EventName = "HealthCheckSubmitted"
)

type Event interface {
	EventName() EventName
}

type ServiceRegistered struct {
	ID   ServiceID     `json:"id"`
	Name BoundedString `json:"name"`
}

func (ServiceRegistered) EventName() EventName { return EventServiceRegistered }

type MemberRegistered struct {
	Account AccountID     `json:"account"`
	ID      MemberID      `json:"id"`
	Name    BoundedString `json:"name"`
}

func (MemberRegistered) EventName() EventName { return EventMemberRegistered }

type MemberServiceRegistered struct {
	ServiceID ServiceID       `json:"service_id"`
	MemberID  MemberID        `json:"member_id"`
	ID        MemberServiceID `json:"id"`
	Name      BoundedString   `json:"name"`
}

func (MemberServiceRegistered) EventName() EventName { return EventMemberServiceRegistered }

type MonitorRegistered struct {
	Who  AccountID     `json:"who"`
	Name BoundedString `json:"name"`
}

func (MonitorRegistered) EventName() EventName { return EventMonitorRegistered }

type HealthCheckSubmitted struct {
	MemberServiceName BoundedString `json:"member_service_name"`
	MonitorName       BoundedString `json:"monitor_name"`
}

func (HealthCheckSubmitted) EventName() EventName { return EventHealthCheckSubmitted }

// EventRecord is an event at its position in the ledger-wide event log.
// It is stored as {"seq", "name", "data"} so the event type survives decoding.
type EventRecord struct {
	Seq   uint64
	Event Event
}

type eventEnvelope struct {
	Seq  uint64          `json:"seq"`
	Name EventName       `json:"name"`
	Data json.RawMessage `json:"data"`
}

func (rec EventRecord) MarshalJSON() ([]byte, error) {
	if rec.Event == nil {
		return nil, errors.New("event record without event")
	}

	data, err := json.Marshal(rec.Event)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", rec.Event.EventName(), err)
	}

	return json.Marshal(eventEnvelope{Seq: rec.Seq, Name: rec.Event.EventName(), Data: data})
}

func (rec *EventRecord) UnmarshalJSON(raw []byte) error {
	env := eventEnvelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	ev, err := DecodeEvent(env.Name, env.Data)
	if err != nil {
		return err
	}

	*rec = EventRecord{Seq: env.Seq, Event: ev}
	return nil
}

// DecodeEvent restores the event called name from its JSON payload.
func DecodeEvent(name EventName, data []byte) (Event, error) {
	var (
		res Event
		err error
	)

	switch name {
	case EventServiceRegistered:
		res, err = decodeEvent[ServiceRegistered](data)
	case EventMemberRegistered:
		res, err = decodeEvent[MemberRegistered](data)
	case EventMemberServiceRegistered:
		res, err = decodeEvent[MemberServiceRegistered](data)
	case EventMonitorRegistered:
		res, err = decodeEvent[MonitorRegistered](data)
	case EventHealthCheckSubmitted:
		res, err = decodeEvent[HealthCheckSubmitted](data)
	default:
		return nil, fmt.Errorf("unknown event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	return res, nil
}

func decodeEvent[E Event](data []byte) (Event, error) {
	var ev E
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}
