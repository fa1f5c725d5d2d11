package dto

import (
	"encoding/json"
	"fmt"

	"github.com/horockey/ibp/internal/model"
)

type Event struct {
	Seq  uint64          `json:"seq"`
	Name model.EventName `json:"name"`
	Data json.RawMessage `json:"data"`
}

func NewEvent(rec model.EventRecord) (Event, error) {
	data, err := json.Marshal(rec.Event)
	if err != nil {
		return Event{}, fmt.Errorf("marshaling %s: %w", rec.Event.EventName(), err)
	}
	return Event{Seq: rec.Seq, Name: rec.Event.EventName(), Data: data}, nil
}

func EventToModel(ev Event) (model.EventRecord, error) {
	res, err := model.DecodeEvent(ev.Name, ev.Data)
	if err != nil {
		return model.EventRecord{}, err
	}
	return model.EventRecord{Seq: ev.Seq, Event: res}, nil
}

type Receipt struct {
	Kind   model.ActionKind `json:"kind"`
	ID     *uint32          `json:"id,omitempty"`
	Events []Event          `json:"events"`
}

func NewReceipt(rcpt model.Receipt) (Receipt, error) {
	res := Receipt{Kind: rcpt.Kind, ID: rcpt.ID, Events: make([]Event, 0, len(rcpt.Events))}
	for _, rec := range rcpt.Events {
		ev, err := NewEvent(rec)
		if err != nil {
			return Receipt{}, err
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}

func ReceiptToModel(rcpt Receipt) (model.Receipt, error) {
	res := model.Receipt{Kind: rcpt.Kind, ID: rcpt.ID, Events: make([]model.EventRecord, 0, len(rcpt.Events))}
	for _, ev := range rcpt.Events {
		rec, err := EventToModel(ev)
		if err != nil {
			return model.Receipt{}, err
		}
		res.Events = append(res.Events, rec)
	}
	return res, nil
}
