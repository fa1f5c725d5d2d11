package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/horockey/ibp/internal/model"
)

// DecodeAction parses the request body of POST /actions/{kind}.
func DecodeAction(kind model.ActionKind, body []byte) (model.Action, error) {
	switch kind {
	case model.ActionRegisterService:
		return decodeAction[model.RegisterService](body)
	case model.ActionRegisterMember:
		return decodeAction[model.RegisterMember](body)
	case model.ActionRegisterMemberService:
		return decodeAction[model.RegisterMemberService](body)
	case model.ActionRegisterMonitor:
		return decodeAction[model.RegisterMonitor](body)
	case model.ActionSubmitHealthCheck:
		return decodeAction[model.SubmitHealthCheck](body)
	case model.ActionMint:
		return model.Mint{}, nil
	default:
		return nil, model.InvalidInputError{Field: "action kind"}
	}
}

func decodeAction[A model.Action](body []byte) (model.Action, error) {
	var act A
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&act); err != nil {
		return nil, fmt.Errorf("%w: %w", model.InvalidInputError{Field: "action body"}, err)
	}
	return act, nil
}
