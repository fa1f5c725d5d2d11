package model_test

import (
	"encoding/json"
	"testing"

	"github.com/horockey/ibp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecord_JSON(t *testing.T) {
	rec := model.EventRecord{
		Seq:   4,
		Event: model.MemberServiceRegistered{ServiceID: 1, MemberID: 1, ID: 0, Name: "bob-boot"},
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"seq":4,"name":"MemberServiceRegistered","data":{"service_id":1,"member_id":1,"id":0,"name":"bob-boot"}}`,
		string(raw),
	)

	decoded := model.EventRecord{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestDecodeEvent_Unknown(t *testing.T) {
	_, err := model.DecodeEvent("Slashed", []byte(`{}`))
	assert.Error(t, err)

	_, err = json.Marshal(model.EventRecord{Seq: 1})
	assert.Error(t, err)
}
