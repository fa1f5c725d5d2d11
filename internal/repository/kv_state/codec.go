package kv_state

import (
	"encoding/json"
	"fmt"
)

// Encode produces the stored form of value. The output depends only on the
// value, so equal states hold equal bytes on every node.
func Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return data, nil
}

func Decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}
