package journal

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/deswitch/internal/ir"
)

// marshalValues converts case values to canonical JSON TEXT for storage.
func marshalValues(values []string) (string, error) {
	arr := make([]any, len(values))
	for i, v := range values {
		arr[i] = v
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal values: %w", err)
	}
	return string(data), nil
}

// unmarshalValues parses stored case values. Returns an empty slice, never nil.
func unmarshalValues(data string) ([]string, error) {
	values := []string{}
	if data == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal values: %w", err)
	}
	return values, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
