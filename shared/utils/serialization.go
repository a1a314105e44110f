package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// SerializeModel converts any model to JSON bytes for Redis or other
// byte-based storage.
func SerializeModel[T any](model T) ([]byte, error) {
	value := reflect.ValueOf(model)
	if value.Kind() == reflect.Pointer && value.IsNil() {
		return nil, fmt.Errorf("cannot serialize nil pointer")
	}

	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}
	return data, nil
}

// DeserializeModel is the inverse of SerializeModel.
func DeserializeModel[T any](data []byte, target *T) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot deserialize empty data")
	}
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}
