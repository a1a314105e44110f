package utils

import (
	"database/sql/driver"
	"fmt"
)

// JSONDocument holds a raw JSONB column without decoding it. Survey payloads
// are decoded later by the model layer, which tolerates malformed content.
type JSONDocument []byte

func (j JSONDocument) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *JSONDocument) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*j = buf
	case string:
		*j = JSONDocument(v)
	default:
		return fmt.Errorf("JSONDocument: Scan failed, expected []byte or string but got %T", value)
	}
	return nil
}
