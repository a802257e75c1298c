package db

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONText is a JSON document stored in a TEXT column. It is kept compacted
// so its length matches what the size limit was checked against.
type JSONText json.RawMessage

func (j *JSONText) Scan(value any) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONText", value)
	}

	if len(b) == 0 {
		*j = nil
		return nil
	}
	if !json.Valid(b) {
		return fmt.Errorf("stored value is not valid JSON")
	}
	*j = append((*j)[:0], b...)
	return nil
}

func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, j); err != nil {
		return nil, err
	}
	return buf.String(), nil
}

func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONText) UnmarshalJSON(b []byte) error {
	*j = append((*j)[:0], b...)
	return nil
}
