package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attributes holds free-form selections attached to cart and order lines
// (visit date, adults, children...). Persisted as a JSON column.
type Attributes map[string]any

// Value marshals the map into JSON text.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(a))
	if err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	return string(raw), nil
}

// Scan decodes a JSON column into the map.
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("attributes: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*a = Attributes{}
		return nil
	}

	decoded := map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	*a = decoded
	return nil
}

// Clone returns a shallow copy so snapshots never share a map with their source.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
