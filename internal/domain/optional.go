package domain

import (
	"encoding/json"
	"strings"
)

// Optional is a string that may be absent. An Optional never holds an empty
// or whitespace-padded value; Some collapses those to absent.
type Optional struct {
	Value string
	Valid bool
}

// None is the absent value.
var None = Optional{}

// Some returns the trimmed value, or None if nothing is left after trimming.
func Some(s string) Optional {
	s = strings.TrimSpace(s)
	if s == "" {
		return None
	}
	return Optional{Value: s, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or def when absent.
func (o Optional) Or(def string) string {
	if !o.Valid {
		return def
	}
	return o.Value
}

func (o Optional) String() string {
	return o.Value
}

// MarshalJSON encodes absent values as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
