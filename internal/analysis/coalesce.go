package analysis

import (
	"encoding/json"
	"math"
	"strings"
)

// OptString is a JSON string that may be absent, null or of another type.
type OptString struct {
	Value string
	Set   bool
}

// OptNumber is a JSON number that may be absent, null or of another type.
type OptNumber struct {
	Value float64
	Set   bool
}

// OptBool is a JSON boolean that may be absent, null or of another type.
type OptBool struct {
	Value bool
	Set   bool
}

// Strings is a JSON array of strings. Non-string items are dropped and a
// non-array value decodes as empty.
type Strings []string

// List is a JSON array of objects. A non-array value decodes as empty and a
// non-object item decodes as the zero value of T.
type List[T any] []T

func (s *OptString) UnmarshalJSON(data []byte) error {
	*s = OptString{}
	if !isJSONString(data) {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err == nil {
		*s = OptString{Value: v, Set: true}
	}
	return nil
}

// Or returns the value when present, def otherwise. An empty string counts as present.
func (s OptString) Or(def string) string {
	if s.Set {
		return s.Value
	}
	return def
}

func (n *OptNumber) UnmarshalJSON(data []byte) error {
	*n = OptNumber{}
	var v float64
	if b := firstByte(data); b != '-' && (b < '0' || b > '9') {
		return nil
	}
	if err := json.Unmarshal(data, &v); err == nil {
		*n = OptNumber{Value: v, Set: true}
	}
	return nil
}

func (b *OptBool) UnmarshalJSON(data []byte) error {
	*b = OptBool{}
	var v bool
	switch string(data) {
	case "true", "false":
		if err := json.Unmarshal(data, &v); err == nil {
			*b = OptBool{Value: v, Set: true}
		}
	}
	return nil
}

// IsTrue reports whether the flag is present and literally true.
func (b OptBool) IsTrue() bool {
	return b.Set && b.Value
}

func (s *Strings) UnmarshalJSON(data []byte) error {
	*s = nil
	if !isJSONArray(data) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !isJSONString(item) {
			continue
		}
		var v string
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	*l = nil
	if !isJSONArray(data) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if isJSONObject(item) {
			_ = json.Unmarshal(item, &v)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// firstString returns the first present value.
func firstString(values ...OptString) (string, bool) {
	for _, v := range values {
		if v.Set {
			return v.Value, true
		}
	}
	return "", false
}

// firstNumber returns the first present value.
func firstNumber(values ...OptNumber) (float64, bool) {
	for _, v := range values {
		if v.Set {
			return v.Value, true
		}
	}
	return 0, false
}

// stringsOrEmpty returns a copy of value, never nil.
func stringsOrEmpty(value []string) []string {
	out := make([]string, len(value))
	copy(out, value)
	return out
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// clampScore rounds to the nearest integer and bounds it to [0,100].
func clampScore(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	rounded := math.Round(value)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}
