package model

import (
	"bytes"
	"encoding/json"
)

// Entry is one keyed value inside a Breakdown.
type Entry[V any] struct {
	Key   string
	Value V
}

// Breakdown is an insertion-ordered mapping from a grouping key (payer, CPT
// code, denial reason, month) to a statistic. It marshals to a JSON object
// whose keys keep the slice order.
type Breakdown[V any] []Entry[V]

// Get returns the value stored under key.
func (b Breakdown[V]) Get(key string) (V, bool) {
	for _, e := range b {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Keys returns the keys in order.
func (b Breakdown[V]) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON encodes the breakdown as an object, "{}" when empty.
func (b Breakdown[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
