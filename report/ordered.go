package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one keyed value of an Ordered collection.
type Entry[V any] struct {
	ID    string
	Value V
}

// Ordered is a list of keyed values that marshals to a JSON object whose
// keys keep insertion order.
type Ordered[V any] []Entry[V]

// Add appends a value. It panics on a duplicate id: every benchmark is
// executed exactly once per run.
func (o *Ordered[V]) Add(id string, v V) {
	if _, ok := o.Get(id); ok {
		panic(fmt.Sprintf("report: duplicate id %q", id))
	}

	*o = append(*o, Entry[V]{ID: id, Value: v})
}

// Get returns the value stored under id.
func (o Ordered[V]) Get(id string) (V, bool) {
	for _, e := range o {
		if e.ID == id {
			return e.Value, true
		}
	}

	var zero V

	return zero, false
}

// IDs returns the ids in order.
func (o Ordered[V]) IDs() []string {
	ids := make([]string, 0, len(o))
	for _, e := range o {
		ids = append(ids, e.ID)
	}

	return ids
}

// MarshalJSON implements json.Marshaler.
func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.ID, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
