package extract

import (
	"bytes"
	"encoding/json"
)

// Field is one named metric. A nil Value means the metric is absent.
type Field struct {
	Name  string
	Value *float64
}

// Metrics holds the parsed fields of one benchmark in table order.
type Metrics struct {
	fields []Field
}

// NewMetrics builds Metrics from fields, keeping their order.
func NewMetrics(fields ...Field) Metrics {
	return Metrics{fields: append([]Field(nil), fields...)}
}

// Fields returns the metrics in table order.
func (m Metrics) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Get returns the value of the named metric and whether it is present.
func (m Metrics) Get(name string) (float64, bool) {
	for _, f := range m.fields {
		if f.Name == name && f.Value != nil {
			return *f.Value, true
		}
	}

	return 0, false
}

// Present returns the number of metrics with a value.
func (m Metrics) Present() int {
	n := 0

	for _, f := range m.fields {
		if f.Value != nil {
			n++
		}
	}

	return n
}

// MarshalJSON writes the metrics as an object in table order. Absent
// metrics are written as null, never as zero.
func (m Metrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		if f.Value == nil {
			buf.WriteString("null")

			continue
		}

		val, err := json.Marshal(*f.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
