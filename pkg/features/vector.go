package features

import (
	"fmt"
	"math"

	"github.com/go-faster/jx"
)

// Vector is an immutable feature vector in Schema order. The zero value reads
// as all zeros.
type Vector struct {
	values []float64
}

// FromValues builds a Vector from values given in Schema order.
func FromValues(values []float64) (Vector, error) {
	if len(values) != len(Schema) {
		return Vector{}, fmt.Errorf("expected %d feature values, got %d", len(Schema), len(values))
	}

	return Vector{values: append([]float64(nil), values...)}, nil
}

func (v Vector) at(i int) float64 {
	if v.values == nil {
		return 0
	}

	return v.values[i]
}

// Len returns the number of features, which is always len(Schema).
func (v Vector) Len() int { return len(Schema) }

// Get returns the value of the named feature.
func (v Vector) Get(name string) (float64, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return 0, false
	}

	return v.at(i), true
}

// Value returns the value of the named feature, or 0 when the name is unknown.
func (v Vector) Value(name string) float64 {
	val, _ := v.Get(name)

	return val
}

// Values returns a copy of the values in Schema order.
func (v Vector) Values() []float64 {
	out := make([]float64, len(Schema))
	copy(out, v.values)

	return out
}

// Select returns the values of the given columns in the given order. Columns
// that are not part of the schema read as 0, so a vector can be aligned with
// the column layout a model was trained on.
func (v Vector) Select(columns []string) []float64 {
	out := make([]float64, len(columns))
	for i, c := range columns {
		out[i] = v.Value(c)
	}

	return out
}

// Map returns the vector as an unordered name to value map.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(Schema))
	for i, f := range Schema {
		m[f.Name] = v.at(i)
	}

	return m
}

// Equal reports whether both vectors hold the same values.
func (v Vector) Equal(o Vector) bool {
	for i := range Schema {
		if v.at(i) != o.at(i) {
			return false
		}
	}

	return true
}

// Encode writes the vector as a JSON object whose keys follow Schema order.
// Counts and flags are written as integers.
func (v Vector) Encode(e *jx.Encoder) {
	e.ObjStart()
	for i, f := range Schema {
		e.FieldStart(f.Name)
		val := v.at(i)
		if f.Kind.Integral() && val == math.Trunc(val) {
			e.Int64(int64(val))
		} else {
			e.Float64(val)
		}
	}
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (v Vector) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	v.Encode(&e)

	return e.Bytes(), nil
}

// Decode reads a JSON object produced by Encode. Missing features read as 0;
// unknown feature names are rejected.
func (v *Vector) Decode(d *jx.Decoder) error {
	values := make([]float64, len(Schema))
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		i, ok := schemaIndex[key]
		if !ok {
			return fmt.Errorf("unknown feature %q", key)
		}

		val, err := d.Float64()
		if err != nil {
			return fmt.Errorf("could not decode feature %q: %w", key, err)
		}
		values[i] = val

		return nil
	}); err != nil {
		return fmt.Errorf("could not decode feature vector: %w", err)
	}

	v.values = values

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(b []byte) error {
	return v.Decode(jx.DecodeBytes(b))
}
