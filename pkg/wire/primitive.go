package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	pmath "github.com/Faultbox/khr-physics/pkg/math"
)

// EncodeFloat rejects NaN and infinities.
func EncodeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite float %v", ErrInvalidValue, f)
	}
	return f, nil
}

// DecodeFloat accepts any numeric wire value.
func DecodeFloat(v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: expected number, got %s", ErrMalformedPrimitive, describe(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite float %v", ErrInvalidValue, f)
	}
	return f, nil
}

// EncodeInt is the identity.
func EncodeInt(i int) (any, error) {
	return i, nil
}

// DecodeInt accepts integers and integral floats.
func DecodeInt(v any) (int, error) {
	if i, ok := toInt(v); ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: expected integer, got %s", ErrMalformedPrimitive, describeValue(v))
}

// IsInteger reports whether v is an integer-shaped wire value.
func IsInteger(v any) bool {
	_, ok := toInt(v)
	return ok
}

// EncodeBool is the identity.
func EncodeBool(b bool) (any, error) {
	return b, nil
}

// DecodeBool requires a boolean.
func DecodeBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %s", ErrMalformedPrimitive, describe(v))
	}
	return b, nil
}

// EncodeString is the identity.
func EncodeString(s string) (any, error) {
	return s, nil
}

// DecodeString requires a string.
func DecodeString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %s", ErrMalformedPrimitive, describe(v))
	}
	return s, nil
}

// EncodeVec3 writes [x, y, z].
func EncodeVec3(v pmath.Vec3) (any, error) {
	return encodeFloats(v.X, v.Y, v.Z)
}

// DecodeVec3 reads a 3-element numeric sequence.
func DecodeVec3(v any) (pmath.Vec3, error) {
	f, err := decodeFloats(v, 3)
	if err != nil {
		return pmath.Vec3{}, err
	}
	return pmath.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// EncodeQuat writes [x, y, z, w].
func EncodeQuat(q pmath.Quat) (any, error) {
	return encodeFloats(q.X, q.Y, q.Z, q.W)
}

// DecodeQuat reads a 4-element numeric sequence in x, y, z, w order.
func DecodeQuat(v any) (pmath.Quat, error) {
	f, err := decodeFloats(v, 4)
	if err != nil {
		return pmath.Quat{}, err
	}
	return pmath.Quat{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
}

// EncodeList lifts an element encoder to sequences.
func EncodeList[T any](enc EncodeFunc[T]) EncodeFunc[[]T] {
	return func(items []T) (any, error) {
		out := make([]any, len(items))
		for i, item := range items {
			w, err := enc(item)
			if err != nil {
				return nil, Index(i, err)
			}
			out[i] = w
		}
		return out, nil
	}
}

// DecodeList lifts an element decoder to sequences.
func DecodeList[T any](dec DecodeFunc[T]) DecodeFunc[[]T] {
	return func(v any) ([]T, error) {
		items, ok := asSlice(v)
		if !ok {
			return nil, fmt.Errorf("%w: expected sequence, got %s", ErrSchemaViolation, describe(v))
		}
		out := make([]T, len(items))
		for i, item := range items {
			d, err := dec(item)
			if err != nil {
				return nil, Index(i, err)
			}
			out[i] = d
		}
		return out, nil
	}
}

func encodeFloats(fs ...float64) (any, error) {
	out := make([]any, len(fs))
	for i, f := range fs {
		w, err := EncodeFloat(f)
		if err != nil {
			return nil, Index(i, err)
		}
		out[i] = w
	}
	return out, nil
}

func decodeFloats(v any, n int) ([]float64, error) {
	items, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected %d-element sequence, got %s", ErrMalformedPrimitive, n, describe(v))
	}
	if len(items) != n {
		return nil, fmt.Errorf("%w: expected %d elements, got %d", ErrMalformedPrimitive, n, len(items))
	}
	out := make([]float64, n)
	for i, item := range items {
		f, err := DecodeFloat(item)
		if err != nil {
			return nil, Index(i, err)
		}
		out[i] = f
	}
	return out, nil
}

// asSlice accepts []any as well as typed slices built by producers.
func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	if i, ok := toInt64(v); ok {
		return int(i), true
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func describeValue(v any) string {
	switch v.(type) {
	case float64, float32, json.Number:
		return fmt.Sprintf("%v", v)
	}
	return describe(v)
}
