package wire

import "fmt"

// EncodeOptional encodes *v when present. The boolean is false when the
// field must be omitted from the output; absent fields never become null.
func EncodeOptional[T any](enc EncodeFunc[T], v *T) (any, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	w, err := enc(*v)
	if err != nil {
		return nil, false, err
	}
	return w, true, nil
}

// PutOptional stores the encoding of *v under key, or leaves key unset.
func PutOptional[T any](obj Object, key string, enc EncodeFunc[T], v *T) error {
	w, ok, err := EncodeOptional(enc, v)
	if err != nil {
		return Field(key, err)
	}
	if ok {
		obj[key] = w
	}
	return nil
}

// GetOptional decodes obj[key]. A missing key, a null value or a nil obj
// all yield nil, which is distinct from a present zero value.
func GetOptional[T any](obj Object, key string, dec DecodeFunc[T]) (*T, error) {
	if obj == nil {
		return nil, nil
	}
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, err := dec(raw)
	if err != nil {
		return nil, Field(key, err)
	}
	return &v, nil
}

// GetOptionalList is GetOptional for sequence fields, returning the slice
// itself with nil meaning absent.
func GetOptionalList[T any](obj Object, key string, dec DecodeFunc[T]) ([]T, error) {
	p, err := GetOptional(obj, key, DecodeList(dec))
	if err != nil || p == nil {
		return nil, err
	}
	return *p, nil
}

// PutOptionalList stores items under key unless items is nil. An empty but
// non-nil slice is emitted as [].
func PutOptionalList[T any](obj Object, key string, enc EncodeFunc[T], items []T) error {
	if items == nil {
		return nil
	}
	return PutOptional(obj, key, EncodeList(enc), &items)
}

// EncodeArm is one alternative of a union encoder.
type EncodeArm[T any] struct {
	Accepts func(T) bool
	Encode  EncodeFunc[T]
}

// DecodeArm is one alternative of a union decoder.
type DecodeArm[T any] struct {
	Accepts func(any) bool
	Decode  DecodeFunc[T]
}

// EncodeUnion encodes v with the first arm that accepts it.
func EncodeUnion[T any](v T, arms ...EncodeArm[T]) (any, error) {
	for _, arm := range arms {
		if arm.Accepts(v) {
			return arm.Encode(v)
		}
	}
	return nil, fmt.Errorf("%w: no union alternative accepts %T", ErrInvalidValue, v)
}

// DecodeUnion decodes v with the first arm whose shape matches. Once an
// arm accepts, its error is final; later arms are not tried.
func DecodeUnion[T any](v any, arms ...DecodeArm[T]) (T, error) {
	for _, arm := range arms {
		if arm.Accepts(v) {
			return arm.Decode(v)
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: no union alternative accepts %s", ErrSchemaViolation, describe(v))
}

// Ptr returns a pointer to v, for populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}
