// Package wire converts between semantic values and the generic nested
// key-value documents produced by JSON-like serializers.
//
// A document is an Object whose values are nested Objects, []any sequences,
// strings, bools and numbers. Decoders accept every numeric representation
// encoding/json and yaml.v3 hand out when decoding into any.
package wire

import (
	"errors"
	"fmt"
)

// Error kinds. Every decode and encode error wraps exactly one of these.
var (
	ErrSchemaViolation    = errors.New("schema violation")
	ErrMalformedPrimitive = errors.New("malformed primitive")
	ErrInvalidValue       = errors.New("invalid value")
)

// Object is one JSON-object-shaped node of a wire document.
type Object = map[string]any

// Encoder is implemented by every entity that serializes to an Object.
type Encoder interface {
	ToWire() (Object, error)
}

// EncodeFunc converts a semantic value into its wire representation.
type EncodeFunc[T any] func(T) (any, error)

// DecodeFunc converts a wire value into its semantic representation.
type DecodeFunc[T any] func(any) (T, error)

// AsObject returns v as an Object or fails with ErrSchemaViolation.
func AsObject(v any) (Object, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrSchemaViolation, describe(v))
	}
	return obj, nil
}

// IsObject reports whether v is object-shaped.
func IsObject(v any) bool {
	_, ok := v.(Object)
	return ok
}

// Field wraps err with the wire key it was produced for.
func Field(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}

// Index wraps err with a sequence position.
func Index(i int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%d]: %w", i, err)
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
