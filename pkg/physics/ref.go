package physics

import (
	"fmt"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// Root array names. Placeholders name the array their payload goes into.
const (
	ArrayMaterials        = "physicsMaterials"
	ArrayJoints           = "physicsJoints"
	ArrayCollisionFilters = "physicsCollisionFilters"
	ArrayShapes           = "shapes" // KHR_implicit_shapes
	ArrayNodes            = "nodes"  // glTF core
)

// Reference errors.
var (
	ErrUnresolvedReference = fmt.Errorf("%w: unresolved reference", wire.ErrInvalidValue)
	ErrUnknownArray        = fmt.Errorf("%w: unknown root array", wire.ErrInvalidValue)
)

// ArraySink is a root array that placeholders can be appended to.
type ArraySink interface {
	Append(payload any) (int, error)
}

// ArrayResolver routes a payload to the named root array.
type ArrayResolver interface {
	AppendTo(array string, payload any) (int, error)
}

// Ref points at an element of a root array. It is either resolved to an
// index or pending: a payload waiting to be appended to a named array.
// Hold references as *Ref; nil means the field is absent.
type Ref struct {
	index   int
	array   string
	payload any
	pending bool
}

// Resolved returns a reference to an existing index.
func Resolved(index int) *Ref {
	return &Ref{index: index}
}

// Pending returns a placeholder that appends payload to array on resolution.
func Pending(array string, payload any) *Ref {
	return &Ref{array: array, payload: payload, pending: true}
}

// IsResolved reports whether the reference already holds an index.
func (r *Ref) IsResolved() bool {
	return !r.pending
}

// Index returns the resolved index. ok is false for pending references.
func (r *Ref) Index() (index int, ok bool) {
	if r.pending {
		return 0, false
	}
	return r.index, true
}

// Array returns the target array of a pending reference.
func (r *Ref) Array() string {
	return r.array
}

// Payload returns the value a pending reference will insert.
func (r *Ref) Payload() any {
	return r.payload
}

// Resolve appends a pending payload through res and rewrites r to the
// resulting index. Resolved references are left untouched, so resolving
// twice is a no-op.
func (r *Ref) Resolve(res ArrayResolver) error {
	if r == nil || !r.pending {
		return nil
	}
	idx, err := res.AppendTo(r.array, r.payload)
	if err != nil {
		return fmt.Errorf("resolving %s reference: %w", r.array, err)
	}
	*r = Ref{index: idx}
	return nil
}

func (r *Ref) String() string {
	if r.pending {
		return fmt.Sprintf("pending(%s)", r.array)
	}
	return fmt.Sprintf("#%d", r.index)
}

func encodeRef(r *Ref) (any, error) {
	return wire.EncodeUnion(r,
		wire.EncodeArm[*Ref]{
			Accepts: (*Ref).IsResolved,
			Encode:  func(r *Ref) (any, error) { return r.index, nil },
		},
		wire.EncodeArm[*Ref]{
			Accepts: func(r *Ref) bool { return r.pending },
			Encode: func(r *Ref) (any, error) {
				return nil, fmt.Errorf("%w into %s", ErrUnresolvedReference, r.array)
			},
		},
	)
}

func putRef(obj wire.Object, key string, r *Ref) error {
	if r == nil {
		return nil
	}
	w, err := encodeRef(r)
	if err != nil {
		return wire.Field(key, err)
	}
	obj[key] = w
	return nil
}

// getRef decodes a reference field. Integers are resolved indices; objects
// are inline payloads that become placeholders into array.
func getRef(obj wire.Object, key, array string) (*Ref, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	r, err := wire.DecodeUnion(raw,
		wire.DecodeArm[*Ref]{
			Accepts: wire.IsInteger,
			Decode: func(v any) (*Ref, error) {
				idx, err := wire.DecodeInt(v)
				if err != nil {
					return nil, err
				}
				if idx < 0 {
					return nil, fmt.Errorf("%w: negative index %d", wire.ErrInvalidValue, idx)
				}
				return Resolved(idx), nil
			},
		},
		wire.DecodeArm[*Ref]{
			Accepts: wire.IsObject,
			Decode: func(v any) (*Ref, error) {
				payload, err := decodePayload(array, v.(wire.Object))
				if err != nil {
					return nil, err
				}
				return Pending(array, payload), nil
			},
		},
	)
	if err != nil {
		return nil, wire.Field(key, err)
	}
	return r, nil
}

// decodePayload decodes an inline placeholder payload for array. Arrays
// owned by other extensions keep the raw object.
func decodePayload(array string, obj wire.Object) (any, error) {
	switch array {
	case ArrayMaterials:
		return DecodeMaterial(obj)
	case ArrayJoints:
		return DecodeJointDescription(obj)
	case ArrayCollisionFilters:
		return DecodeCollisionFilter(obj)
	default:
		return obj, nil
	}
}
