package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// ExtensionName is the glTF extension this package reads and writes.
const ExtensionName = "KHR_physics_rigid_bodies"

// ShapesExtensionName owns the shapes array geometry references point into.
const ShapesExtensionName = "KHR_implicit_shapes"

const (
	keyMotion   = "motion"
	keyCollider = "collider"
	keyTrigger  = "trigger"
)

// NodeExtension is the per-node extension object. Each part is optional and
// independent of the others.
type NodeExtension struct {
	Motion   *Motion
	Collider *Collider
	Trigger  *Trigger
	Joint    *Joint
	wire.Passthrough
}

// IsEmpty reports whether the node carries no physics data.
func (n *NodeExtension) IsEmpty() bool {
	return n.Motion == nil && n.Collider == nil && n.Trigger == nil && n.Joint == nil
}

// References returns every non-nil reference reachable from the node, in
// wire field order.
func (n *NodeExtension) References() []*Ref {
	var all []*Ref
	if n.Collider != nil {
		all = append(all, n.Collider.references()...)
	}
	if n.Trigger != nil {
		all = append(all, n.Trigger.references()...)
	}
	if n.Joint != nil {
		all = append(all, n.Joint.references()...)
	}
	refs := all[:0]
	for _, r := range all {
		if r != nil {
			refs = append(refs, r)
		}
	}
	return refs
}

// ToWire encodes the node extension. All references must be resolved.
func (n *NodeExtension) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		putEntity(obj, keyMotion, n.Motion),
		putEntity(obj, keyCollider, n.Collider),
		putEntity(obj, keyTrigger, n.Trigger),
		putEntity(obj, keyJoint, n.Joint),
	)
	if err != nil {
		return nil, err
	}
	n.EncodePassthrough(obj)
	return obj, nil
}

// DecodeNodeExtension decodes a per-node extension object.
func DecodeNodeExtension(v any) (*NodeExtension, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	n := &NodeExtension{}
	if n.Motion, err = getEntity(obj, keyMotion, DecodeMotion); err != nil {
		return nil, err
	}
	if n.Collider, err = getEntity(obj, keyCollider, DecodeCollider); err != nil {
		return nil, err
	}
	if n.Trigger, err = getEntity(obj, keyTrigger, DecodeTrigger); err != nil {
		return nil, err
	}
	if n.Joint, err = getEntity(obj, keyJoint, DecodeJoint); err != nil {
		return nil, err
	}
	if n.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the motion and, when doc is non-nil, that resolved
// references point inside doc's arrays.
func (n *NodeExtension) Validate(doc *Document) error {
	var errs error
	if n.Motion != nil {
		if err := n.Motion.Validate(); err != nil {
			errs = multierr.Append(errs, wire.Field(keyMotion, err))
		}
	}
	if doc == nil {
		return errs
	}
	if c := n.Collider; c != nil {
		errs = multierr.Append(errs, checkIndex(keyCollider+"."+keyPhysicsMaterial, c.PhysicsMaterial, len(doc.Materials)))
		errs = multierr.Append(errs, checkIndex(keyCollider+"."+keyCollisionFilter, c.CollisionFilter, len(doc.CollisionFilters)))
	}
	if t := n.Trigger; t != nil {
		errs = multierr.Append(errs, checkIndex(keyTrigger+"."+keyCollisionFilter, t.CollisionFilter, len(doc.CollisionFilters)))
	}
	if j := n.Joint; j != nil {
		errs = multierr.Append(errs, checkIndex(keyJoint+"."+keyJoint, j.Description, len(doc.Joints)))
	}
	return errs
}

func checkIndex(path string, r *Ref, n int) error {
	if r == nil {
		return nil
	}
	idx, ok := r.Index()
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrUnresolvedReference)
	}
	if idx >= n {
		return fmt.Errorf("%s: %w: index %d out of range (%d entries)", path, wire.ErrInvalidValue, idx, n)
	}
	return nil
}

// putEntity stores the encoding of e under key unless e is nil.
func putEntity[T any, P interface {
	*T
	ToWire() (wire.Object, error)
}](obj wire.Object, key string, e P) error {
	if e == nil {
		return nil
	}
	w, err := e.ToWire()
	if err != nil {
		return wire.Field(key, err)
	}
	obj[key] = w
	return nil
}

// getEntity decodes obj[key] with dec. Missing or null yields nil.
func getEntity[T any](obj wire.Object, key string, dec func(any) (*T, error)) (*T, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	e, err := dec(raw)
	if err != nil {
		return nil, wire.Field(key, err)
	}
	return e, nil
}
