// Package physics encodes rigid-body metadata for glTF scene nodes following
// the KHR_physics_rigid_bodies extension: materials, collision filters,
// motion, joints with limits and drives, colliders and triggers.
//
// Entities convert to and from wire.Object trees. Cross references between
// them go through Ref, which is either a resolved index into one of the
// document's root arrays or a placeholder that is appended on resolution.
package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// Document is the document-level extension object. It owns the three root
// arrays other entities index into.
//
// A Document is not safe for concurrent use; each export or import pass
// builds its own.
type Document struct {
	Materials        []*Material
	Joints           []*JointDescription
	CollisionFilters []*CollisionFilter
	wire.Passthrough

	pending []*Ref
	sinks   map[string]ArraySink
}

// NewDocument returns an empty document with its own arrays.
func NewDocument() *Document {
	return &Document{
		Materials:        []*Material{},
		Joints:           []*JointDescription{},
		CollisionFilters: []*CollisionFilter{},
		sinks:            map[string]ArraySink{},
	}
}

// ShouldExport reports whether any root array has content.
func (d *Document) ShouldExport() bool {
	return len(d.Materials) > 0 || len(d.Joints) > 0 || len(d.CollisionFilters) > 0
}

// RegisterArray routes placeholders naming array to sink. Use it for root
// arrays owned by the host document, such as nodes or implicit shapes.
func (d *Document) RegisterArray(array string, sink ArraySink) {
	if d.sinks == nil {
		d.sinks = map[string]ArraySink{}
	}
	d.sinks[array] = sink
}

// Reference creates a placeholder tracked by the document. Tracked
// placeholders are resolved in creation order by ResolveReferences.
func (d *Document) Reference(array string, payload any) *Ref {
	r := Pending(array, payload)
	d.pending = append(d.pending, r)
	return r
}

// ResolveReferences resolves every tracked placeholder in creation order.
func (d *Document) ResolveReferences() error {
	for i, r := range d.pending {
		if err := r.Resolve(d); err != nil {
			d.pending = d.pending[i:]
			return err
		}
	}
	d.pending = nil
	return nil
}

// ResolveNode resolves every placeholder reachable from n, in field order.
func (d *Document) ResolveNode(n *NodeExtension) error {
	for _, r := range n.References() {
		if err := r.Resolve(d); err != nil {
			return err
		}
	}
	return nil
}

// AppendTo implements ArrayResolver. The document's own arrays accept only
// their entity type; other names go to registered sinks.
func (d *Document) AppendTo(array string, payload any) (int, error) {
	switch array {
	case ArrayMaterials:
		m, ok := payload.(*Material)
		if !ok {
			return 0, payloadError(array, payload)
		}
		d.Materials = append(d.Materials, m)
		return len(d.Materials) - 1, nil
	case ArrayJoints:
		j, ok := payload.(*JointDescription)
		if !ok {
			return 0, payloadError(array, payload)
		}
		d.Joints = append(d.Joints, j)
		return len(d.Joints) - 1, nil
	case ArrayCollisionFilters:
		f, ok := payload.(*CollisionFilter)
		if !ok {
			return 0, payloadError(array, payload)
		}
		d.CollisionFilters = append(d.CollisionFilters, f)
		return len(d.CollisionFilters) - 1, nil
	}
	sink, ok := d.sinks[array]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownArray, array)
	}
	return sink.Append(payload)
}

func payloadError(array string, payload any) error {
	return fmt.Errorf("%w: %s cannot hold %T", wire.ErrInvalidValue, array, payload)
}

// ToWire resolves tracked placeholders and encodes the document. Empty
// arrays are omitted.
func (d *Document) ToWire() (wire.Object, error) {
	if err := d.ResolveReferences(); err != nil {
		return nil, err
	}
	obj := wire.Object{}
	if err := putArray(obj, ArrayMaterials, d.Materials); err != nil {
		return nil, err
	}
	if err := putArray(obj, ArrayJoints, d.Joints); err != nil {
		return nil, err
	}
	if err := putArray(obj, ArrayCollisionFilters, d.CollisionFilters); err != nil {
		return nil, err
	}
	d.EncodePassthrough(obj)
	return obj, nil
}

// DecodeDocument decodes the document-level extension object. Missing
// arrays decode as empty.
func DecodeDocument(v any) (*Document, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	d := NewDocument()
	if d.Materials, err = getArray(obj, ArrayMaterials, DecodeMaterial); err != nil {
		return nil, err
	}
	if d.Joints, err = getArray(obj, ArrayJoints, DecodeJointDescription); err != nil {
		return nil, err
	}
	if d.CollisionFilters, err = getArray(obj, ArrayCollisionFilters, DecodeCollisionFilter); err != nil {
		return nil, err
	}
	if d.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks every entity in the root arrays.
func (d *Document) Validate() error {
	var errs error
	for i, m := range d.Materials {
		if err := m.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", ArrayMaterials, i, err))
		}
	}
	for i, j := range d.Joints {
		if err := j.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", ArrayJoints, i, err))
		}
	}
	return errs
}

func putArray[T any, P interface {
	*T
	ToWire() (wire.Object, error)
}](obj wire.Object, key string, items []P) error {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		w, err := item.ToWire()
		if err != nil {
			return wire.Field(key, wire.Index(i, err))
		}
		out[i] = w
	}
	obj[key] = out
	return nil
}

func getArray[T any](obj wire.Object, key string, dec func(any) (*T, error)) ([]*T, error) {
	items, err := wire.GetOptionalList(obj, key, dec)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}
