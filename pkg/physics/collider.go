package physics

import (
	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyGeometry        = "geometry"
	keyConvexHull      = "convexHull"
	keyShape           = "shape"
	keyNode            = "node"
	keyPhysicsMaterial = "physicsMaterial"
	keyCollisionFilter = "collisionFilter"
)

// Geometry is the collision volume of a collider or trigger: either an
// implicit shape (Shape) or the mesh of another node (Node), optionally
// wrapped in its convex hull. In practice exactly one of Shape and Node is
// set.
type Geometry struct {
	ConvexHull *bool
	Shape      *Ref
	Node       *Ref
	wire.Passthrough
}

// ToWire encodes the geometry. References must be resolved.
func (g *Geometry) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		wire.PutOptional(obj, keyConvexHull, wire.EncodeBool, g.ConvexHull),
		putRef(obj, keyShape, g.Shape),
		putRef(obj, keyNode, g.Node),
	)
	if err != nil {
		return nil, err
	}
	g.EncodePassthrough(obj)
	return obj, nil
}

// DecodeGeometry decodes a geometry object. A null document yields nil.
func DecodeGeometry(v any) (*Geometry, error) {
	if v == nil {
		return nil, nil
	}
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	g := &Geometry{}
	if g.ConvexHull, err = wire.GetOptional(obj, keyConvexHull, wire.DecodeBool); err != nil {
		return nil, err
	}
	if g.Shape, err = getRef(obj, keyShape, ArrayShapes); err != nil {
		return nil, err
	}
	if g.Node, err = getRef(obj, keyNode, ArrayNodes); err != nil {
		return nil, err
	}
	if g.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Geometry) references() []*Ref {
	if g == nil {
		return nil
	}
	return []*Ref{g.Shape, g.Node}
}

// Collider gives a node a solid collision volume.
type Collider struct {
	Geometry        *Geometry
	PhysicsMaterial *Ref
	CollisionFilter *Ref
	wire.Passthrough
}

// ToWire encodes the collider. References must be resolved.
func (c *Collider) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		putEntity(obj, keyGeometry, c.Geometry),
		putRef(obj, keyPhysicsMaterial, c.PhysicsMaterial),
		putRef(obj, keyCollisionFilter, c.CollisionFilter),
	)
	if err != nil {
		return nil, err
	}
	c.EncodePassthrough(obj)
	return obj, nil
}

// DecodeCollider decodes a collider object.
func DecodeCollider(v any) (*Collider, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	c := &Collider{}
	if c.Geometry, err = getEntity(obj, keyGeometry, DecodeGeometry); err != nil {
		return nil, err
	}
	if c.PhysicsMaterial, err = getRef(obj, keyPhysicsMaterial, ArrayMaterials); err != nil {
		return nil, err
	}
	if c.CollisionFilter, err = getRef(obj, keyCollisionFilter, ArrayCollisionFilters); err != nil {
		return nil, err
	}
	if c.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collider) references() []*Ref {
	return append(c.Geometry.references(), c.PhysicsMaterial, c.CollisionFilter)
}

// Trigger is a collision volume that reports overlaps without a physical
// response.
type Trigger struct {
	Geometry        *Geometry
	CollisionFilter *Ref
	wire.Passthrough
}

// ToWire encodes the trigger. References must be resolved.
func (t *Trigger) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		putEntity(obj, keyGeometry, t.Geometry),
		putRef(obj, keyCollisionFilter, t.CollisionFilter),
	)
	if err != nil {
		return nil, err
	}
	t.EncodePassthrough(obj)
	return obj, nil
}

// DecodeTrigger decodes a trigger object.
func DecodeTrigger(v any) (*Trigger, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	t := &Trigger{}
	if t.Geometry, err = getEntity(obj, keyGeometry, DecodeGeometry); err != nil {
		return nil, err
	}
	if t.CollisionFilter, err = getRef(obj, keyCollisionFilter, ArrayCollisionFilters); err != nil {
		return nil, err
	}
	if t.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trigger) references() []*Ref {
	return append(t.Geometry.references(), t.CollisionFilter)
}
