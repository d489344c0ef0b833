package physics

import (
	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyCollisionSystems      = "collisionSystems"
	keyCollideWithSystems    = "collideWithSystems"
	keyNotCollideWithSystems = "notCollideWithSystems"
)

// CollisionFilter assigns a collider to named collision systems and lists
// which systems it does or does not collide with. Label order is kept on
// the wire but carries no meaning.
type CollisionFilter struct {
	CollisionSystems      []string
	CollideWithSystems    []string
	NotCollideWithSystems []string
	wire.Passthrough
}

// ToWire encodes the filter.
func (f *CollisionFilter) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		wire.PutOptionalList(obj, keyCollisionSystems, wire.EncodeString, f.CollisionSystems),
		wire.PutOptionalList(obj, keyCollideWithSystems, wire.EncodeString, f.CollideWithSystems),
		wire.PutOptionalList(obj, keyNotCollideWithSystems, wire.EncodeString, f.NotCollideWithSystems),
	)
	if err != nil {
		return nil, err
	}
	f.EncodePassthrough(obj)
	return obj, nil
}

// DecodeCollisionFilter decodes a collision filter object.
func DecodeCollisionFilter(v any) (*CollisionFilter, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	f := &CollisionFilter{}
	if f.CollisionSystems, err = wire.GetOptionalList(obj, keyCollisionSystems, wire.DecodeString); err != nil {
		return nil, err
	}
	if f.CollideWithSystems, err = wire.GetOptionalList(obj, keyCollideWithSystems, wire.DecodeString); err != nil {
		return nil, err
	}
	if f.NotCollideWithSystems, err = wire.GetOptionalList(obj, keyNotCollideWithSystems, wire.DecodeString); err != nil {
		return nil, err
	}
	if f.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return f, nil
}
