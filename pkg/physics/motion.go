package physics

import (
	"fmt"

	"go.uber.org/multierr"

	pmath "github.com/Faultbox/khr-physics/pkg/math"
	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyIsKinematic        = "isKinematic"
	keyMass               = "mass"
	keyCenterOfMass       = "centerOfMass"
	keyInertiaDiagonal    = "inertiaDiagonal"
	keyInertiaOrientation = "inertiaOrientation"
	keyLinearVelocity     = "linearVelocity"
	keyAngularVelocity    = "angularVelocity"
	keyGravityFactor      = "gravityFactor"
	keyAngularDamping     = "angularDamping"
	keyLinearDamping      = "linearDamping"
	keyStartDeactivated   = "startDeactivated"
)

// inertiaOrientationTolerance bounds how far from unit length an inertia
// orientation may be.
const inertiaOrientationTolerance = 1e-3

// Motion makes a node a dynamic or kinematic rigid body. Every field is
// optional; absent means the simulator default. A present zero mass is
// meaningful (infinite mass) and is kept distinct from an absent one.
type Motion struct {
	IsKinematic        *bool
	Mass               *float64
	CenterOfMass       *pmath.Vec3
	InertiaDiagonal    *pmath.Vec3
	InertiaOrientation *pmath.Quat
	LinearVelocity     *pmath.Vec3
	AngularVelocity    *pmath.Vec3
	GravityFactor      *float64
	AngularDamping     *float64
	LinearDamping      *float64
	StartDeactivated   *bool
	wire.Passthrough
}

// ToWire encodes the motion.
func (m *Motion) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		wire.PutOptional(obj, keyIsKinematic, wire.EncodeBool, m.IsKinematic),
		wire.PutOptional(obj, keyMass, wire.EncodeFloat, m.Mass),
		wire.PutOptional(obj, keyCenterOfMass, wire.EncodeVec3, m.CenterOfMass),
		wire.PutOptional(obj, keyInertiaDiagonal, wire.EncodeVec3, m.InertiaDiagonal),
		wire.PutOptional(obj, keyInertiaOrientation, wire.EncodeQuat, m.InertiaOrientation),
		wire.PutOptional(obj, keyLinearVelocity, wire.EncodeVec3, m.LinearVelocity),
		wire.PutOptional(obj, keyAngularVelocity, wire.EncodeVec3, m.AngularVelocity),
		wire.PutOptional(obj, keyGravityFactor, wire.EncodeFloat, m.GravityFactor),
		wire.PutOptional(obj, keyAngularDamping, wire.EncodeFloat, m.AngularDamping),
		wire.PutOptional(obj, keyLinearDamping, wire.EncodeFloat, m.LinearDamping),
		wire.PutOptional(obj, keyStartDeactivated, wire.EncodeBool, m.StartDeactivated),
	)
	if err != nil {
		return nil, err
	}
	m.EncodePassthrough(obj)
	return obj, nil
}

// DecodeMotion decodes a motion object. A null document yields nil.
func DecodeMotion(v any) (*Motion, error) {
	if v == nil {
		return nil, nil
	}
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	m := &Motion{}
	if m.IsKinematic, err = wire.GetOptional(obj, keyIsKinematic, wire.DecodeBool); err != nil {
		return nil, err
	}
	if m.Mass, err = wire.GetOptional(obj, keyMass, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.CenterOfMass, err = wire.GetOptional(obj, keyCenterOfMass, wire.DecodeVec3); err != nil {
		return nil, err
	}
	if m.InertiaDiagonal, err = wire.GetOptional(obj, keyInertiaDiagonal, wire.DecodeVec3); err != nil {
		return nil, err
	}
	if m.InertiaOrientation, err = wire.GetOptional(obj, keyInertiaOrientation, wire.DecodeQuat); err != nil {
		return nil, err
	}
	if m.LinearVelocity, err = wire.GetOptional(obj, keyLinearVelocity, wire.DecodeVec3); err != nil {
		return nil, err
	}
	if m.AngularVelocity, err = wire.GetOptional(obj, keyAngularVelocity, wire.DecodeVec3); err != nil {
		return nil, err
	}
	if m.GravityFactor, err = wire.GetOptional(obj, keyGravityFactor, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.AngularDamping, err = wire.GetOptional(obj, keyAngularDamping, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.LinearDamping, err = wire.GetOptional(obj, keyLinearDamping, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.StartDeactivated, err = wire.GetOptional(obj, keyStartDeactivated, wire.DecodeBool); err != nil {
		return nil, err
	}
	if m.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks mass and inertia ranges.
func (m *Motion) Validate() error {
	var errs error
	errs = multierr.Append(errs, nonNegative(keyMass, m.Mass))
	if d := m.InertiaDiagonal; d != nil && (d.X < 0 || d.Y < 0 || d.Z < 0) {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: negative component in %v", keyInertiaDiagonal, wire.ErrInvalidValue, *d))
	}
	if q := m.InertiaOrientation; q != nil && !q.IsUnit(inertiaOrientationTolerance) {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: not a unit quaternion (length %.4f)", keyInertiaOrientation, wire.ErrInvalidValue, q.Length()))
	}
	errs = multierr.Append(errs, nonNegative(keyAngularDamping, m.AngularDamping))
	errs = multierr.Append(errs, nonNegative(keyLinearDamping, m.LinearDamping))
	return errs
}
