package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyLinearAxes  = "linearAxes"
	keyAngularAxes = "angularAxes"
	keyMin         = "min"
	keyMax         = "max"
)

// JointLimit restricts translation (LinearAxes) or rotation (AngularAxes)
// on one or more axes to [Min, Max]. Exactly one axis set is populated;
// build limits with LinearLimit or AngularLimit. Stiffness and Damping
// turn the hard limit into a spring.
type JointLimit struct {
	LinearAxes  []int
	AngularAxes []int
	Min         *float64
	Max         *float64
	Stiffness   *float64
	Damping     *float64
	wire.Passthrough
}

// LinearLimit limits translation along axes.
func LinearLimit(axes []int, lower, upper *float64) JointLimit {
	return JointLimit{LinearAxes: axes, Min: lower, Max: upper}
}

// AngularLimit limits rotation around axes.
func AngularLimit(axes []int, lower, upper *float64) JointLimit {
	return JointLimit{AngularAxes: axes, Min: lower, Max: upper}
}

// WithSpring returns a copy of l with spring parameters set.
func (l JointLimit) WithSpring(stiffness, damping *float64) JointLimit {
	l.Stiffness = stiffness
	l.Damping = damping
	return l
}

// IsLinear reports whether the limit constrains translation.
func (l *JointLimit) IsLinear() bool {
	return l.LinearAxes != nil
}

// ToWire encodes the limit. Axis sets are written as given.
func (l *JointLimit) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		wire.PutOptionalList(obj, keyLinearAxes, wire.EncodeInt, l.LinearAxes),
		wire.PutOptionalList(obj, keyAngularAxes, wire.EncodeInt, l.AngularAxes),
		wire.PutOptional(obj, keyMin, wire.EncodeFloat, l.Min),
		wire.PutOptional(obj, keyMax, wire.EncodeFloat, l.Max),
		wire.PutOptional(obj, keyStiffness, wire.EncodeFloat, l.Stiffness),
		wire.PutOptional(obj, keyDamping, wire.EncodeFloat, l.Damping),
	)
	if err != nil {
		return nil, err
	}
	l.EncodePassthrough(obj)
	return obj, nil
}

// DecodeJointLimit decodes a limit object. Axis indices must lie in 0..2
// and must not repeat within one axis set.
func DecodeJointLimit(v any) (JointLimit, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return JointLimit{}, err
	}
	var l JointLimit
	if l.LinearAxes, err = getAxes(obj, keyLinearAxes); err != nil {
		return JointLimit{}, err
	}
	if l.AngularAxes, err = getAxes(obj, keyAngularAxes); err != nil {
		return JointLimit{}, err
	}
	if l.Min, err = wire.GetOptional(obj, keyMin, wire.DecodeFloat); err != nil {
		return JointLimit{}, err
	}
	if l.Max, err = wire.GetOptional(obj, keyMax, wire.DecodeFloat); err != nil {
		return JointLimit{}, err
	}
	if l.Stiffness, err = wire.GetOptional(obj, keyStiffness, wire.DecodeFloat); err != nil {
		return JointLimit{}, err
	}
	if l.Damping, err = wire.GetOptional(obj, keyDamping, wire.DecodeFloat); err != nil {
		return JointLimit{}, err
	}
	if l.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return JointLimit{}, err
	}
	return l, nil
}

// Validate checks that exactly one axis set is present, that axes are
// valid and distinct, and that min does not exceed max.
func (l *JointLimit) Validate() error {
	var errs error
	switch {
	case l.LinearAxes != nil && l.AngularAxes != nil:
		errs = multierr.Append(errs, fmt.Errorf("%w: both %s and %s set", wire.ErrInvalidValue, keyLinearAxes, keyAngularAxes))
	case l.LinearAxes == nil && l.AngularAxes == nil:
		errs = multierr.Append(errs, fmt.Errorf("%w: neither %s nor %s set", wire.ErrInvalidValue, keyLinearAxes, keyAngularAxes))
	}
	errs = multierr.Append(errs, wire.Field(keyLinearAxes, checkAxes(l.LinearAxes)))
	errs = multierr.Append(errs, wire.Field(keyAngularAxes, checkAxes(l.AngularAxes)))
	if l.Min != nil && l.Max != nil && *l.Min > *l.Max {
		errs = multierr.Append(errs, fmt.Errorf("%w: min %v exceeds max %v", wire.ErrInvalidValue, *l.Min, *l.Max))
	}
	errs = multierr.Append(errs, nonNegative(keyStiffness, l.Stiffness))
	errs = multierr.Append(errs, nonNegative(keyDamping, l.Damping))
	return errs
}

func getAxes(obj wire.Object, key string) ([]int, error) {
	axes, err := wire.GetOptionalList(obj, key, decodeAxis)
	if err != nil {
		return nil, err
	}
	if err := checkAxes(axes); err != nil {
		return nil, wire.Field(key, err)
	}
	return axes, nil
}

func checkAxes(axes []int) error {
	var seen [3]bool
	for _, a := range axes {
		if !validAxis(a) {
			return fmt.Errorf("%w: axis %d outside 0..2", wire.ErrInvalidValue, a)
		}
		if seen[a] {
			return fmt.Errorf("%w: duplicate axis %d", wire.ErrInvalidValue, a)
		}
		seen[a] = true
	}
	return nil
}
