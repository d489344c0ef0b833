package physics

import (
	"fmt"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// Axis indices in glTF space.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

var allAxes = []int{AxisX, AxisY, AxisZ}

// AxisLimit is one single-axis limit of a generic joint.
type AxisLimit struct {
	Linear    bool
	Axis      int
	Min       *float64
	Max       *float64
	Stiffness *float64
	Damping   *float64
}

// FixedJoint locks all six degrees of freedom.
func FixedJoint() *JointDescription {
	return NewJointDescription(
		LinearLimit(axes(allAxes...), locked(), locked()),
		AngularLimit(axes(allAxes...), locked(), locked()),
	)
}

// PointJoint locks translation and leaves rotation free.
func PointJoint() *JointDescription {
	return NewJointDescription(
		LinearLimit(axes(allAxes...), locked(), locked()),
	)
}

// HingeJoint rotates about axis only. A nil bound leaves that side free.
func HingeJoint(axis int, lower, upper *float64) (*JointDescription, error) {
	if !validAxis(axis) {
		return nil, axisError(axis)
	}
	j := NewJointDescription(
		LinearLimit(axes(allAxes...), locked(), locked()),
		AngularLimit(otherAxes(axis), locked(), locked()),
	)
	if lower != nil || upper != nil {
		j.AddLimit(AngularLimit(axes(axis), lower, upper))
	}
	return j, nil
}

// SliderJoint translates along axis only.
func SliderJoint(axis int, lower, upper *float64) (*JointDescription, error) {
	if !validAxis(axis) {
		return nil, axisError(axis)
	}
	j := NewJointDescription(
		AngularLimit(axes(allAxes...), locked(), locked()),
		LinearLimit(otherAxes(axis), locked(), locked()),
	)
	if lower != nil || upper != nil {
		j.AddLimit(LinearLimit(axes(axis), lower, upper))
	}
	return j, nil
}

// PistonJoint translates along and rotates about axis.
func PistonJoint(axis int, linLower, linUpper, angLower, angUpper *float64) (*JointDescription, error) {
	if !validAxis(axis) {
		return nil, axisError(axis)
	}
	j := NewJointDescription(
		AngularLimit(otherAxes(axis), locked(), locked()),
		LinearLimit(otherAxes(axis), locked(), locked()),
	)
	if linLower != nil || linUpper != nil {
		j.AddLimit(LinearLimit(axes(axis), linLower, linUpper))
	}
	if angLower != nil || angUpper != nil {
		j.AddLimit(AngularLimit(axes(axis), angLower, angUpper))
	}
	return j, nil
}

// GenericJoint builds one single-axis limit per entry, in order.
func GenericJoint(limits ...AxisLimit) (*JointDescription, error) {
	j := NewJointDescription()
	for i, al := range limits {
		if !validAxis(al.Axis) {
			return nil, wire.Index(i, axisError(al.Axis))
		}
		var l JointLimit
		if al.Linear {
			l = LinearLimit(axes(al.Axis), al.Min, al.Max)
		} else {
			l = AngularLimit(axes(al.Axis), al.Min, al.Max)
		}
		j.AddLimit(l.WithSpring(al.Stiffness, al.Damping))
	}
	return j, nil
}

func axes(a ...int) []int {
	return append([]int(nil), a...)
}

func otherAxes(axis int) []int {
	out := make([]int, 0, 2)
	for _, a := range allAxes {
		if a != axis {
			out = append(out, a)
		}
	}
	return out
}

func locked() *float64 {
	return wire.Ptr(0.0)
}

func axisError(axis int) error {
	return fmt.Errorf("%w: axis %d outside 0..2", wire.ErrInvalidValue, axis)
}
