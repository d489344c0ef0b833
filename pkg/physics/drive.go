package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// DriveType selects whether a drive acts along or around its axis.
type DriveType string

const (
	DriveLinear  DriveType = "linear"
	DriveAngular DriveType = "angular"
)

// DriveMode selects whether MaxForce limits force or acceleration.
type DriveMode string

const (
	DriveForce        DriveMode = "force"
	DriveAcceleration DriveMode = "acceleration"
)

const (
	keyType           = "type"
	keyMode           = "mode"
	keyAxis           = "axis"
	keyPositionTarget = "positionTarget"
	keyVelocityTarget = "velocityTarget"
	keyMaxForce       = "maxForce"
	keyStiffness      = "stiffness"
	keyDamping        = "damping"
)

// JointDrive motorizes one degree of freedom of a joint. Axis is 0, 1 or 2
// and means a translation axis for linear drives, a rotation axis for
// angular ones. An empty Type or Mode is unset: it is left off the wire and
// reads back as angular or force.
type JointDrive struct {
	Type           DriveType
	Mode           DriveMode
	Axis           int
	PositionTarget *float64
	VelocityTarget *float64
	MaxForce       *float64
	Stiffness      *float64
	Damping        *float64
	wire.Passthrough
}

// NewJointDrive returns a drive on axis with no targets set.
func NewJointDrive(axis int, typ DriveType, mode DriveMode) JointDrive {
	return JointDrive{Type: typ, Mode: mode, Axis: axis}
}

// ToWire encodes the drive.
func (d *JointDrive) ToWire() (wire.Object, error) {
	obj := wire.Object{keyAxis: d.Axis}
	if d.Type != "" {
		obj[keyType] = string(d.Type)
	}
	if d.Mode != "" {
		obj[keyMode] = string(d.Mode)
	}
	err := multierr.Combine(
		wire.PutOptional(obj, keyPositionTarget, wire.EncodeFloat, d.PositionTarget),
		wire.PutOptional(obj, keyVelocityTarget, wire.EncodeFloat, d.VelocityTarget),
		wire.PutOptional(obj, keyMaxForce, wire.EncodeFloat, d.MaxForce),
		wire.PutOptional(obj, keyStiffness, wire.EncodeFloat, d.Stiffness),
		wire.PutOptional(obj, keyDamping, wire.EncodeFloat, d.Damping),
	)
	if err != nil {
		return nil, err
	}
	d.EncodePassthrough(obj)
	return obj, nil
}

// DecodeJointDrive decodes a drive object. Missing type, mode and axis fall
// back to angular, force and 0.
func DecodeJointDrive(v any) (JointDrive, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return JointDrive{}, err
	}
	d := NewJointDrive(0, DriveAngular, DriveForce)
	typ, err := wire.GetOptional(obj, keyType, decodeDriveType)
	if err != nil {
		return JointDrive{}, err
	}
	if typ != nil {
		d.Type = *typ
	}
	mode, err := wire.GetOptional(obj, keyMode, decodeDriveMode)
	if err != nil {
		return JointDrive{}, err
	}
	if mode != nil {
		d.Mode = *mode
	}
	axis, err := wire.GetOptional(obj, keyAxis, decodeAxis)
	if err != nil {
		return JointDrive{}, err
	}
	if axis != nil {
		d.Axis = *axis
	}
	if d.PositionTarget, err = wire.GetOptional(obj, keyPositionTarget, wire.DecodeFloat); err != nil {
		return JointDrive{}, err
	}
	if d.VelocityTarget, err = wire.GetOptional(obj, keyVelocityTarget, wire.DecodeFloat); err != nil {
		return JointDrive{}, err
	}
	if d.MaxForce, err = wire.GetOptional(obj, keyMaxForce, wire.DecodeFloat); err != nil {
		return JointDrive{}, err
	}
	if d.Stiffness, err = wire.GetOptional(obj, keyStiffness, wire.DecodeFloat); err != nil {
		return JointDrive{}, err
	}
	if d.Damping, err = wire.GetOptional(obj, keyDamping, wire.DecodeFloat); err != nil {
		return JointDrive{}, err
	}
	if d.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return JointDrive{}, err
	}
	return d, nil
}

// Validate checks enum values, axis range and non-negative gains.
func (d *JointDrive) Validate() error {
	var errs error
	if d.Type != "" && d.Type != DriveLinear && d.Type != DriveAngular {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: unknown drive type %q", keyType, wire.ErrInvalidValue, d.Type))
	}
	if d.Mode != "" && d.Mode != DriveForce && d.Mode != DriveAcceleration {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: unknown drive mode %q", keyMode, wire.ErrInvalidValue, d.Mode))
	}
	if !validAxis(d.Axis) {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: axis %d outside 0..2", keyAxis, wire.ErrInvalidValue, d.Axis))
	}
	errs = multierr.Append(errs, nonNegative(keyMaxForce, d.MaxForce))
	errs = multierr.Append(errs, nonNegative(keyStiffness, d.Stiffness))
	errs = multierr.Append(errs, nonNegative(keyDamping, d.Damping))
	return errs
}

func decodeDriveType(v any) (DriveType, error) {
	s, err := wire.DecodeString(v)
	if err != nil {
		return "", err
	}
	switch t := DriveType(s); t {
	case DriveLinear, DriveAngular:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown drive type %q", wire.ErrInvalidValue, s)
}

func decodeDriveMode(v any) (DriveMode, error) {
	s, err := wire.DecodeString(v)
	if err != nil {
		return "", err
	}
	switch m := DriveMode(s); m {
	case DriveForce, DriveAcceleration:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown drive mode %q", wire.ErrInvalidValue, s)
}

func validAxis(axis int) bool {
	return axis >= 0 && axis <= 2
}

func decodeAxis(v any) (int, error) {
	axis, err := wire.DecodeInt(v)
	if err != nil {
		return 0, err
	}
	if !validAxis(axis) {
		return 0, fmt.Errorf("%w: axis %d outside 0..2", wire.ErrInvalidValue, axis)
	}
	return axis, nil
}
