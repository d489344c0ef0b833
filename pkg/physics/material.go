package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

// CombineMode selects how two bodies' friction or restitution values are
// merged at a contact.
type CombineMode string

const (
	CombineAverage  CombineMode = "average"
	CombineMinimum  CombineMode = "minimum"
	CombineMaximum  CombineMode = "maximum"
	CombineMultiply CombineMode = "multiply"
)

// DefaultCombineMode applies when a material leaves a combine mode absent.
const DefaultCombineMode = CombineAverage

// Valid reports whether m is one of the four known modes.
func (m CombineMode) Valid() bool {
	switch m {
	case CombineAverage, CombineMinimum, CombineMaximum, CombineMultiply:
		return true
	}
	return false
}

func encodeCombineMode(m CombineMode) (any, error) {
	return string(m), nil
}

func decodeCombineMode(v any) (CombineMode, error) {
	s, err := wire.DecodeString(v)
	if err != nil {
		return "", err
	}
	m := CombineMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown combine mode %q", wire.ErrInvalidValue, s)
	}
	return m, nil
}

const (
	keyStaticFriction     = "staticFriction"
	keyDynamicFriction    = "dynamicFriction"
	keyRestitution        = "restitution"
	keyFrictionCombine    = "frictionCombine"
	keyRestitutionCombine = "restitutionCombine"
)

// Material describes surface response of a collider.
type Material struct {
	StaticFriction     *float64
	DynamicFriction    *float64
	Restitution        *float64
	FrictionCombine    *CombineMode
	RestitutionCombine *CombineMode
	wire.Passthrough
}

// EffectiveFrictionCombine returns the friction combine mode, applying the
// default when absent.
func (m *Material) EffectiveFrictionCombine() CombineMode {
	if m.FrictionCombine == nil {
		return DefaultCombineMode
	}
	return *m.FrictionCombine
}

// EffectiveRestitutionCombine returns the restitution combine mode, applying
// the default when absent.
func (m *Material) EffectiveRestitutionCombine() CombineMode {
	if m.RestitutionCombine == nil {
		return DefaultCombineMode
	}
	return *m.RestitutionCombine
}

// ToWire encodes the material.
func (m *Material) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		wire.PutOptional(obj, keyStaticFriction, wire.EncodeFloat, m.StaticFriction),
		wire.PutOptional(obj, keyDynamicFriction, wire.EncodeFloat, m.DynamicFriction),
		wire.PutOptional(obj, keyRestitution, wire.EncodeFloat, m.Restitution),
		wire.PutOptional(obj, keyFrictionCombine, encodeCombineMode, m.FrictionCombine),
		wire.PutOptional(obj, keyRestitutionCombine, encodeCombineMode, m.RestitutionCombine),
	)
	if err != nil {
		return nil, err
	}
	m.EncodePassthrough(obj)
	return obj, nil
}

// DecodeMaterial decodes a material object.
func DecodeMaterial(v any) (*Material, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	m := &Material{}
	if m.StaticFriction, err = wire.GetOptional(obj, keyStaticFriction, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.DynamicFriction, err = wire.GetOptional(obj, keyDynamicFriction, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.Restitution, err = wire.GetOptional(obj, keyRestitution, wire.DecodeFloat); err != nil {
		return nil, err
	}
	if m.FrictionCombine, err = wire.GetOptional(obj, keyFrictionCombine, decodeCombineMode); err != nil {
		return nil, err
	}
	if m.RestitutionCombine, err = wire.GetOptional(obj, keyRestitutionCombine, decodeCombineMode); err != nil {
		return nil, err
	}
	if m.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks value ranges the encoder does not.
func (m *Material) Validate() error {
	var errs error
	errs = multierr.Append(errs, nonNegative(keyStaticFriction, m.StaticFriction))
	errs = multierr.Append(errs, nonNegative(keyDynamicFriction, m.DynamicFriction))
	errs = multierr.Append(errs, nonNegative(keyRestitution, m.Restitution))
	if m.FrictionCombine != nil && !m.FrictionCombine.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: unknown combine mode %q", keyFrictionCombine, wire.ErrInvalidValue, *m.FrictionCombine))
	}
	if m.RestitutionCombine != nil && !m.RestitutionCombine.Valid() {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w: unknown combine mode %q", keyRestitutionCombine, wire.ErrInvalidValue, *m.RestitutionCombine))
	}
	return errs
}

func nonNegative(key string, f *float64) error {
	if f != nil && *f < 0 {
		return fmt.Errorf("%s: %w: %v is negative", key, wire.ErrInvalidValue, *f)
	}
	return nil
}
