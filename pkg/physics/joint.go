package physics

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyLimits          = "limits"
	keyDrives          = "drives"
	keyConnectedNode   = "connectedNode"
	keyJoint           = "joint"
	keyEnableCollision = "enableCollision"
)

// JointDescription is a limit set: the full 6-DOF constraint between two
// bodies expressed as the union of its per-axis limits, plus optional
// drives. Descriptions live in the document's physicsJoints array.
type JointDescription struct {
	Limits []JointLimit
	Drives []JointDrive
	wire.Passthrough
}

// NewJointDescription returns a description holding limits.
func NewJointDescription(limits ...JointLimit) *JointDescription {
	if limits == nil {
		limits = []JointLimit{}
	}
	return &JointDescription{Limits: limits}
}

// AddLimit appends a limit.
func (j *JointDescription) AddLimit(l JointLimit) {
	j.Limits = append(j.Limits, l)
}

// AddDrive appends a drive.
func (j *JointDescription) AddDrive(d JointDrive) {
	j.Drives = append(j.Drives, d)
}

// ToWire encodes the description. limits is always written; drives only
// when present.
func (j *JointDescription) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	limits := make([]any, len(j.Limits))
	for i := range j.Limits {
		l, err := j.Limits[i].ToWire()
		if err != nil {
			return nil, wire.Field(keyLimits, wire.Index(i, err))
		}
		limits[i] = l
	}
	obj[keyLimits] = limits
	if j.Drives != nil {
		drives := make([]any, len(j.Drives))
		for i := range j.Drives {
			d, err := j.Drives[i].ToWire()
			if err != nil {
				return nil, wire.Field(keyDrives, wire.Index(i, err))
			}
			drives[i] = d
		}
		obj[keyDrives] = drives
	}
	j.EncodePassthrough(obj)
	return obj, nil
}

// DecodeJointDescription decodes a limit set. A missing limits key yields
// an empty limit list.
func DecodeJointDescription(v any) (*JointDescription, error) {
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	limits, err := wire.GetOptionalList(obj, keyLimits, DecodeJointLimit)
	if err != nil {
		return nil, err
	}
	j := NewJointDescription(limits...)
	if j.Drives, err = wire.GetOptionalList(obj, keyDrives, DecodeJointDrive); err != nil {
		return nil, err
	}
	if j.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return j, nil
}

// Validate checks every limit and drive.
func (j *JointDescription) Validate() error {
	var errs error
	for i := range j.Limits {
		if err := j.Limits[i].Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", keyLimits, i, err))
		}
	}
	for i := range j.Drives {
		if err := j.Drives[i].Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", keyDrives, i, err))
		}
	}
	return errs
}

// Joint attaches a node to ConnectedNode under the limit set referenced by
// Description (wire key "joint").
type Joint struct {
	ConnectedNode   *Ref
	Description     *Ref
	EnableCollision *bool
	wire.Passthrough
}

// ToWire encodes the joint. References must be resolved.
func (j *Joint) ToWire() (wire.Object, error) {
	obj := wire.Object{}
	err := multierr.Combine(
		putRef(obj, keyConnectedNode, j.ConnectedNode),
		putRef(obj, keyJoint, j.Description),
		wire.PutOptional(obj, keyEnableCollision, wire.EncodeBool, j.EnableCollision),
	)
	if err != nil {
		return nil, err
	}
	j.EncodePassthrough(obj)
	return obj, nil
}

// DecodeJoint decodes a joint object. A null document yields nil.
func DecodeJoint(v any) (*Joint, error) {
	if v == nil {
		return nil, nil
	}
	obj, err := wire.AsObject(v)
	if err != nil {
		return nil, err
	}
	j := &Joint{}
	if j.ConnectedNode, err = getRef(obj, keyConnectedNode, ArrayNodes); err != nil {
		return nil, err
	}
	if j.Description, err = getRef(obj, keyJoint, ArrayJoints); err != nil {
		return nil, err
	}
	if j.EnableCollision, err = wire.GetOptional(obj, keyEnableCollision, wire.DecodeBool); err != nil {
		return nil, err
	}
	if j.Passthrough, err = wire.DecodePassthrough(obj); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Joint) references() []*Ref {
	return []*Ref{j.ConnectedNode, j.Description}
}
