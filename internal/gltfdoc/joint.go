package gltfdoc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/khr-physics/internal/logger"
	pmath "github.com/Faultbox/khr-physics/pkg/math"
	"github.com/Faultbox/khr-physics/pkg/physics"
	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyChildren    = "children"
	keyMatrix      = "matrix"
	keyTranslation = "translation"
	keyRotation    = "rotation"
	keyScale       = "scale"
)

// WorldMatrix returns the world transform of node i, composing the local
// transforms of all its ancestors.
func (f *File) WorldMatrix(i int) (pmath.Mat4, error) {
	nodes := f.nodes()
	parents, err := parentIndex(nodes)
	if err != nil {
		return pmath.Mat4{}, err
	}

	if i < 0 || i >= len(nodes) {
		return pmath.Mat4{}, fmt.Errorf("%w: node %d out of range (%d nodes)", wire.ErrInvalidValue, i, len(nodes))
	}

	world := pmath.Identity()
	for depth := 0; i >= 0; depth++ {
		if i >= len(nodes) {
			return pmath.Mat4{}, fmt.Errorf("%w: node %d out of range (%d nodes)", wire.ErrInvalidValue, i, len(nodes))
		}
		if depth > len(nodes) {
			return pmath.Mat4{}, fmt.Errorf("%w: node hierarchy contains a cycle", wire.ErrSchemaViolation)
		}
		node, ok := nodes[i].(wire.Object)
		if !ok {
			return pmath.Mat4{}, fmt.Errorf("%s[%d]: %w: expected object", keyNodes, i, wire.ErrSchemaViolation)
		}
		local, err := localMatrix(node)
		if err != nil {
			return pmath.Mat4{}, fmt.Errorf("%s[%d]: %w", keyNodes, i, err)
		}
		world = local.Mul(world)
		i = parents[i]
	}
	return world, nil
}

// parentIndex maps each node to its parent, -1 for roots.
func parentIndex(nodes []any) ([]int, error) {
	parents := make([]int, len(nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range nodes {
		node, ok := n.(wire.Object)
		if !ok {
			continue
		}
		children, err := wire.GetOptionalList(node, keyChildren, wire.DecodeInt)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyNodes, i, err)
		}
		for _, c := range children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("%s[%d]: %s: %w: node %d out of range", keyNodes, i, keyChildren, wire.ErrInvalidValue, c)
			}
			parents[c] = i
		}
	}
	return parents, nil
}

// localMatrix reads a node's matrix, or composes its TRS properties.
func localMatrix(node wire.Object) (pmath.Mat4, error) {
	if raw, ok := node[keyMatrix]; ok && raw != nil {
		vals, err := wire.DecodeList(wire.DecodeFloat)(raw)
		if err != nil {
			return pmath.Mat4{}, wire.Field(keyMatrix, err)
		}
		if len(vals) != 16 {
			return pmath.Mat4{}, wire.Field(keyMatrix, fmt.Errorf("%w: expected 16 numbers, got %d", wire.ErrMalformedPrimitive, len(vals)))
		}
		var m pmath.Mat4
		copy(m[:], vals)
		return m, nil
	}

	t, err := wire.GetOptional(node, keyTranslation, wire.DecodeVec3)
	if err != nil {
		return pmath.Mat4{}, err
	}
	r, err := wire.GetOptional(node, keyRotation, wire.DecodeQuat)
	if err != nil {
		return pmath.Mat4{}, err
	}
	s, err := wire.GetOptional(node, keyScale, wire.DecodeVec3)
	if err != nil {
		return pmath.Mat4{}, err
	}

	translation, rotation, scale := pmath.Vec3{}, pmath.QuatIdentity(), pmath.V3(1, 1, 1)
	if t != nil {
		translation = *t
	}
	if r != nil {
		rotation = *r
	}
	if s != nil {
		scale = *s
	}
	return pmath.FromTRS(translation, rotation, scale), nil
}

// AttachJoint connects bodyA to bodyB with desc, pivoting at jointWorld.
// Joints live on a child of bodyA and point at a child of bodyB, each
// holding the joint frame in its body's space, so two pivot nodes are
// added. The description is appended to the document's joint array.
func (f *File) AttachJoint(bodyA, bodyB int, jointWorld pmath.Mat4, desc *physics.JointDescription, enableCollision *bool) (pivotA, pivotB int, err error) {
	if bodyA == bodyB {
		return 0, 0, fmt.Errorf("%w: a joint needs two distinct bodies", wire.ErrInvalidValue)
	}
	aWorld, err := f.WorldMatrix(bodyA)
	if err != nil {
		return 0, 0, err
	}
	bWorld, err := f.WorldMatrix(bodyB)
	if err != nil {
		return 0, 0, err
	}

	doc, _, err := f.Physics()
	if err != nil {
		return 0, 0, err
	}
	jointIndex, err := doc.AppendTo(physics.ArrayJoints, desc)
	if err != nil {
		return 0, 0, err
	}
	docWire, err := doc.ToWire()
	if err != nil {
		return 0, 0, err
	}

	nodeB, err := pivotNode("jointSpaceB", bWorld.Inverse().Mul(jointWorld))
	if err != nil {
		return 0, 0, err
	}
	nodeA, err := pivotNode("jointSpaceA", aWorld.Inverse().Mul(jointWorld))
	if err != nil {
		return 0, 0, err
	}

	nodes := &rootArray{root: f.Root, key: keyNodes}
	if pivotB, err = nodes.Append(nodeB); err != nil {
		return 0, 0, err
	}
	ext := &physics.NodeExtension{Joint: &physics.Joint{
		ConnectedNode:   physics.Resolved(pivotB),
		Description:     physics.Resolved(jointIndex),
		EnableCollision: enableCollision,
	}}
	extWire, err := ext.ToWire()
	if err != nil {
		return 0, 0, err
	}
	setExtensionBlock(nodeA, physics.ExtensionName, extWire)
	if pivotA, err = nodes.Append(nodeA); err != nil {
		return 0, 0, err
	}

	if err := addChild(f.nodes(), bodyB, pivotB); err != nil {
		return 0, 0, err
	}
	if err := addChild(f.nodes(), bodyA, pivotA); err != nil {
		return 0, 0, err
	}

	setExtensionBlock(f.Root, physics.ExtensionName, docWire)
	setExtensionUsed(f.Root, physics.ExtensionName, true)

	logger.Info("attached joint",
		zap.Int("bodyA", bodyA),
		zap.Int("bodyB", bodyB),
		zap.Int("joint", jointIndex),
		zap.Int("pivotA", pivotA),
		zap.Int("pivotB", pivotB))
	return pivotA, pivotB, nil
}

// pivotNode builds a node placing m's translation and rotation. Scale is
// dropped: joint frames are rigid.
func pivotNode(name string, m pmath.Mat4) (wire.Object, error) {
	if !m.IsFinite() {
		return nil, fmt.Errorf("%w: %s transform is not finite", wire.ErrInvalidValue, name)
	}
	node := wire.Object{"name": name}
	var err error
	if node[keyTranslation], err = wire.EncodeVec3(m.Translation()); err != nil {
		return nil, err
	}
	if node[keyRotation], err = wire.EncodeQuat(m.Rotation()); err != nil {
		return nil, err
	}
	return node, nil
}

func addChild(nodes []any, parent, child int) error {
	if parent < 0 || parent >= len(nodes) {
		return fmt.Errorf("%w: node %d out of range (%d nodes)", wire.ErrInvalidValue, parent, len(nodes))
	}
	node, ok := nodes[parent].(wire.Object)
	if !ok {
		return fmt.Errorf("%s[%d]: %w: expected object", keyNodes, parent, wire.ErrSchemaViolation)
	}
	children, _ := node[keyChildren].([]any)
	node[keyChildren] = append(children, child)
	return nil
}
