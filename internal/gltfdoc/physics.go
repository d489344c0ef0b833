package gltfdoc

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/khr-physics/internal/logger"
	"github.com/Faultbox/khr-physics/pkg/physics"
	"github.com/Faultbox/khr-physics/pkg/wire"
)

const (
	keyNodes          = "nodes"
	keyShapes         = "shapes"
	keyExtensionsUsed = "extensionsUsed"
)

// NodeBinding ties a decoded node extension to its glTF node.
type NodeBinding struct {
	Index int
	Name  string
	Ext   *physics.NodeExtension

	node wire.Object
}

// Physics decodes the document-level extension block (an empty document
// when absent) and the extension block of every node that carries one.
func (f *File) Physics() (*physics.Document, []NodeBinding, error) {
	doc := physics.NewDocument()
	if raw, ok := extensionBlock(f.Root, physics.ExtensionName); ok {
		var err error
		if doc, err = physics.DecodeDocument(raw); err != nil {
			return nil, nil, fmt.Errorf("extensions: %s: %w", physics.ExtensionName, err)
		}
	}

	var bindings []NodeBinding
	for i, n := range f.nodes() {
		b, ok, err := bindNode(i, n)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			bindings = append(bindings, b)
		}
	}
	return doc, bindings, nil
}

// bindNode decodes the extension block of node i, reporting false when the
// node has none.
func bindNode(i int, n any) (NodeBinding, bool, error) {
	node, ok := n.(wire.Object)
	if !ok {
		return NodeBinding{}, false, fmt.Errorf("%s[%d]: %w: expected object", keyNodes, i, wire.ErrSchemaViolation)
	}
	raw, ok := extensionBlock(node, physics.ExtensionName)
	if !ok {
		return NodeBinding{}, false, nil
	}
	ext, err := physics.DecodeNodeExtension(raw)
	if err != nil {
		return NodeBinding{}, false, fmt.Errorf("%s[%d]: %s: %w", keyNodes, i, physics.ExtensionName, err)
	}
	name, _ := node["name"].(string)
	return NodeBinding{Index: i, Name: name, Ext: ext, node: node}, true, nil
}

// PackResult reports what Pack appended.
type PackResult struct {
	Document *physics.Document
	Nodes    []NodeBinding

	AddedNodes  int
	AddedShapes int
}

// Pack resolves every inline reference in the document's node blocks,
// appending payloads to the physics root arrays, the glTF nodes array or
// the implicit shapes array, and writes the packed blocks back into Root.
// Nodes appended along the way are packed too, so inline references inside
// their own blocks become indices as well.
func (f *File) Pack() (*PackResult, error) {
	doc, bindings, err := f.Physics()
	if err != nil {
		return nil, err
	}

	nodes := &rootArray{root: f.Root, key: keyNodes}
	shapes := &rootArray{root: f.Root, path: []string{wire.KeyExtensions, physics.ShapesExtensionName}, key: keyShapes}
	doc.RegisterArray(physics.ArrayNodes, nodes)
	doc.RegisterArray(physics.ArrayShapes, shapes)

	used := false
	pack := func(b NodeBinding) error {
		if err := doc.ResolveNode(b.Ext); err != nil {
			return fmt.Errorf("%s[%d]: %w", keyNodes, b.Index, err)
		}
		w, err := b.Ext.ToWire()
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", keyNodes, b.Index, err)
		}
		setExtensionBlock(b.node, physics.ExtensionName, w)
		if !b.Ext.IsEmpty() {
			used = true
		}
		return nil
	}

	appended := len(f.nodes())
	for _, b := range bindings {
		if err := pack(b); err != nil {
			return nil, err
		}
	}
	// Packing an appended node may append more; the loop bound follows.
	for ; appended < len(f.nodes()); appended++ {
		b, ok, err := bindNode(appended, f.nodes()[appended])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := pack(b); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		logger.Debug("packed appended node", zap.Int("node", appended), zap.String("name", b.Name))
	}

	docWire, err := doc.ToWire()
	if err != nil {
		return nil, fmt.Errorf("extensions: %s: %w", physics.ExtensionName, err)
	}
	if doc.ShouldExport() {
		setExtensionBlock(f.Root, physics.ExtensionName, docWire)
		used = true
	} else {
		removeExtensionBlock(f.Root, physics.ExtensionName)
	}

	setExtensionUsed(f.Root, physics.ExtensionName, used)
	if shapes.added > 0 {
		setExtensionUsed(f.Root, physics.ShapesExtensionName, true)
	}

	logger.Info("packed physics references",
		zap.Int("nodes", len(bindings)),
		zap.Int("materials", len(doc.Materials)),
		zap.Int("joints", len(doc.Joints)),
		zap.Int("collisionFilters", len(doc.CollisionFilters)),
		zap.Int("addedNodes", nodes.added),
		zap.Int("addedShapes", shapes.added))

	return &PackResult{
		Document:    doc,
		Nodes:       bindings,
		AddedNodes:  nodes.added,
		AddedShapes: shapes.added,
	}, nil
}

// Validate runs semantic checks on the document and every node, collecting
// all violations.
func Validate(doc *physics.Document, bindings []NodeBinding) error {
	var errs error
	if err := doc.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("extensions: %s: %w", physics.ExtensionName, err))
	}
	for _, b := range bindings {
		if err := b.Ext.Validate(doc); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", keyNodes, b.Index, err))
		}
	}
	return errs
}

// Summary counts physics content in a document.
type Summary struct {
	Materials        int
	Joints           int
	CollisionFilters int

	Nodes     int
	Motions   int
	Colliders int
	Triggers  int
	JointRefs int
}

// Summarize counts the root arrays and node parts.
func Summarize(doc *physics.Document, bindings []NodeBinding) Summary {
	s := Summary{
		Materials:        len(doc.Materials),
		Joints:           len(doc.Joints),
		CollisionFilters: len(doc.CollisionFilters),
		Nodes:            len(bindings),
	}
	for _, b := range bindings {
		if b.Ext.Motion != nil {
			s.Motions++
		}
		if b.Ext.Collider != nil {
			s.Colliders++
		}
		if b.Ext.Trigger != nil {
			s.Triggers++
		}
		if b.Ext.Joint != nil {
			s.JointRefs++
		}
	}
	return s
}

// rootArray appends encoded payloads to an array of objects inside root,
// creating the containing objects on first use.
type rootArray struct {
	root  wire.Object
	path  []string
	key   string
	added int
}

func (a *rootArray) Append(payload any) (int, error) {
	var item wire.Object
	switch p := payload.(type) {
	case wire.Object:
		item = p
	case wire.Encoder:
		w, err := p.ToWire()
		if err != nil {
			return 0, err
		}
		item = w
	default:
		return 0, fmt.Errorf("%w: %s cannot hold %T", wire.ErrInvalidValue, a.key, payload)
	}

	parent := a.root
	for _, k := range a.path {
		child, ok := parent[k].(wire.Object)
		if !ok {
			if parent[k] != nil {
				return 0, fmt.Errorf("%s: %w: expected object", k, wire.ErrSchemaViolation)
			}
			child = wire.Object{}
			parent[k] = child
		}
		parent = child
	}

	items, ok := parent[a.key].([]any)
	if !ok && parent[a.key] != nil {
		return 0, fmt.Errorf("%s: %w: expected array", a.key, wire.ErrSchemaViolation)
	}
	parent[a.key] = append(items, item)
	a.added++
	return len(items), nil
}

func extensionBlock(obj wire.Object, name string) (any, bool) {
	exts, ok := obj[wire.KeyExtensions].(wire.Object)
	if !ok {
		return nil, false
	}
	raw, ok := exts[name]
	return raw, ok && raw != nil
}

func setExtensionBlock(obj wire.Object, name string, block wire.Object) {
	exts, ok := obj[wire.KeyExtensions].(wire.Object)
	if !ok {
		exts = wire.Object{}
		obj[wire.KeyExtensions] = exts
	}
	exts[name] = block
}

func removeExtensionBlock(obj wire.Object, name string) {
	exts, ok := obj[wire.KeyExtensions].(wire.Object)
	if !ok {
		return
	}
	delete(exts, name)
	if len(exts) == 0 {
		delete(obj, wire.KeyExtensions)
	}
}

// setExtensionUsed adds or removes name from the root extensionsUsed list.
func setExtensionUsed(root wire.Object, name string, used bool) {
	raw, _ := root[keyExtensionsUsed].([]any)
	idx := slices.Index(raw, any(name))
	switch {
	case used && idx < 0:
		root[keyExtensionsUsed] = append(raw, name)
	case !used && idx >= 0:
		raw = slices.Delete(raw, idx, idx+1)
		if len(raw) == 0 {
			delete(root, keyExtensionsUsed)
		} else {
			root[keyExtensionsUsed] = raw
		}
	}
}
