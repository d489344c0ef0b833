package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/khr-physics/internal/config"
	"github.com/Faultbox/khr-physics/internal/gltfdoc"
	"github.com/Faultbox/khr-physics/internal/logger"
	pmath "github.com/Faultbox/khr-physics/pkg/math"
	"github.com/Faultbox/khr-physics/pkg/physics"
)

var errUsage = errors.New("invalid usage")

func cmdInfo(args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: physx info <file>", errUsage)
	}

	f, err := gltfdoc.Load(args[0])
	if err != nil {
		return err
	}
	doc, bindings, err := f.Physics()
	if err != nil {
		return err
	}
	s := gltfdoc.Summarize(doc, bindings)

	fmt.Fprintf(out, "Document: %s (%s)\n", args[0], f.Format)
	fmt.Fprintf(out, "Materials:         %d\n", s.Materials)
	fmt.Fprintf(out, "Joints:            %d\n", s.Joints)
	fmt.Fprintf(out, "Collision filters: %d\n", s.CollisionFilters)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Physics nodes:     %d\n", s.Nodes)
	fmt.Fprintf(out, "  motion           %d\n", s.Motions)
	fmt.Fprintf(out, "  collider         %d\n", s.Colliders)
	fmt.Fprintf(out, "  trigger          %d\n", s.Triggers)
	fmt.Fprintf(out, "  joint            %d\n", s.JointRefs)
	return nil
}

func cmdValidate(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: physx validate <file>", errUsage)
	}

	f, err := gltfdoc.Load(args[0])
	if err != nil {
		return err
	}
	doc, bindings, err := f.Physics()
	if err != nil {
		return err
	}

	if err := gltfdoc.Validate(doc, bindings); err != nil {
		violations := multierr.Errors(err)
		for _, v := range violations {
			fmt.Fprintf(out, "  %v\n", v)
		}
		if cfg.Validation.Strict {
			return fmt.Errorf("%d violation(s) in %s", len(violations), args[0])
		}
		logger.Warn("document has semantic violations",
			zap.String("path", args[0]),
			zap.Int("count", len(violations)))
	}

	fmt.Fprintf(out, "OK: %s (%d physics nodes)\n", args[0], len(bindings))
	return nil
}

func cmdPack(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: physx pack <in> [out]", errUsage)
	}

	f, err := gltfdoc.Load(args[0])
	if err != nil {
		return err
	}
	res, err := f.Pack()
	if err != nil {
		return err
	}
	if cfg.Validation.Strict {
		if err := gltfdoc.Validate(res.Document, res.Nodes); err != nil {
			return err
		}
	}

	format, err := outputFormat(cfg, args)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		data, err := f.Encode(format, cfg.Output.Indent)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	if err := f.Write(args[1], format, cfg.Output.Indent); err != nil {
		return err
	}
	logger.Info("packed document",
		zap.String("in", args[0]),
		zap.String("out", args[1]),
		zap.String("format", string(format)))
	return nil
}

// outputFormat picks the configured format, then the output extension,
// then the input format.
func outputFormat(cfg *config.Config, args []string) (gltfdoc.Format, error) {
	if cfg.Output.Format != "" {
		return gltfdoc.ParseFormat(cfg.Output.Format)
	}
	if len(args) > 1 {
		return gltfdoc.FormatFromPath(args[1]), nil
	}
	return "", nil
}

func cmdPreset(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: physx preset <fixed|point|hinge|slider|piston> [options]", errUsage)
	}

	fs := flag.NewFlagSet("preset", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := addPresetFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	joint, err := opts.build(args[0])
	if err != nil {
		return err
	}

	obj, err := joint.ToWire()
	if err != nil {
		return err
	}
	format := gltfdoc.FormatJSON
	if cfg.Output.Format == config.FormatYAML {
		format = gltfdoc.FormatYAML
	}
	data, err := gltfdoc.EncodeObject(obj, format, cfg.Output.Indent)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func cmdJoint(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("joint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	kind := fs.String("kind", "fixed", "Joint preset")
	bodyA := fs.Int("a", -1, "Node index of the first body")
	bodyB := fs.Int("b", -1, "Node index of the second body")
	at := fs.String("at", "", "Pivot position x,y,z in world space (overrides -offset)")
	offset := fs.String("offset", "", "Pivot position x,y,z in the local space of body b")
	euler := fs.String("euler", "", "Joint frame rotation x,y,z in degrees, world space")
	collide := fs.Bool("collide", false, "Let the connected bodies collide")
	opts := addPresetFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 2 || *bodyA < 0 || *bodyB < 0 {
		return fmt.Errorf("%w: physx joint -a n -b m [options] <in> <out>", errUsage)
	}

	desc, err := opts.build(*kind)
	if err != nil {
		return err
	}

	f, err := gltfdoc.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	var pivot pmath.Vec3
	if *at != "" {
		if pivot, err = parseVec3(*at); err != nil {
			return fmt.Errorf("%w: -at: %v", errUsage, err)
		}
	} else {
		var local pmath.Vec3
		if *offset != "" {
			if local, err = parseVec3(*offset); err != nil {
				return fmt.Errorf("%w: -offset: %v", errUsage, err)
			}
		}
		world, err := f.WorldMatrix(*bodyB)
		if err != nil {
			return err
		}
		pivot = world.TransformPoint(local)
	}

	rotation := pmath.QuatIdentity()
	if *euler != "" {
		deg, err := parseVec3(*euler)
		if err != nil {
			return fmt.Errorf("%w: -euler: %v", errUsage, err)
		}
		rad := deg.Scale(math.Pi / 180)
		rotation = pmath.QuatFromEuler(rad.X, rad.Y, rad.Z)
	}
	jointWorld := pmath.FromTRS(pivot, rotation, pmath.V3(1, 1, 1))

	var enableCollision *bool
	if *collide {
		enableCollision = collide
	}
	pivotA, pivotB, err := f.AttachJoint(*bodyA, *bodyB, jointWorld, desc, enableCollision)
	if err != nil {
		return err
	}

	format, err := outputFormat(cfg, fs.Args())
	if err != nil {
		return err
	}
	if err := f.Write(fs.Arg(1), format, cfg.Output.Indent); err != nil {
		return err
	}
	fmt.Fprintf(out, "Joint %s: node %d -> node %d (pivots %d, %d)\n", *kind, *bodyA, *bodyB, pivotA, pivotB)
	return nil
}

func cmdConfig(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 || args[0] != "init" {
		return fmt.Errorf("%w: physx config init [-force] [path]", errUsage)
	}

	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path := fs.Arg(0)
	save := func() error { return cfg.SaveTo(path) }
	if path == "" {
		path = config.DefaultPath()
		save = cfg.Save
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := save(); err != nil {
		return err
	}
	logger.Info("wrote config", zap.String("path", path))
	fmt.Fprintf(out, "Config written to %s\n", path)
	return nil
}

// presetOptions holds the flags shared by preset and joint.
type presetOptions struct {
	axis                             *int
	lower, upper, angLower, angUpper optFloat
}

func addPresetFlags(fs *flag.FlagSet) *presetOptions {
	o := &presetOptions{}
	o.axis = fs.Int("axis", physics.AxisX, "Joint axis: 0=X, 1=Y, 2=Z")
	fs.Var(&o.lower, "min", "Lower limit on the free axis")
	fs.Var(&o.upper, "max", "Upper limit on the free axis")
	fs.Var(&o.angLower, "amin", "Lower angular limit (piston only)")
	fs.Var(&o.angUpper, "amax", "Upper angular limit (piston only)")
	return o
}

func (o *presetOptions) build(kind string) (*physics.JointDescription, error) {
	switch kind {
	case "fixed":
		return physics.FixedJoint(), nil
	case "point":
		return physics.PointJoint(), nil
	case "hinge":
		return physics.HingeJoint(*o.axis, o.lower.v, o.upper.v)
	case "slider":
		return physics.SliderJoint(*o.axis, o.lower.v, o.upper.v)
	case "piston":
		return physics.PistonJoint(*o.axis, o.lower.v, o.upper.v, o.angLower.v, o.angUpper.v)
	}
	return nil, fmt.Errorf("%w: unknown preset %q", errUsage, kind)
}

func parseVec3(s string) (pmath.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return pmath.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return pmath.Vec3{}, err
		}
		v[i] = f
	}
	return pmath.V3(v[0], v[1], v[2]), nil
}

// optFloat is a float flag that stays nil unless given.
type optFloat struct {
	v *float64
}

func (o *optFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'g', -1, 64)
}

func (o *optFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}
