// physx is a CLI utility for inspecting and packing KHR_physics_rigid_bodies
// data in glTF documents.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/khr-physics/internal/config"
	"github.com/Faultbox/khr-physics/internal/logger"
)

func main() {
	// Global flags come before the command
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	command := args[0]
	if err := run(cfg, command, args[1:], os.Stdout); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, command string, args []string, out io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "validate", "check":
		return cmdValidate(cfg, args, out)
	case "pack":
		return cmdPack(cfg, args, out)
	case "preset":
		return cmdPreset(cfg, args, out)
	case "joint":
		return cmdJoint(cfg, args, out)
	case "config":
		return cmdConfig(cfg, args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `physx - KHR_physics_rigid_bodies utility for glTF documents

Usage:
  physx [flags] <command> [options]

Commands:
  info <file>                        Show physics content counts
  validate <file>                    Decode and check physics data
  pack <in> [out]                    Resolve inline references into indices
  preset <kind> [-axis n] [-min v] [-max v] [-amin v] [-amax v]
                                     Print a joint preset (fixed, point,
                                     hinge, slider, piston)
  joint -a n -b m [-kind k] [-at x,y,z | -offset x,y,z] [-euler x,y,z]
        [-collide] <in> <out>        Connect two nodes with a joint preset
  config init [-force] [path]        Write the effective settings to a
                                     config file

Flags:
  -config <path>   Config file (default ./physx.yaml)
  -format <fmt>    Output format: json or yaml
  -indent <n>      Output indentation (0 = compact JSON)
  -strict          Fail on semantic validation errors
  -debug           Enable debug logging
  -log-json        Write logs as JSON

Examples:
  physx info scene.gltf
  physx -strict validate scene.glb
  physx pack authoring.yaml scene.gltf
  physx preset hinge -axis 2 -min -1.57 -max 1.57
  physx joint -a 0 -b 3 -kind hinge -axis 1 -at 0,1,0 scene.gltf out.gltf
  physx -strict -indent 4 config init`)
}
