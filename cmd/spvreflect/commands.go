package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/tliron/commonlog"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "spvreflect").
		WithSynopsis("spvreflect [opts] command [opts] file.spv").
		WithDescription("spvreflect reflects and patches SPIR-V shader modules.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return spvMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			SetsCommand(cfg),
			RemapCommand(cfg),
			LayoutCommand(cfg),
			DisCommand(cfg))
}

func spvMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	var logFile *string
	if cfg.LogFile != "" {
		logFile = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbose, logFile)

	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg, Format: "yaml"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithAliases("d").
		WithSynopsis("dump [-format yaml|json|cbor] [-entry name] [-o file] file.spv").
		WithDescription("report entry points, interface variables, descriptor sets and push constants").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}

func SetsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Sets, "sets").
		WithAliases("s").
		WithSynopsis("sets [-entry name] [-where expr] [-color] file.spv").
		WithDescription("list descriptor sets and their bindings").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return sets(cfg, cc, args)
		})
}

func RemapCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RemapConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Remap, "remap").
		WithAliases("r").
		WithSynopsis("remap -config remap.toml [-o out.spv] [-diff] file.spv").
		WithDescription(remapDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return remap(cfg, cc, args)
		})
}

const remapDescription = `renumber descriptor bindings, sets and interface locations.

The remap file is TOML:

  [[set]]
  from = 0
  to = 2

  [[binding]]
  name = "tex"
  binding = 4     # optional, keeps the binding number when absent
  set = 1         # optional, keeps the set number when absent

  [[input]]
  entry = "vs_main"
  name = "uv"
  location = 3

  [[output]]
  entry = "fs_main"
  name = "color"
  location = 0

Set renumbering is applied first, then bindings, then locations. Set
mappings refer to the set numbers of the input module, so sets may be
swapped; mapping two sets onto one number is an error.`

func LayoutCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LayoutConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Layout, "layout").
		WithAliases("l").
		WithSynopsis("layout [-entry name] file.spv").
		WithDescription("print WebGPU bind group layouts and the vertex buffer layout as YAML").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return layout(cfg, cc, args)
		})
}

func DisCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DisConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dis, "dis").
		WithSynopsis("dis [-offsets] [-color] file.spv").
		WithDescription("disassemble a SPIR-V module").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dis(cfg, cc, args)
		})
}
