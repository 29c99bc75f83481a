// Command spvreflect inspects and patches SPIR-V shader modules.
//
// Usage:
//
//	spvreflect [-v N] [-log file] <command> [opts] file.spv
//
// Commands:
//
//	dump    report entry points, interface variables and resources
//	sets    list descriptor sets and bindings
//	remap   renumber bindings, sets and locations from a TOML file
//	layout  print WebGPU bind group and vertex buffer layouts
//	dis     disassemble
package main

import (
	"context"

	"github.com/scott-cotton/cli"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
