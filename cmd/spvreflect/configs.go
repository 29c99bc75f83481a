package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/spvreflect"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Verbose int    `cli:"name=v aliases=verbose desc='log verbosity, 0 logs errors only'"`
	LogFile string `cli:"name=log desc='log to a file instead of stderr'"`

	Main *cli.Command
}

type DumpConfig struct {
	*MainConfig
	Format string `cli:"name=format aliases=f desc='output format: yaml, json or cbor'"`
	Entry  string `cli:"name=entry aliases=e desc='restrict the report to one entry point'"`
	Out    string `cli:"name=o desc='output file (default stdout)'"`

	Dump *cli.Command
}

type SetsConfig struct {
	*MainConfig
	Entry string `cli:"name=entry aliases=e desc='restrict to one entry point'"`
	Where string `cli:"name=where aliases=w desc='boolean filter over Name, Set, Binding, Type, Resource, Count, Accessed'"`
	Color bool   `cli:"name=color desc='force colored output'"`

	Sets *cli.Command
}

type RemapConfig struct {
	*MainConfig
	Config string `cli:"name=config aliases=c desc='TOML remap file'"`
	Out    string `cli:"name=o desc='patched module output file (default stdout)'"`
	Diff   bool   `cli:"name=diff desc='print the report difference instead of the module'"`
	Color  bool   `cli:"name=color desc='force colored output'"`

	Remap *cli.Command
}

type LayoutConfig struct {
	*MainConfig
	Entry string `cli:"name=entry aliases=e desc='entry point (default all)'"`

	Layout *cli.Command
}

type DisConfig struct {
	*MainConfig
	Offsets bool `cli:"name=offsets desc='prefix instructions with their word offset'"`
	Color   bool `cli:"name=color desc='force colored output'"`

	Dis *cli.Command
}

// readFile reads file, or standard input for "-".
func readFile(cc *cli.Context, file string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cc.In)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return data, nil
}

func readModule(cc *cli.Context, file string) (*spvreflect.Module, error) {
	data, err := readFile(cc, file)
	if err != nil {
		return nil, err
	}
	m, err := spvreflect.Load(data)
	if err != nil {
		return nil, fmt.Errorf("error reflecting %s: %w", file, err)
	}
	return m, nil
}

// oneFile checks that args names exactly one module.
func oneFile(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s requires one SPIR-V file, got %d args", cli.ErrUsage, cmd, len(args))
	}
	return args[0], nil
}

// output returns the writer for path, defaulting to the command output.
func output(cc *cli.Context, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cc.Out, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// closeWith runs closeOut and reports its error through err unless err
// already holds one.
func closeWith(closeOut func() error, err *error) {
	if cerr := closeOut(); *err == nil && cerr != nil {
		*err = fmt.Errorf("error closing output: %w", cerr)
	}
}

// useColor reports whether output to w should be colored.
func useColor(w io.Writer, force bool) bool {
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
