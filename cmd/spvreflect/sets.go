package main

import (
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fatih/color"
	"github.com/gogpu/spvreflect"
	"github.com/scott-cotton/cli"
)

// BindingEnv is the environment -where expressions are evaluated in.
type BindingEnv struct {
	Name     string
	Set      uint32
	Binding  uint32
	Type     string
	Resource string
	Count    uint32
	Accessed bool
}

func bindingEnv(b *spvreflect.DescriptorBinding) BindingEnv {
	return BindingEnv{
		Name:     b.Name,
		Set:      b.Set,
		Binding:  b.Binding,
		Type:     b.DescriptorType.String(),
		Resource: b.ResourceType.String(),
		Count:    b.Count,
		Accessed: b.Accessed,
	}
}

// compileWhere compiles a -where filter; an empty filter matches all.
func compileWhere(where string) (*vm.Program, error) {
	if where == "" {
		return nil, nil
	}
	prg, err := expr.Compile(where, expr.Env(BindingEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: -where: %w", cli.ErrUsage, err)
	}
	return prg, nil
}

type palette struct {
	header, name, kind, dim func(a ...any) string
	added, removed          func(a ...any) string
}

func newPalette(enabled bool) *palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &palette{
		header:  mk(color.Bold),
		name:    mk(color.FgCyan),
		kind:    mk(color.FgYellow),
		dim:     mk(color.Faint),
		added:   mk(color.FgGreen),
		removed: mk(color.FgRed),
	}
}

// ListSets writes one line per descriptor set followed by one line per
// matching binding.
func ListSets(w io.Writer, m *spvreflect.Module, entry, where string, p *palette) error {
	prg, err := compileWhere(where)
	if err != nil {
		return err
	}
	sets, err := m.DescriptorSets(entry)
	if err != nil {
		return err
	}

	for _, set := range sets {
		var lines []string
		for _, i := range set.Bindings {
			b, err := m.DescriptorBinding(i)
			if err != nil {
				return err
			}
			if prg != nil {
				ok, err := expr.Run(prg, bindingEnv(b))
				if err != nil {
					return fmt.Errorf("-where on %s: %w", b.Name, err)
				}
				if !ok.(bool) {
					continue
				}
			}
			line := fmt.Sprintf("  binding %-3d %s %s", b.Binding, p.name(b.Name), p.kind(b.DescriptorType.String()))
			if b.Count > 1 {
				line += fmt.Sprintf("[%d]", b.Count)
			}
			if !b.Accessed {
				line += " " + p.dim("(unused)")
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, p.header(fmt.Sprintf("set %d", set.Set))); err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func sets(cfg *SetsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sets.Parse(cc, args)
	if err != nil {
		return err
	}
	file, err := oneFile("sets", args)
	if err != nil {
		return err
	}
	m, err := readModule(cc, file)
	if err != nil {
		return err
	}
	return ListSets(cc.Out, m, cfg.Entry, cfg.Where, newPalette(useColor(cc.Out, cfg.Color)))
}
