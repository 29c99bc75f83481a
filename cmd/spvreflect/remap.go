package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/spvreflect"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// RemapFile is the TOML document read by remap.
type RemapFile struct {
	Sets     []SetRemap      `toml:"set"`
	Bindings []BindingRemap  `toml:"binding"`
	Inputs   []LocationRemap `toml:"input"`
	Outputs  []LocationRemap `toml:"output"`
}

type SetRemap struct {
	From uint32 `toml:"from"`
	To   uint32 `toml:"to"`
}

// BindingRemap renumbers the binding with the given name. Absent fields
// are left unchanged.
type BindingRemap struct {
	Name    string  `toml:"name"`
	Binding *uint32 `toml:"binding"`
	Set     *uint32 `toml:"set"`
}

type LocationRemap struct {
	Entry    string `toml:"entry"`
	Name     string `toml:"name"`
	Location uint32 `toml:"location"`
}

// ParseRemapFile decodes a remap document.
func ParseRemapFile(data []byte) (*RemapFile, error) {
	var rf RemapFile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("error decoding remap file: %w", err)
	}
	return &rf, nil
}

// ApplyRemap patches m: sets first, then bindings, then locations.
//
// Set mappings are resolved against the set numbers m has before any of
// them is applied, so a file may swap or rotate sets. A mapping onto a set
// that keeps its number, or two mappings onto the same set, would merge
// sets and is rejected.
func ApplyRemap(m *spvreflect.Module, rf *RemapFile) error {
	if err := remapSets(m, rf.Sets); err != nil {
		return err
	}

	for _, br := range rf.Bindings {
		idx, err := bindingIndex(m, br.Name)
		if err != nil {
			return err
		}
		binding, set := spvreflect.KeepBinding, spvreflect.KeepSet
		if br.Binding != nil {
			binding = *br.Binding
		}
		if br.Set != nil {
			set = *br.Set
		}
		if err := m.ChangeDescriptorBindingNumbers(idx, binding, set); err != nil {
			return fmt.Errorf("binding %q: %w", br.Name, err)
		}
	}

	for _, lr := range rf.Inputs {
		vars, err := m.InputVariables(lr.Entry)
		if err != nil {
			return err
		}
		idx, err := variableIndex(vars, "input", lr)
		if err != nil {
			return err
		}
		if err := m.ChangeInputVariableLocation(lr.Entry, idx, lr.Location); err != nil {
			return fmt.Errorf("input %q: %w", lr.Name, err)
		}
	}
	for _, lr := range rf.Outputs {
		vars, err := m.OutputVariables(lr.Entry)
		if err != nil {
			return err
		}
		idx, err := variableIndex(vars, "output", lr)
		if err != nil {
			return err
		}
		if err := m.ChangeOutputVariableLocation(lr.Entry, idx, lr.Location); err != nil {
			return fmt.Errorf("output %q: %w", lr.Name, err)
		}
	}
	return nil
}

func remapSets(m *spvreflect.Module, remaps []SetRemap) error {
	if len(remaps) == 0 {
		return nil
	}
	sets, err := m.DescriptorSets("")
	if err != nil {
		return err
	}
	members := make(map[uint32][]int, len(sets))
	for _, s := range sets {
		members[s.Set] = s.Bindings
	}

	moved := make(map[uint32]bool, len(remaps))
	for _, sr := range remaps {
		if _, ok := members[sr.From]; !ok {
			return fmt.Errorf("set %d: no such descriptor set", sr.From)
		}
		if moved[sr.From] {
			return fmt.Errorf("set %d: remapped more than once", sr.From)
		}
		moved[sr.From] = true
	}
	targets := make(map[uint32]uint32, len(remaps))
	for _, sr := range remaps {
		if from, ok := targets[sr.To]; ok {
			return fmt.Errorf("set %d -> %d: set %d is also mapped to %d", sr.From, sr.To, from, sr.To)
		}
		targets[sr.To] = sr.From
		if _, ok := members[sr.To]; ok && !moved[sr.To] {
			return fmt.Errorf("set %d -> %d: set %d is in use and not remapped", sr.From, sr.To, sr.To)
		}
	}

	for _, sr := range remaps {
		for _, idx := range members[sr.From] {
			if err := m.ChangeDescriptorBindingNumbers(idx, spvreflect.KeepBinding, sr.To); err != nil {
				return fmt.Errorf("set %d -> %d: %w", sr.From, sr.To, err)
			}
		}
	}
	return nil
}

func bindingIndex(m *spvreflect.Module, name string) (int, error) {
	bindings, _ := m.DescriptorBindings("")
	for i := range bindings {
		if bindings[i].Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("binding %q: no such descriptor binding", name)
}

func variableIndex(vars []spvreflect.InterfaceVariable, kind string, lr LocationRemap) (int, error) {
	for i := range vars {
		if vars[i].Name == lr.Name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s %q: not an interface variable of entry point %q", kind, lr.Name, lr.Entry)
}

// WriteDiff writes a line diff of two texts, marking removed lines with
// "-" and added lines with "+".
func WriteDiff(w io.Writer, before, after string, p *palette) error {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix, paint := "  ", p.dim
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, paint = "- ", p.removed
		case diffpatch.DiffInsert:
			prefix, paint = "+ ", p.added
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(paint(prefix + strings.TrimSuffix(line, "\n")))
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func reportYAML(m *spvreflect.Module) (string, error) {
	r, err := NewReport(m, "")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := WriteReport(&sb, r, "yaml"); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func remap(cfg *RemapConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Remap.Parse(cc, args)
	if err != nil {
		return err
	}
	file, err := oneFile("remap", args)
	if err != nil {
		return err
	}
	if cfg.Config == "" {
		return fmt.Errorf("%w: remap requires -config", cli.ErrUsage)
	}
	data, err := os.ReadFile(cfg.Config)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", cfg.Config, err)
	}
	rf, err := ParseRemapFile(data)
	if err != nil {
		return err
	}
	m, err := readModule(cc, file)
	if err != nil {
		return err
	}

	var before string
	if cfg.Diff {
		if before, err = reportYAML(m); err != nil {
			return err
		}
	}
	if err := ApplyRemap(m, rf); err != nil {
		return err
	}

	if cfg.Diff {
		after, err := reportYAML(m)
		if err != nil {
			return err
		}
		if err := WriteDiff(cc.Out, before, after, newPalette(useColor(cc.Out, cfg.Color))); err != nil {
			return err
		}
		if cfg.Out == "" {
			return nil
		}
	}

	w, closeOut, err := output(cc, cfg.Out)
	if err != nil {
		return err
	}
	defer closeWith(closeOut, &err)
	_, err = w.Write(m.Bytes())
	return err
}
