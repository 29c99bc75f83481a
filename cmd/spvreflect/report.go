package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/gogpu/spvreflect"
	"github.com/scott-cotton/cli"
)

// Report is the serialized view of a reflected module.
type Report struct {
	Generator      string             `json:"generator" yaml:"generator"`
	Version        string             `json:"version" yaml:"version"`
	SourceLanguage string             `json:"sourceLanguage" yaml:"sourceLanguage"`
	SourceFile     string             `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`
	EntryPoints    []EntryPointReport `json:"entryPoints" yaml:"entryPoints"`
	Bindings       []BindingReport    `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	PushConstants  []BlockReport      `json:"pushConstants,omitempty" yaml:"pushConstants,omitempty"`
}

type EntryPointReport struct {
	Name      string           `json:"name" yaml:"name"`
	Stage     string           `json:"stage" yaml:"stage"`
	LocalSize []uint32         `json:"localSize,omitempty" yaml:"localSize,omitempty"`
	Inputs    []VariableReport `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs   []VariableReport `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Sets      []SetReport      `json:"sets,omitempty" yaml:"sets,omitempty"`
}

type VariableReport struct {
	Name     string  `json:"name" yaml:"name"`
	Location *uint32 `json:"location,omitempty" yaml:"location,omitempty"`
	BuiltIn  string  `json:"builtIn,omitempty" yaml:"builtIn,omitempty"`
	Format   string  `json:"format" yaml:"format"`
	Semantic string  `json:"semantic,omitempty" yaml:"semantic,omitempty"`
}

type SetReport struct {
	Set      uint32   `json:"set" yaml:"set"`
	Bindings []string `json:"bindings" yaml:"bindings"`
}

type BindingReport struct {
	Name           string       `json:"name" yaml:"name"`
	Set            uint32       `json:"set" yaml:"set"`
	Binding        uint32       `json:"binding" yaml:"binding"`
	DescriptorType string       `json:"descriptorType" yaml:"descriptorType"`
	ResourceType   string       `json:"resourceType" yaml:"resourceType"`
	Count          uint32       `json:"count,omitempty" yaml:"count,omitempty"`
	Accessed       bool         `json:"accessed" yaml:"accessed"`
	UavCounter     string       `json:"uavCounter,omitempty" yaml:"uavCounter,omitempty"`
	Block          *BlockReport `json:"block,omitempty" yaml:"block,omitempty"`
}

type BlockReport struct {
	Name           string        `json:"name" yaml:"name"`
	Offset         uint32        `json:"offset" yaml:"offset"`
	AbsoluteOffset uint32        `json:"absoluteOffset" yaml:"absoluteOffset"`
	Size           uint32        `json:"size" yaml:"size"`
	PaddedSize     uint32        `json:"paddedSize" yaml:"paddedSize"`
	Members        []BlockReport `json:"members,omitempty" yaml:"members,omitempty"`
}

// NewReport summarizes m, restricted to one entry point when entry is
// not empty.
func NewReport(m *spvreflect.Module, entry string) (*Report, error) {
	r := &Report{
		Generator:      m.Generator.String(),
		Version:        m.Version.String(),
		SourceLanguage: m.SourceLanguage.String(),
		SourceFile:     m.SourceFile,
	}

	var eps []spvreflect.EntryPoint
	if entry == "" {
		eps = m.EntryPoints()
	} else {
		ep, err := m.EntryPoint(entry)
		if err != nil {
			return nil, err
		}
		eps = []spvreflect.EntryPoint{*ep}
	}

	for i := range eps {
		ep := &eps[i]
		epr := EntryPointReport{
			Name:    ep.Name,
			Stage:   ep.ShaderStage.String(),
			Inputs:  variableReports(ep.InputVariables),
			Outputs: variableReports(ep.OutputVariables),
		}
		if ep.ShaderStage == spvreflect.ShaderStageCompute {
			epr.LocalSize = ep.LocalSize[:]
		}
		for _, set := range ep.DescriptorSets {
			sr := SetReport{Set: set.Set}
			for _, bi := range set.Bindings {
				b, err := m.DescriptorBinding(bi)
				if err != nil {
					return nil, err
				}
				sr.Bindings = append(sr.Bindings, b.Name)
			}
			epr.Sets = append(epr.Sets, sr)
		}
		r.EntryPoints = append(r.EntryPoints, epr)
	}

	bindings, err := m.DescriptorBindings(entry)
	if err != nil {
		return nil, err
	}
	for i := range bindings {
		r.Bindings = append(r.Bindings, bindingReport(m, &bindings[i]))
	}

	blocks, err := m.PushConstantBlocks(entry)
	if err != nil {
		return nil, err
	}
	for i := range blocks {
		r.PushConstants = append(r.PushConstants, blockReport(&blocks[i]))
	}
	return r, nil
}

func variableReports(vars []spvreflect.InterfaceVariable) []VariableReport {
	var out []VariableReport
	for i := range vars {
		v := &vars[i]
		vr := VariableReport{
			Name:     v.Name,
			Format:   v.Format.String(),
			Semantic: v.Semantic,
		}
		if v.IsBuiltIn() {
			vr.BuiltIn = v.BuiltIn.String()
		}
		if v.Location != spvreflect.InvalidValue {
			loc := v.Location
			vr.Location = &loc
		}
		out = append(out, vr)
	}
	return out
}

func bindingReport(m *spvreflect.Module, b *spvreflect.DescriptorBinding) BindingReport {
	br := BindingReport{
		Name:           b.Name,
		Set:            b.Set,
		Binding:        b.Binding,
		DescriptorType: b.DescriptorType.String(),
		ResourceType:   b.ResourceType.String(),
		Accessed:       b.Accessed,
	}
	if b.Count > 1 {
		br.Count = b.Count
	}
	if c := m.CounterBinding(b); c != nil {
		br.UavCounter = c.Name
	}
	if b.DescriptorType == spvreflect.DescriptorTypeUniformBuffer || b.DescriptorType == spvreflect.DescriptorTypeStorageBuffer {
		block := blockReport(&b.Block)
		br.Block = &block
	}
	return br
}

func blockReport(v *spvreflect.BlockVariable) BlockReport {
	br := BlockReport{
		Name:           v.Name,
		Offset:         v.Offset,
		AbsoluteOffset: v.AbsoluteOffset,
		Size:           v.Size,
		PaddedSize:     v.PaddedSize,
	}
	for i := range v.Members {
		br.Members = append(br.Members, blockReport(&v.Members[i]))
	}
	return br
}

// WriteReport encodes r to w in the named format.
func WriteReport(w io.Writer, r *Report, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "y", "":
		data, err = yaml.Marshal(r)
	case "json", "j":
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	case "cbor", "c":
		var em cbor.EncMode
		if em, err = cbor.CanonicalEncOptions().EncMode(); err == nil {
			data, err = em.Marshal(r)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", cli.ErrUsage, format)
	}
	if err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func dump(cfg *DumpConfig, cc *cli.Context, args []string) (err error) {
	args, err = cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	file, err := oneFile("dump", args)
	if err != nil {
		return err
	}
	m, err := readModule(cc, file)
	if err != nil {
		return err
	}
	r, err := NewReport(m, cfg.Entry)
	if err != nil {
		return err
	}
	w, closeOut, err := output(cc, cfg.Out)
	if err != nil {
		return err
	}
	defer closeWith(closeOut, &err)
	return WriteReport(w, r, cfg.Format)
}
