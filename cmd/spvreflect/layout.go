package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/goccy/go-yaml"
	"github.com/gogpu/spvreflect"
	"github.com/gogpu/spvreflect/wgpulayout"
	"github.com/scott-cotton/cli"
)

type LayoutReport struct {
	BindGroups   []BindGroupReport   `yaml:"bindGroups,omitempty"`
	VertexBuffer *VertexBufferReport `yaml:"vertexBuffer,omitempty"`
}

type BindGroupReport struct {
	Group   int           `yaml:"group"`
	Label   string        `yaml:"label"`
	Entries []EntryReport `yaml:"entries"`
}

type EntryReport struct {
	Binding        uint32 `yaml:"binding"`
	Visibility     string `yaml:"visibility"`
	Kind           string `yaml:"kind"`
	Type           string `yaml:"type,omitempty"`
	MinBindingSize uint64 `yaml:"minBindingSize,omitempty"`
	ViewDimension  string `yaml:"viewDimension,omitempty"`
	Format         string `yaml:"format,omitempty"`
	Multisampled   bool   `yaml:"multisampled,omitempty"`
}

type VertexBufferReport struct {
	ArrayStride uint64            `yaml:"arrayStride"`
	Attributes  []AttributeReport `yaml:"attributes"`
}

type AttributeReport struct {
	Location uint32 `yaml:"location"`
	Format   string `yaml:"format"`
	Offset   uint64 `yaml:"offset"`
}

var visibilityNames = []struct {
	stage wgpu.ShaderStage
	name  string
}{
	{wgpu.ShaderStageVertex, "vertex"},
	{wgpu.ShaderStageFragment, "fragment"},
	{wgpu.ShaderStageCompute, "compute"},
}

func visibilityString(v wgpu.ShaderStage) string {
	var names []string
	for _, vn := range visibilityNames {
		if v&vn.stage != 0 {
			names = append(names, vn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

func entryReport(e wgpu.BindGroupLayoutEntry) EntryReport {
	er := EntryReport{
		Binding:    e.Binding,
		Visibility: visibilityString(e.Visibility),
	}
	switch {
	case e.Buffer.Type != wgpu.BufferBindingTypeUndefined:
		er.Kind = "buffer"
		er.Type = fmt.Sprint(e.Buffer.Type)
		er.MinBindingSize = e.Buffer.MinBindingSize
	case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		er.Kind = "sampler"
		er.Type = fmt.Sprint(e.Sampler.Type)
	case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		er.Kind = "texture"
		er.Type = fmt.Sprint(e.Texture.SampleType)
		er.ViewDimension = fmt.Sprint(e.Texture.ViewDimension)
		er.Multisampled = e.Texture.Multisampled
	default:
		er.Kind = "storageTexture"
		er.Type = fmt.Sprint(e.StorageTexture.Access)
		er.ViewDimension = fmt.Sprint(e.StorageTexture.ViewDimension)
		er.Format = fmt.Sprint(e.StorageTexture.Format)
	}
	return er
}

// NewLayoutReport collects the WebGPU layouts of m. The vertex buffer is
// reported only for vertex entry points.
func NewLayoutReport(m *spvreflect.Module, entry string) (*LayoutReport, error) {
	layouts, err := wgpulayout.BindGroupLayouts(m, entry)
	if err != nil {
		return nil, err
	}
	r := &LayoutReport{}
	for g, desc := range wgpulayout.Groups(layouts) {
		if len(desc.Entries) == 0 {
			continue
		}
		bg := BindGroupReport{Group: g, Label: desc.Label}
		for _, e := range desc.Entries {
			bg.Entries = append(bg.Entries, entryReport(e))
		}
		r.BindGroups = append(r.BindGroups, bg)
	}

	vb, err := wgpulayout.VertexBufferLayout(m, entry)
	switch {
	case errors.Is(err, wgpulayout.ErrNotVertexStage):
	case err != nil:
		return nil, err
	default:
		vr := &VertexBufferReport{ArrayStride: vb.ArrayStride}
		for _, a := range vb.Attributes {
			vr.Attributes = append(vr.Attributes, AttributeReport{
				Location: a.ShaderLocation,
				Format:   fmt.Sprint(a.Format),
				Offset:   a.Offset,
			})
		}
		r.VertexBuffer = vr
	}
	return r, nil
}

func WriteLayout(w io.Writer, r *LayoutReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding layout: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func layout(cfg *LayoutConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Layout.Parse(cc, args)
	if err != nil {
		return err
	}
	file, err := oneFile("layout", args)
	if err != nil {
		return err
	}
	m, err := readModule(cc, file)
	if err != nil {
		return err
	}
	r, err := NewLayoutReport(m, cfg.Entry)
	if err != nil {
		return err
	}
	return WriteLayout(cc.Out, r)
}
