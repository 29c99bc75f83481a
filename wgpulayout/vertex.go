package wgpulayout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/spvreflect"
)

// ErrNotVertexStage is returned when a vertex layout is requested for an
// entry point of another stage.
var ErrNotVertexStage = errors.New("entry point is not a vertex shader")

type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

var vertexFormats = map[spvreflect.Format]vertexFormatInfo{
	spvreflect.FormatR32Sfloat:          {wgpu.VertexFormatFloat32, 4},
	spvreflect.FormatR32G32Sfloat:       {wgpu.VertexFormatFloat32x2, 8},
	spvreflect.FormatR32G32B32Sfloat:    {wgpu.VertexFormatFloat32x3, 12},
	spvreflect.FormatR32G32B32A32Sfloat: {wgpu.VertexFormatFloat32x4, 16},
	spvreflect.FormatR32Sint:            {wgpu.VertexFormatSint32, 4},
	spvreflect.FormatR32G32Sint:         {wgpu.VertexFormatSint32x2, 8},
	spvreflect.FormatR32G32B32Sint:      {wgpu.VertexFormatSint32x3, 12},
	spvreflect.FormatR32G32B32A32Sint:   {wgpu.VertexFormatSint32x4, 16},
	spvreflect.FormatR32Uint:            {wgpu.VertexFormatUint32, 4},
	spvreflect.FormatR32G32Uint:         {wgpu.VertexFormatUint32x2, 8},
	spvreflect.FormatR32G32B32Uint:      {wgpu.VertexFormatUint32x3, 12},
	spvreflect.FormatR32G32B32A32Uint:   {wgpu.VertexFormatUint32x4, 16},
	spvreflect.FormatR16G16Sfloat:       {wgpu.VertexFormatFloat16x2, 4},
	spvreflect.FormatR16G16B16A16Sfloat: {wgpu.VertexFormatFloat16x4, 8},
}

// VertexBufferLayout packs the location inputs of a vertex entry point
// into one interleaved buffer layout, ordered by location. Built-in
// inputs are skipped. An empty entry point name selects the module's
// first entry point.
func VertexBufferLayout(m *spvreflect.Module, entryPoint string) (wgpu.VertexBufferLayout, error) {
	ep, err := vertexEntryPoint(m, entryPoint)
	if err != nil {
		return wgpu.VertexBufferLayout{}, err
	}

	inputs := make([]spvreflect.InterfaceVariable, 0, len(ep.InputVariables))
	for _, v := range ep.InputVariables {
		if v.IsBuiltIn() || v.Location == spvreflect.InvalidValue {
			continue
		}
		inputs = append(inputs, v)
	}
	slices.SortFunc(inputs, func(a, b spvreflect.InterfaceVariable) int {
		return cmp.Compare(a.Location, b.Location)
	})

	attrs := make([]wgpu.VertexAttribute, 0, len(inputs))
	var offset uint64
	for _, v := range inputs {
		info, ok := vertexFormats[v.Format]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("input %q at location %d: no vertex format for %s",
				v.Name, v.Location, v.Format)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: v.Location,
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

func vertexEntryPoint(m *spvreflect.Module, name string) (*spvreflect.EntryPoint, error) {
	var ep *spvreflect.EntryPoint
	if name != "" {
		var err error
		if ep, err = m.EntryPoint(name); err != nil {
			return nil, err
		}
	} else {
		eps := m.EntryPoints()
		if len(eps) == 0 {
			return nil, fmt.Errorf("%w: module has no entry points", ErrNotVertexStage)
		}
		ep = &eps[0]
	}
	if ep.ShaderStage != spvreflect.ShaderStageVertex {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotVertexStage, ep.Name, ep.ShaderStage)
	}
	return ep, nil
}
