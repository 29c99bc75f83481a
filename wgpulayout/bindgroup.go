package wgpulayout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/spvreflect"
	"github.com/gogpu/spvreflect/spirv"
	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLogger("spvreflect.wgpulayout")

// ErrUnsupportedStage is returned for entry points whose stage has no
// WebGPU counterpart.
var ErrUnsupportedStage = errors.New("shader stage not supported by WebGPU")

// MaxBindGroups bounds the group numbers a layout may use. Bindings in
// higher descriptor sets are skipped with a warning.
const MaxBindGroups = 8

var stageVisibility = map[spvreflect.ShaderStage]wgpu.ShaderStage{
	spvreflect.ShaderStageVertex:   wgpu.ShaderStageVertex,
	spvreflect.ShaderStageFragment: wgpu.ShaderStageFragment,
	spvreflect.ShaderStageCompute:  wgpu.ShaderStageCompute,
}

// Visibility converts a reflected shader stage to WebGPU visibility flags.
func Visibility(stage spvreflect.ShaderStage) (wgpu.ShaderStage, error) {
	v, ok := stageVisibility[stage]
	if !ok {
		return wgpu.ShaderStageNone, fmt.Errorf("%w: %s", ErrUnsupportedStage, stage)
	}
	return v, nil
}

// BindGroupLayouts returns a bind group layout descriptor for every
// descriptor set the entry point uses, keyed by set number.
//
// An empty entry point name describes the whole module: every binding is
// included and is visible to the stages of the entry points that use it,
// or to every stage of the module when no entry point does.
//
// Resources WebGPU cannot express (combined image samplers, texel
// buffers, input attachments, acceleration structures) are skipped with
// a warning.
func BindGroupLayouts(m *spvreflect.Module, entryPoint string) (map[int]wgpu.BindGroupLayoutDescriptor, error) {
	bindings, err := m.DescriptorBindings(entryPoint)
	if err != nil {
		return nil, err
	}

	visibility, err := visibilityFunc(m, entryPoint)
	if err != nil {
		return nil, err
	}

	label := entryPoint
	if label == "" {
		label = "module"
	}

	layouts := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for i := range bindings {
		b := &bindings[i]
		if b.Set >= MaxBindGroups {
			logger.Warningf("%s (set %d binding %d): set exceeds the %d bind groups WebGPU allows",
				b.Name, b.Set, b.Binding, MaxBindGroups)
			continue
		}
		entry, ok := bindGroupLayoutEntry(b, visibility(b))
		if !ok {
			continue
		}
		group := int(b.Set)
		desc, exists := layouts[group]
		if !exists {
			desc.Label = fmt.Sprintf("%s group %d", label, group)
		}
		desc.Entries = append(desc.Entries, entry)
		layouts[group] = desc
	}

	for g, desc := range layouts {
		sortEntries(desc.Entries)
		layouts[g] = desc
	}
	return layouts, nil
}

// visibilityFunc returns the visibility assigned to each binding.
func visibilityFunc(m *spvreflect.Module, entryPoint string) (func(*spvreflect.DescriptorBinding) wgpu.ShaderStage, error) {
	if entryPoint != "" {
		ep, err := m.EntryPoint(entryPoint)
		if err != nil {
			return nil, err
		}
		v, err := Visibility(ep.ShaderStage)
		if err != nil {
			return nil, fmt.Errorf("entry point %q: %w", entryPoint, err)
		}
		return func(*spvreflect.DescriptorBinding) wgpu.ShaderStage { return v }, nil
	}

	eps := m.EntryPoints()
	var all wgpu.ShaderStage
	for _, ep := range eps {
		v, err := Visibility(ep.ShaderStage)
		if err != nil {
			logger.Warningf("entry point %q: %s", ep.Name, err)
			continue
		}
		all |= v
	}

	return func(b *spvreflect.DescriptorBinding) wgpu.ShaderStage {
		var v wgpu.ShaderStage
		for _, ep := range eps {
			if _, used := slices.BinarySearch(ep.UsedUniforms, b.SpirvID); used {
				v |= stageVisibility[ep.ShaderStage]
			}
		}
		if v == wgpu.ShaderStageNone {
			return all
		}
		return v
	}, nil
}

func bindGroupLayoutEntry(b *spvreflect.DescriptorBinding, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, bool) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    b.Binding,
		Visibility: visibility,
	}

	if b.Count > 1 {
		logger.Warningf("%s (set %d binding %d): binding arrays of %d collapse to a single entry",
			b.Name, b.Set, b.Binding, b.Count)
	}

	switch b.DescriptorType {
	case spvreflect.DescriptorTypeUniformBuffer, spvreflect.DescriptorTypeUniformBufferDynamic:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.HasDynamicOffset = b.DescriptorType == spvreflect.DescriptorTypeUniformBufferDynamic
		entry.Buffer.MinBindingSize = uint64(b.Block.Size)

	case spvreflect.DescriptorTypeStorageBuffer, spvreflect.DescriptorTypeStorageBufferDynamic:
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		if b.ResourceType == spvreflect.ResourceTypeSRV {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		entry.Buffer.HasDynamicOffset = b.DescriptorType == spvreflect.DescriptorTypeStorageBufferDynamic
		entry.Buffer.MinBindingSize = uint64(b.Block.Size)

	case spvreflect.DescriptorTypeSampler:
		// Comparison samplers are indistinguishable at the type level.
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	case spvreflect.DescriptorTypeSampledImage:
		dim, ok := viewDimension(b.Image)
		if !ok {
			logger.Warningf("%s (set %d binding %d): image dimension %s has no texture view", b.Name, b.Set, b.Binding, b.Image.Dim)
			return entry, false
		}
		entry.Texture.ViewDimension = dim
		entry.Texture.Multisampled = b.Image.MS == 1
		entry.Texture.SampleType = sampleType(b)

	case spvreflect.DescriptorTypeStorageImage:
		dim, ok := viewDimension(b.Image)
		if !ok {
			logger.Warningf("%s (set %d binding %d): image dimension %s has no texture view", b.Name, b.Set, b.Binding, b.Image.Dim)
			return entry, false
		}
		entry.StorageTexture.ViewDimension = dim
		entry.StorageTexture.Access = wgpu.StorageTextureAccessWriteOnly
		format, ok := textureFormats[b.Image.ImageFormat]
		if !ok {
			logger.Warningf("%s (set %d binding %d): image format %s is not a WebGPU storage format",
				b.Name, b.Set, b.Binding, b.Image.ImageFormat)
		}
		entry.StorageTexture.Format = format

	default:
		logger.Warningf("%s (set %d binding %d): skipping %s", b.Name, b.Set, b.Binding, b.DescriptorType)
		return entry, false
	}
	return entry, true
}

func viewDimension(img spvreflect.ImageTraits) (wgpu.TextureViewDimension, bool) {
	arrayed := img.Arrayed == 1
	switch img.Dim {
	case spirv.Dim1D:
		return wgpu.TextureViewDimension1D, !arrayed
	case spirv.Dim2D, spirv.DimRect:
		if arrayed {
			return wgpu.TextureViewDimension2DArray, true
		}
		return wgpu.TextureViewDimension2D, true
	case spirv.Dim3D:
		return wgpu.TextureViewDimension3D, !arrayed
	case spirv.DimCube:
		if arrayed {
			return wgpu.TextureViewDimensionCubeArray, true
		}
		return wgpu.TextureViewDimensionCube, true
	default:
		return wgpu.TextureViewDimension(0), false
	}
}

// sampleType derives the texture sample type from the image's sampled
// component type.
func sampleType(b *spvreflect.DescriptorBinding) wgpu.TextureSampleType {
	if b.Image.Depth == 1 {
		return wgpu.TextureSampleTypeDepth
	}
	td := b.TypeDescription
	if td == nil || td.TypeFlags&spvreflect.TypeFlagInt == 0 {
		return wgpu.TextureSampleTypeFloat
	}
	if td.Traits.Numeric.Scalar.Signedness == 1 {
		return wgpu.TextureSampleTypeSint
	}
	return wgpu.TextureSampleTypeUint
}

var textureFormats = map[spirv.ImageFormat]wgpu.TextureFormat{
	spirv.ImageFormatRgba8:      wgpu.TextureFormatRGBA8Unorm,
	spirv.ImageFormatRgba8Snorm: wgpu.TextureFormatRGBA8Snorm,
	spirv.ImageFormatRgba8ui:    wgpu.TextureFormatRGBA8Uint,
	spirv.ImageFormatRgba8i:     wgpu.TextureFormatRGBA8Sint,
	spirv.ImageFormatRgba16f:    wgpu.TextureFormatRGBA16Float,
	spirv.ImageFormatRgba16ui:   wgpu.TextureFormatRGBA16Uint,
	spirv.ImageFormatRgba16i:    wgpu.TextureFormatRGBA16Sint,
	spirv.ImageFormatRgba32f:    wgpu.TextureFormatRGBA32Float,
	spirv.ImageFormatRgba32ui:   wgpu.TextureFormatRGBA32Uint,
	spirv.ImageFormatRgba32i:    wgpu.TextureFormatRGBA32Sint,
	spirv.ImageFormatRg32f:      wgpu.TextureFormatRG32Float,
	spirv.ImageFormatRg32ui:     wgpu.TextureFormatRG32Uint,
	spirv.ImageFormatRg32i:      wgpu.TextureFormatRG32Sint,
	spirv.ImageFormatR32f:       wgpu.TextureFormatR32Float,
	spirv.ImageFormatR32ui:      wgpu.TextureFormatR32Uint,
	spirv.ImageFormatR32i:       wgpu.TextureFormatR32Sint,
}

func sortEntries(entries []wgpu.BindGroupLayoutEntry) {
	slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
		return cmp.Compare(a.Binding, b.Binding)
	})
}
