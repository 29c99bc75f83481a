package spvreflect

import (
	"testing"

	"github.com/gogpu/spvreflect/spirv"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DescriptorTypeCombinedImageSampler.String(), "CombinedImageSampler"},
		{DescriptorTypeAccelerationStructureKHR.String(), "AccelerationStructureKHR"},
		{(ResourceTypeSampler | ResourceTypeSRV).String(), "Sampler|SRV"},
		{ResourceTypeUndefined.String(), "Undefined"},
		{(TypeFlagStruct | TypeFlagExternalBlock).String(), "ExternalBlock|Struct"},
		{TypeFlags(0x40000000).String(), "0x40000000"},
		{(DecorationBlock | DecorationNonWritable).String(), "Block|NonWritable"},
		{DecorationNone.String(), "None"},
		{(ShaderStageVertex | ShaderStageFragment).String(), "Vertex|Fragment"},
		{GeneratorGoogleSpiregg.String(), "Google spiregg"},
		{Generator(99).String(), "Unknown"},
		{StaticUseConservative.String(), "conservative"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestShaderStageOf(t *testing.T) {
	tests := []struct {
		model spirv.ExecutionModel
		want  ShaderStage
	}{
		{spirv.ExecutionModelVertex, ShaderStageVertex},
		{spirv.ExecutionModelFragment, ShaderStageFragment},
		{spirv.ExecutionModelGLCompute, ShaderStageCompute},
		{spirv.ExecutionModelGeometry, ShaderStageGeometry},
		{spirv.ExecutionModelMeshEXT, ShaderStageMesh},
		{spirv.ExecutionModelRayGenerationKHR, ShaderStageRaygen},
		{spirv.ExecutionModel(1000), ShaderStageUndefined},
	}
	for _, tt := range tests {
		if got := ShaderStageOf(tt.model); got != tt.want {
			t.Errorf("ShaderStageOf(%s) = %s, want %s", tt.model, got, tt.want)
		}
	}
}

func TestGeneratorOf(t *testing.T) {
	tests := []struct {
		word uint32
		want Generator
	}{
		{8<<16 | 11, GeneratorKhronosGlslangReferenceFrontEnd},
		{14 << 16, GeneratorGoogleSpiregg},
		{spirv.GeneratorID, GeneratorUnknown},
		{0, GeneratorUnknown},
	}
	for _, tt := range tests {
		if got := GeneratorOf(tt.word); got != tt.want {
			t.Errorf("GeneratorOf(%#x) = %s, want %s", tt.word, got, tt.want)
		}
	}
}

func TestFormat_Components(t *testing.T) {
	tests := []struct {
		f                 Format
		components, width uint32
	}{
		{FormatR32Sfloat, 1, 32},
		{FormatR32G32B32A32Uint, 4, 32},
		{FormatR16G16B16Sint, 3, 16},
		{FormatR64G64Sfloat, 2, 64},
		{FormatUndefined, 0, 0},
		{Format(37), 0, 0}, // R8G8B8A8_UNORM
	}
	for _, tt := range tests {
		n, w := tt.f.Components()
		if n != tt.components || w != tt.width {
			t.Errorf("%s.Components() = %d, %d, want %d, %d", tt.f, n, w, tt.components, tt.width)
		}
	}
}
