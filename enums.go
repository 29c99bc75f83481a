package spvreflect

import (
	"strconv"
	"strings"

	"github.com/gogpu/spvreflect/spirv"
)

// InvalidValue marks a numbered decoration or built-in that is absent.
const InvalidValue = ^uint32(0)

// MaxDescriptorSets is the number of distinct descriptor set numbers a
// module may use.
const MaxDescriptorSets = 64

// DescriptorType is the Vulkan descriptor type of a binding. Values match
// VkDescriptorType.
type DescriptorType uint32

// Descriptor types.
const (
	DescriptorTypeSampler                  DescriptorType = 0
	DescriptorTypeCombinedImageSampler     DescriptorType = 1
	DescriptorTypeSampledImage             DescriptorType = 2
	DescriptorTypeStorageImage             DescriptorType = 3
	DescriptorTypeUniformTexelBuffer       DescriptorType = 4
	DescriptorTypeStorageTexelBuffer       DescriptorType = 5
	DescriptorTypeUniformBuffer            DescriptorType = 6
	DescriptorTypeStorageBuffer            DescriptorType = 7
	DescriptorTypeUniformBufferDynamic     DescriptorType = 8
	DescriptorTypeStorageBufferDynamic     DescriptorType = 9
	DescriptorTypeInputAttachment          DescriptorType = 10
	DescriptorTypeAccelerationStructureKHR DescriptorType = 1000150000
)

var descriptorTypeNames = map[DescriptorType]string{
	DescriptorTypeSampler:                  "Sampler",
	DescriptorTypeCombinedImageSampler:     "CombinedImageSampler",
	DescriptorTypeSampledImage:             "SampledImage",
	DescriptorTypeStorageImage:             "StorageImage",
	DescriptorTypeUniformTexelBuffer:       "UniformTexelBuffer",
	DescriptorTypeStorageTexelBuffer:       "StorageTexelBuffer",
	DescriptorTypeUniformBuffer:            "UniformBuffer",
	DescriptorTypeStorageBuffer:            "StorageBuffer",
	DescriptorTypeUniformBufferDynamic:     "UniformBufferDynamic",
	DescriptorTypeStorageBufferDynamic:     "StorageBufferDynamic",
	DescriptorTypeInputAttachment:          "InputAttachment",
	DescriptorTypeAccelerationStructureKHR: "AccelerationStructureKHR",
}

func (t DescriptorType) String() string {
	if s, ok := descriptorTypeNames[t]; ok {
		return s
	}
	return "Undefined"
}

// ResourceType is the D3D-style classification of a binding.
type ResourceType uint32

// Resource types. A combined image sampler is both a sampler and an SRV.
const (
	ResourceTypeUndefined ResourceType = 0
	ResourceTypeSampler   ResourceType = 1 << 0
	ResourceTypeCBV       ResourceType = 1 << 1
	ResourceTypeSRV       ResourceType = 1 << 2
	ResourceTypeUAV       ResourceType = 1 << 3
)

func (t ResourceType) String() string {
	return flagString(uint32(t), []flagName{
		{uint32(ResourceTypeSampler), "Sampler"},
		{uint32(ResourceTypeCBV), "CBV"},
		{uint32(ResourceTypeSRV), "SRV"},
		{uint32(ResourceTypeUAV), "UAV"},
	}, "Undefined")
}

// TypeFlags classifies a type description.
//
// Image and sampled image descriptions also carry the flags and scalar
// traits of the image's sampled type: a float texture is described as
// ExternalImage|Float with Numeric.Scalar.Width 32. Check the External
// flags before the numeric ones to tell an image from a scalar.
type TypeFlags uint32

// Type flags.
const (
	TypeFlagUndefined                     TypeFlags = 0
	TypeFlagVoid                          TypeFlags = 0x00000001
	TypeFlagBool                          TypeFlags = 0x00000002
	TypeFlagInt                           TypeFlags = 0x00000004
	TypeFlagFloat                         TypeFlags = 0x00000008
	TypeFlagVector                        TypeFlags = 0x00000100
	TypeFlagMatrix                        TypeFlags = 0x00000200
	TypeFlagExternalImage                 TypeFlags = 0x00010000
	TypeFlagExternalSampler               TypeFlags = 0x00020000
	TypeFlagExternalSampledImage          TypeFlags = 0x00040000
	TypeFlagExternalBlock                 TypeFlags = 0x00080000
	TypeFlagExternalAccelerationStructure TypeFlags = 0x00100000
	TypeFlagExternalMask                  TypeFlags = 0x00FF0000
	TypeFlagStruct                        TypeFlags = 0x10000000
	TypeFlagArray                         TypeFlags = 0x20000000
)

func (f TypeFlags) String() string {
	return flagString(uint32(f), []flagName{
		{uint32(TypeFlagVoid), "Void"},
		{uint32(TypeFlagBool), "Bool"},
		{uint32(TypeFlagInt), "Int"},
		{uint32(TypeFlagFloat), "Float"},
		{uint32(TypeFlagVector), "Vector"},
		{uint32(TypeFlagMatrix), "Matrix"},
		{uint32(TypeFlagExternalImage), "ExternalImage"},
		{uint32(TypeFlagExternalSampler), "ExternalSampler"},
		{uint32(TypeFlagExternalSampledImage), "ExternalSampledImage"},
		{uint32(TypeFlagExternalBlock), "ExternalBlock"},
		{uint32(TypeFlagExternalAccelerationStructure), "ExternalAccelerationStructure"},
		{uint32(TypeFlagStruct), "Struct"},
		{uint32(TypeFlagArray), "Array"},
	}, "Undefined")
}

// DecorationFlags records the boolean decorations on a type, member or variable.
type DecorationFlags uint32

// Decoration flags.
const (
	DecorationNone          DecorationFlags = 0
	DecorationBlock         DecorationFlags = 1 << 0
	DecorationBufferBlock   DecorationFlags = 1 << 1
	DecorationRowMajor      DecorationFlags = 1 << 2
	DecorationColumnMajor   DecorationFlags = 1 << 3
	DecorationBuiltIn       DecorationFlags = 1 << 4
	DecorationNoPerspective DecorationFlags = 1 << 5
	DecorationFlat          DecorationFlags = 1 << 6
	DecorationNonWritable   DecorationFlags = 1 << 7
)

func (f DecorationFlags) String() string {
	return flagString(uint32(f), []flagName{
		{uint32(DecorationBlock), "Block"},
		{uint32(DecorationBufferBlock), "BufferBlock"},
		{uint32(DecorationRowMajor), "RowMajor"},
		{uint32(DecorationColumnMajor), "ColumnMajor"},
		{uint32(DecorationBuiltIn), "BuiltIn"},
		{uint32(DecorationNoPerspective), "NoPerspective"},
		{uint32(DecorationFlat), "Flat"},
		{uint32(DecorationNonWritable), "NonWritable"},
	}, "None")
}

// ShaderStage is a Vulkan shader stage bit. Values match VkShaderStageFlagBits.
type ShaderStage uint32

// Shader stages.
const (
	ShaderStageUndefined    ShaderStage = 0
	ShaderStageVertex       ShaderStage = 0x00000001
	ShaderStageTessControl  ShaderStage = 0x00000002
	ShaderStageTessEval     ShaderStage = 0x00000004
	ShaderStageGeometry     ShaderStage = 0x00000008
	ShaderStageFragment     ShaderStage = 0x00000010
	ShaderStageCompute      ShaderStage = 0x00000020
	ShaderStageTask         ShaderStage = 0x00000040
	ShaderStageMesh         ShaderStage = 0x00000080
	ShaderStageRaygen       ShaderStage = 0x00000100
	ShaderStageAnyHit       ShaderStage = 0x00000200
	ShaderStageClosestHit   ShaderStage = 0x00000400
	ShaderStageMiss         ShaderStage = 0x00000800
	ShaderStageIntersection ShaderStage = 0x00001000
	ShaderStageCallable     ShaderStage = 0x00002000
)

func (s ShaderStage) String() string {
	return flagString(uint32(s), []flagName{
		{uint32(ShaderStageVertex), "Vertex"},
		{uint32(ShaderStageTessControl), "TessControl"},
		{uint32(ShaderStageTessEval), "TessEval"},
		{uint32(ShaderStageGeometry), "Geometry"},
		{uint32(ShaderStageFragment), "Fragment"},
		{uint32(ShaderStageCompute), "Compute"},
		{uint32(ShaderStageTask), "Task"},
		{uint32(ShaderStageMesh), "Mesh"},
		{uint32(ShaderStageRaygen), "Raygen"},
		{uint32(ShaderStageAnyHit), "AnyHit"},
		{uint32(ShaderStageClosestHit), "ClosestHit"},
		{uint32(ShaderStageMiss), "Miss"},
		{uint32(ShaderStageIntersection), "Intersection"},
		{uint32(ShaderStageCallable), "Callable"},
	}, "Undefined")
}

// ShaderStageOf maps an execution model to its shader stage.
func ShaderStageOf(model spirv.ExecutionModel) ShaderStage {
	switch model {
	case spirv.ExecutionModelVertex:
		return ShaderStageVertex
	case spirv.ExecutionModelTessellationControl:
		return ShaderStageTessControl
	case spirv.ExecutionModelTessellationEvaluation:
		return ShaderStageTessEval
	case spirv.ExecutionModelGeometry:
		return ShaderStageGeometry
	case spirv.ExecutionModelFragment:
		return ShaderStageFragment
	case spirv.ExecutionModelGLCompute:
		return ShaderStageCompute
	case spirv.ExecutionModelTaskNV, spirv.ExecutionModelTaskEXT:
		return ShaderStageTask
	case spirv.ExecutionModelMeshNV, spirv.ExecutionModelMeshEXT:
		return ShaderStageMesh
	case spirv.ExecutionModelRayGenerationKHR:
		return ShaderStageRaygen
	case spirv.ExecutionModelAnyHitKHR:
		return ShaderStageAnyHit
	case spirv.ExecutionModelClosestHitKHR:
		return ShaderStageClosestHit
	case spirv.ExecutionModelMissKHR:
		return ShaderStageMiss
	case spirv.ExecutionModelIntersectionKHR:
		return ShaderStageIntersection
	case spirv.ExecutionModelCallableKHR:
		return ShaderStageCallable
	default:
		return ShaderStageUndefined
	}
}

// Format is the attribute format of an interface variable. Values match
// VkFormat.
type Format uint32

// Formats.
const (
	FormatUndefined          Format = 0
	FormatR16Uint            Format = 74
	FormatR16Sint            Format = 75
	FormatR16Sfloat          Format = 76
	FormatR16G16Uint         Format = 81
	FormatR16G16Sint         Format = 82
	FormatR16G16Sfloat       Format = 83
	FormatR16G16B16Uint      Format = 88
	FormatR16G16B16Sint      Format = 89
	FormatR16G16B16Sfloat    Format = 90
	FormatR16G16B16A16Uint   Format = 95
	FormatR16G16B16A16Sint   Format = 96
	FormatR16G16B16A16Sfloat Format = 97
	FormatR32Uint            Format = 98
	FormatR32Sint            Format = 99
	FormatR32Sfloat          Format = 100
	FormatR32G32Uint         Format = 101
	FormatR32G32Sint         Format = 102
	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Uint      Format = 104
	FormatR32G32B32Sint      Format = 105
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Uint   Format = 107
	FormatR32G32B32A32Sint   Format = 108
	FormatR32G32B32A32Sfloat Format = 109
	FormatR64Uint            Format = 110
	FormatR64Sint            Format = 111
	FormatR64Sfloat          Format = 112
	FormatR64G64Uint         Format = 113
	FormatR64G64Sint         Format = 114
	FormatR64G64Sfloat       Format = 115
	FormatR64G64B64Uint      Format = 116
	FormatR64G64B64Sint      Format = 117
	FormatR64G64B64Sfloat    Format = 118
	FormatR64G64B64A64Uint   Format = 119
	FormatR64G64B64A64Sint   Format = 120
	FormatR64G64B64A64Sfloat Format = 121
)

// formatBase holds the one-component uint format per scalar width; the
// sint and sfloat variants follow it, and each extra component adds the
// width's stride.
var formatBase = map[uint32]struct {
	base   Format
	stride Format
}{
	16: {FormatR16Uint, FormatR16G16Uint - FormatR16Uint},
	32: {FormatR32Uint, FormatR32G32Uint - FormatR32Uint},
	64: {FormatR64Uint, FormatR64G64Uint - FormatR64Uint},
}

// FormatOf returns the attribute format for a scalar or vector of the
// given width, component count and kind.
func FormatOf(width, components uint32, signed, float bool) Format {
	fb, ok := formatBase[width]
	if !ok || components < 1 || components > 4 {
		return FormatUndefined
	}
	f := fb.base + Format(components-1)*fb.stride
	switch {
	case float:
		f += 2
	case signed:
		f++
	}
	return f
}

// Components returns the number of components and the scalar width in bits
// of f, or zeros for FormatUndefined.
func (f Format) Components() (components, width uint32) {
	for w, fb := range formatBase {
		last := fb.base + 3*fb.stride + 2
		if f >= fb.base && f <= last && (f-fb.base)%fb.stride <= 2 {
			return uint32((f-fb.base)/fb.stride) + 1, w
		}
	}
	return 0, 0
}

var formatKinds = [...]string{"UINT", "SINT", "SFLOAT"}

func (f Format) String() string {
	n, w := f.Components()
	if n == 0 {
		return "UNDEFINED"
	}
	fb := formatBase[w]
	kind := formatKinds[(f-fb.base)%fb.stride]
	var sb strings.Builder
	for _, c := range "RGBA"[:n] {
		sb.WriteRune(c)
		sb.WriteString(strconv.FormatUint(uint64(w), 10))
	}
	return sb.String() + "_" + kind
}

// Generator identifies the tool that produced a module, from the vendor
// half of the header's generator word.
type Generator uint32

// Generators.
const (
	GeneratorUnknown                          Generator = 0
	GeneratorKhronosLLVMSPIRVTranslator       Generator = 6
	GeneratorKhronosSPIRVToolsAssembler       Generator = 7
	GeneratorKhronosGlslangReferenceFrontEnd  Generator = 8
	GeneratorGoogleShadercOverGlslang         Generator = 13
	GeneratorGoogleSpiregg                    Generator = 14
	GeneratorGoogleRspirv                     Generator = 15
	GeneratorXLegendMesaMesairSPIRVTranslator Generator = 16
	GeneratorKhronosSPIRVToolsLinker          Generator = 17
	GeneratorWineVkd3dShaderCompiler          Generator = 18
	GeneratorClayClayShaderCompiler           Generator = 19
)

var generatorNames = map[Generator]string{
	GeneratorKhronosLLVMSPIRVTranslator:       "Khronos LLVM/SPIR-V Translator",
	GeneratorKhronosSPIRVToolsAssembler:       "Khronos SPIR-V Tools Assembler",
	GeneratorKhronosGlslangReferenceFrontEnd:  "Khronos Glslang Reference Front End",
	GeneratorGoogleShadercOverGlslang:         "Google Shaderc over Glslang",
	GeneratorGoogleSpiregg:                    "Google spiregg",
	GeneratorGoogleRspirv:                     "Google rspirv",
	GeneratorXLegendMesaMesairSPIRVTranslator: "X-LEGEND Mesa-IR/SPIR-V Translator",
	GeneratorKhronosSPIRVToolsLinker:          "Khronos SPIR-V Tools Linker",
	GeneratorWineVkd3dShaderCompiler:          "Wine VKD3D Shader Compiler",
	GeneratorClayClayShaderCompiler:           "Clay Clay Shader Compiler",
}

// GeneratorOf maps a header generator word to a known generator.
func GeneratorOf(word uint32) Generator {
	g := Generator(word >> 16)
	if _, ok := generatorNames[g]; ok {
		return g
	}
	return GeneratorUnknown
}

func (g Generator) String() string {
	if s, ok := generatorNames[g]; ok {
		return s
	}
	return "Unknown"
}

type flagName struct {
	bit  uint32
	name string
}

func flagString(v uint32, names []flagName, zero string) string {
	if v == 0 {
		return zero
	}
	var parts []string
	for _, fn := range names {
		if v&fn.bit != 0 {
			parts = append(parts, fn.name)
			v &^= fn.bit
		}
	}
	if v != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(v), 16))
	}
	return strings.Join(parts, "|")
}
