package spirv

import "fmt"

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word returns the header encoding of the version.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionFromWord decodes the version word of a module header.
func VersionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// SPIR-V magic number
const MagicNumber = 0x07230203

// GeneratorID is the generator word written by ModuleBuilder.
// The high 16 bits are the registered vendor tool id.
const GeneratorID = 0x001C0000

// HeaderWords is the number of words in the module header.
const HeaderWords = 5

// Header is the fixed 5-word module header.
type Header struct {
	Magic     uint32
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Vendor returns the registered tool id of the generator word.
func (h Header) Vendor() uint32 {
	return h.Generator >> 16
}

// ParseHeader decodes the header of a word stream. It reports false when
// the stream is shorter than a header.
func ParseHeader(words []uint32) (Header, bool) {
	if len(words) < HeaderWords {
		return Header{}, false
	}
	return Header{
		Magic:     words[0],
		Version:   VersionFromWord(words[1]),
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}, true
}

// Options configures module assembly.
type Options struct {
	// Version is the SPIR-V version written to the header
	Version Version

	// Generator overrides the generator word
	Generator uint32
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Version:   Version1_3,
		Generator: GeneratorID,
	}
}

// Capability represents a SPIR-V capability.
type Capability uint32

// Capabilities seen in graphics and compute shaders.
const (
	CapabilityMatrix                         Capability = 0
	CapabilityShader                         Capability = 1
	CapabilityGeometry                       Capability = 2
	CapabilityTessellation                   Capability = 3
	CapabilityAddresses                      Capability = 4
	CapabilityLinkage                        Capability = 5
	CapabilityKernel                         Capability = 6
	CapabilityFloat16                        Capability = 9
	CapabilityFloat64                        Capability = 10
	CapabilityInt64                          Capability = 11
	CapabilityInt16                          Capability = 22
	CapabilityImageGatherExtended            Capability = 25
	CapabilityStorageImageMultisample        Capability = 27
	CapabilityClipDistance                   Capability = 32
	CapabilityCullDistance                   Capability = 33
	CapabilityImageCubeArray                 Capability = 34
	CapabilitySampleRateShading              Capability = 35
	CapabilityInt8                           Capability = 39
	CapabilityInputAttachment                Capability = 40
	CapabilitySampled1D                      Capability = 43
	CapabilityImage1D                        Capability = 44
	CapabilitySampledBuffer                  Capability = 46
	CapabilityImageBuffer                    Capability = 47
	CapabilityImageQuery                     Capability = 50
	CapabilityDerivativeControl              Capability = 51
	CapabilityStorageImageExtendedFormats    Capability = 49
	CapabilityStorageImageReadWithoutFormat  Capability = 55
	CapabilityStorageImageWriteWithoutFormat Capability = 56
	CapabilityMultiViewport                  Capability = 57
	CapabilityGroupNonUniform                Capability = 61
	CapabilityGroupNonUniformVote            Capability = 62
	CapabilityGroupNonUniformArithmetic      Capability = 63
	CapabilityGroupNonUniformBallot          Capability = 64
	CapabilityGroupNonUniformShuffle         Capability = 65
	CapabilityDrawParameters                 Capability = 4427
	CapabilityMultiView                      Capability = 4439
	CapabilityStorageBuffer16BitAccess       Capability = 4433
	CapabilityRuntimeDescriptorArray         Capability = 5302
	CapabilityPhysicalStorageBufferAddresses Capability = 5347
	CapabilityRayTracingKHR                  Capability = 4479
	CapabilityRayQueryKHR                    Capability = 4472
	CapabilityMeshShadingEXT                 Capability = 5283
)

var capabilityNames = map[Capability]string{
	CapabilityMatrix: "Matrix", CapabilityShader: "Shader", CapabilityGeometry: "Geometry",
	CapabilityTessellation: "Tessellation", CapabilityAddresses: "Addresses",
	CapabilityLinkage: "Linkage", CapabilityKernel: "Kernel",
	CapabilityFloat16: "Float16", CapabilityFloat64: "Float64", CapabilityInt64: "Int64",
	CapabilityInt16: "Int16", CapabilityImageGatherExtended: "ImageGatherExtended",
	CapabilityStorageImageMultisample: "StorageImageMultisample",
	CapabilityClipDistance: "ClipDistance", CapabilityCullDistance: "CullDistance",
	CapabilityImageCubeArray: "ImageCubeArray", CapabilitySampleRateShading: "SampleRateShading",
	CapabilityInt8: "Int8", CapabilityInputAttachment: "InputAttachment",
	CapabilitySampled1D: "Sampled1D", CapabilityImage1D: "Image1D",
	CapabilitySampledBuffer: "SampledBuffer", CapabilityImageBuffer: "ImageBuffer",
	CapabilityImageQuery: "ImageQuery", CapabilityDerivativeControl: "DerivativeControl",
	CapabilityStorageImageExtendedFormats:    "StorageImageExtendedFormats",
	CapabilityStorageImageReadWithoutFormat:  "StorageImageReadWithoutFormat",
	CapabilityStorageImageWriteWithoutFormat: "StorageImageWriteWithoutFormat",
	CapabilityMultiViewport:                  "MultiViewport",
	CapabilityGroupNonUniform:                "GroupNonUniform",
	CapabilityGroupNonUniformVote:            "GroupNonUniformVote",
	CapabilityGroupNonUniformArithmetic:      "GroupNonUniformArithmetic",
	CapabilityGroupNonUniformBallot:          "GroupNonUniformBallot",
	CapabilityGroupNonUniformShuffle:         "GroupNonUniformShuffle",
	CapabilityDrawParameters:                 "DrawParameters",
	CapabilityMultiView:                      "MultiView",
	CapabilityStorageBuffer16BitAccess:       "StorageBuffer16BitAccess",
	CapabilityRuntimeDescriptorArray:         "RuntimeDescriptorArray",
	CapabilityPhysicalStorageBufferAddresses: "PhysicalStorageBufferAddresses",
	CapabilityRayTracingKHR:                  "RayTracingKHR",
	CapabilityRayQueryKHR:                    "RayQueryKHR",
	CapabilityMeshShadingEXT:                 "MeshShadingEXT",
}

func (c Capability) String() string {
	return lookupName(capabilityNames, c)
}

// lookupName returns the table name for v or its decimal value.
func lookupName[K ~uint32 | ~uint16](m map[K]string, v K) string {
	if s, ok := m[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", v)
}
