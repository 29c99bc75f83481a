package spirv

// Decoration represents a SPIR-V decoration.
type Decoration uint32

// Decorations
const (
	DecorationRelaxedPrecision        Decoration = 0
	DecorationSpecID                  Decoration = 1
	DecorationBlock                   Decoration = 2
	DecorationBufferBlock             Decoration = 3
	DecorationRowMajor                Decoration = 4
	DecorationColMajor                Decoration = 5
	DecorationArrayStride             Decoration = 6
	DecorationMatrixStride            Decoration = 7
	DecorationBuiltIn                 Decoration = 11
	DecorationNoPerspective           Decoration = 13
	DecorationFlat                    Decoration = 14
	DecorationPatch                   Decoration = 15
	DecorationCentroid                Decoration = 16
	DecorationSample                  Decoration = 17
	DecorationInvariant               Decoration = 18
	DecorationRestrict                Decoration = 19
	DecorationAliased                 Decoration = 20
	DecorationVolatile                Decoration = 21
	DecorationCoherent                Decoration = 23
	DecorationNonWritable             Decoration = 24
	DecorationNonReadable             Decoration = 25
	DecorationLocation                Decoration = 30
	DecorationComponent               Decoration = 31
	DecorationIndex                   Decoration = 32
	DecorationBinding                 Decoration = 33
	DecorationDescriptorSet           Decoration = 34
	DecorationOffset                  Decoration = 35
	DecorationInputAttachmentIndex    Decoration = 43
	DecorationAlignment               Decoration = 44
	DecorationHlslCounterBufferGOOGLE Decoration = 5634
	DecorationHlslSemanticGOOGLE      Decoration = 5635
	DecorationUserTypeGOOGLE          Decoration = 5636
)

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision:        "RelaxedPrecision",
	DecorationSpecID:                  "SpecId",
	DecorationBlock:                   "Block",
	DecorationBufferBlock:             "BufferBlock",
	DecorationRowMajor:                "RowMajor",
	DecorationColMajor:                "ColMajor",
	DecorationArrayStride:             "ArrayStride",
	DecorationMatrixStride:            "MatrixStride",
	DecorationBuiltIn:                 "BuiltIn",
	DecorationNoPerspective:           "NoPerspective",
	DecorationFlat:                    "Flat",
	DecorationPatch:                   "Patch",
	DecorationCentroid:                "Centroid",
	DecorationSample:                  "Sample",
	DecorationInvariant:               "Invariant",
	DecorationRestrict:                "Restrict",
	DecorationAliased:                 "Aliased",
	DecorationVolatile:                "Volatile",
	DecorationCoherent:                "Coherent",
	DecorationNonWritable:             "NonWritable",
	DecorationNonReadable:             "NonReadable",
	DecorationLocation:                "Location",
	DecorationComponent:               "Component",
	DecorationIndex:                   "Index",
	DecorationBinding:                 "Binding",
	DecorationDescriptorSet:           "DescriptorSet",
	DecorationOffset:                  "Offset",
	DecorationInputAttachmentIndex:    "InputAttachmentIndex",
	DecorationAlignment:               "Alignment",
	DecorationHlslCounterBufferGOOGLE: "HlslCounterBufferGOOGLE",
	DecorationHlslSemanticGOOGLE:      "HlslSemanticGOOGLE",
	DecorationUserTypeGOOGLE:          "UserTypeGOOGLE",
}

func (d Decoration) String() string {
	return lookupName(decorationNames, d)
}

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

// Storage classes
const (
	StorageClassUniformConstant         StorageClass = 0
	StorageClassInput                   StorageClass = 1
	StorageClassUniform                 StorageClass = 2
	StorageClassOutput                  StorageClass = 3
	StorageClassWorkgroup               StorageClass = 4
	StorageClassCrossWorkgroup          StorageClass = 5
	StorageClassPrivate                 StorageClass = 6
	StorageClassFunction                StorageClass = 7
	StorageClassGeneric                 StorageClass = 8
	StorageClassPushConstant            StorageClass = 9
	StorageClassAtomicCounter           StorageClass = 10
	StorageClassImage                   StorageClass = 11
	StorageClassStorageBuffer           StorageClass = 12
	StorageClassCallableDataKHR         StorageClass = 5328
	StorageClassIncomingCallableDataKHR StorageClass = 5329
	StorageClassRayPayloadKHR           StorageClass = 5338
	StorageClassHitAttributeKHR         StorageClass = 5339
	StorageClassIncomingRayPayloadKHR   StorageClass = 5342
	StorageClassShaderRecordBufferKHR   StorageClass = 5343
	StorageClassPhysicalStorageBuffer   StorageClass = 5349
	StorageClassTaskPayloadWorkgroupEXT StorageClass = 5402
)

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant:         "UniformConstant",
	StorageClassInput:                   "Input",
	StorageClassUniform:                 "Uniform",
	StorageClassOutput:                  "Output",
	StorageClassWorkgroup:               "Workgroup",
	StorageClassCrossWorkgroup:          "CrossWorkgroup",
	StorageClassPrivate:                 "Private",
	StorageClassFunction:                "Function",
	StorageClassGeneric:                 "Generic",
	StorageClassPushConstant:            "PushConstant",
	StorageClassAtomicCounter:           "AtomicCounter",
	StorageClassImage:                   "Image",
	StorageClassStorageBuffer:           "StorageBuffer",
	StorageClassCallableDataKHR:         "CallableDataKHR",
	StorageClassIncomingCallableDataKHR: "IncomingCallableDataKHR",
	StorageClassRayPayloadKHR:           "RayPayloadKHR",
	StorageClassHitAttributeKHR:         "HitAttributeKHR",
	StorageClassIncomingRayPayloadKHR:   "IncomingRayPayloadKHR",
	StorageClassShaderRecordBufferKHR:   "ShaderRecordBufferKHR",
	StorageClassPhysicalStorageBuffer:   "PhysicalStorageBuffer",
	StorageClassTaskPayloadWorkgroupEXT: "TaskPayloadWorkgroupEXT",
}

func (s StorageClass) String() string {
	return lookupName(storageClassNames, s)
}

// BuiltIn represents a SPIR-V built-in variable tag.
type BuiltIn uint32

// Built-ins
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexID             BuiltIn = 5
	BuiltInInstanceID           BuiltIn = 6
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInInvocationID         BuiltIn = 8
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInTessLevelOuter       BuiltIn = 11
	BuiltInTessLevelInner       BuiltIn = 12
	BuiltInTessCoord            BuiltIn = 13
	BuiltInPatchVertices        BuiltIn = 14
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInHelperInvocation     BuiltIn = 23
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInSubgroupSize         BuiltIn = 36
	BuiltInNumSubgroups         BuiltIn = 38
	BuiltInSubgroupID           BuiltIn = 40
	BuiltInSubgroupLocalID      BuiltIn = 41
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
	BuiltInBaseVertex           BuiltIn = 4424
	BuiltInBaseInstance         BuiltIn = 4425
	BuiltInDrawIndex            BuiltIn = 4426
	BuiltInViewIndex            BuiltIn = 4440
)

var builtInNames = map[BuiltIn]string{
	BuiltInPosition:             "Position",
	BuiltInPointSize:            "PointSize",
	BuiltInClipDistance:         "ClipDistance",
	BuiltInCullDistance:         "CullDistance",
	BuiltInVertexID:             "VertexId",
	BuiltInInstanceID:           "InstanceId",
	BuiltInPrimitiveID:          "PrimitiveId",
	BuiltInInvocationID:         "InvocationId",
	BuiltInLayer:                "Layer",
	BuiltInViewportIndex:        "ViewportIndex",
	BuiltInTessLevelOuter:       "TessLevelOuter",
	BuiltInTessLevelInner:       "TessLevelInner",
	BuiltInTessCoord:            "TessCoord",
	BuiltInPatchVertices:        "PatchVertices",
	BuiltInFragCoord:            "FragCoord",
	BuiltInPointCoord:           "PointCoord",
	BuiltInFrontFacing:          "FrontFacing",
	BuiltInSampleID:             "SampleId",
	BuiltInSamplePosition:       "SamplePosition",
	BuiltInSampleMask:           "SampleMask",
	BuiltInFragDepth:            "FragDepth",
	BuiltInHelperInvocation:     "HelperInvocation",
	BuiltInNumWorkgroups:        "NumWorkgroups",
	BuiltInWorkgroupSize:        "WorkgroupSize",
	BuiltInWorkgroupID:          "WorkgroupId",
	BuiltInLocalInvocationID:    "LocalInvocationId",
	BuiltInGlobalInvocationID:   "GlobalInvocationId",
	BuiltInLocalInvocationIndex: "LocalInvocationIndex",
	BuiltInSubgroupSize:         "SubgroupSize",
	BuiltInNumSubgroups:         "NumSubgroups",
	BuiltInSubgroupID:           "SubgroupId",
	BuiltInSubgroupLocalID:      "SubgroupLocalInvocationId",
	BuiltInVertexIndex:          "VertexIndex",
	BuiltInInstanceIndex:        "InstanceIndex",
	BuiltInBaseVertex:           "BaseVertex",
	BuiltInBaseInstance:         "BaseInstance",
	BuiltInDrawIndex:            "DrawIndex",
	BuiltInViewIndex:            "ViewIndex",
}

func (b BuiltIn) String() string {
	return lookupName(builtInNames, b)
}

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

// Image dimensionalities
const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

var dimNames = map[Dim]string{
	Dim1D:          "1D",
	Dim2D:          "2D",
	Dim3D:          "3D",
	DimCube:        "Cube",
	DimRect:        "Rect",
	DimBuffer:      "Buffer",
	DimSubpassData: "SubpassData",
}

func (d Dim) String() string {
	return lookupName(dimNames, d)
}

// ImageFormat is the texel format operand of OpTypeImage.
type ImageFormat uint32

// Image formats
const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatRgba32f
	ImageFormatRgba16f
	ImageFormatR32f
	ImageFormatRgba8
	ImageFormatRgba8Snorm
	ImageFormatRg32f
	ImageFormatRg16f
	ImageFormatR11fG11fB10f
	ImageFormatR16f
	ImageFormatRgba16
	ImageFormatRgb10A2
	ImageFormatRg16
	ImageFormatRg8
	ImageFormatR16
	ImageFormatR8
	ImageFormatRgba16Snorm
	ImageFormatRg16Snorm
	ImageFormatRg8Snorm
	ImageFormatR16Snorm
	ImageFormatR8Snorm
	ImageFormatRgba32i
	ImageFormatRgba16i
	ImageFormatRgba8i
	ImageFormatR32i
	ImageFormatRg32i
	ImageFormatRg16i
	ImageFormatRg8i
	ImageFormatR16i
	ImageFormatR8i
	ImageFormatRgba32ui
	ImageFormatRgba16ui
	ImageFormatRgba8ui
	ImageFormatR32ui
	ImageFormatRgb10a2ui
	ImageFormatRg32ui
	ImageFormatRg16ui
	ImageFormatRg8ui
	ImageFormatR16ui
	ImageFormatR8ui
	ImageFormatR64ui
	ImageFormatR64i
)

var imageFormatNames = [...]string{
	"Unknown", "Rgba32f", "Rgba16f", "R32f", "Rgba8", "Rgba8Snorm", "Rg32f", "Rg16f",
	"R11fG11fB10f", "R16f", "Rgba16", "Rgb10A2", "Rg16", "Rg8", "R16", "R8",
	"Rgba16Snorm", "Rg16Snorm", "Rg8Snorm", "R16Snorm", "R8Snorm", "Rgba32i", "Rgba16i",
	"Rgba8i", "R32i", "Rg32i", "Rg16i", "Rg8i", "R16i", "R8i", "Rgba32ui", "Rgba16ui",
	"Rgba8ui", "R32ui", "Rgb10a2ui", "Rg32ui", "Rg16ui", "Rg8ui", "R16ui", "R8ui",
	"R64ui", "R64i",
}

func (f ImageFormat) String() string {
	if int(f) < len(imageFormatNames) {
		return imageFormatNames[f]
	}
	return lookupName(map[ImageFormat]string{}, f)
}

// ExecutionModel represents a SPIR-V execution model.
type ExecutionModel uint32

// Execution models
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
	ExecutionModelTaskNV                 ExecutionModel = 5267
	ExecutionModelMeshNV                 ExecutionModel = 5268
	ExecutionModelRayGenerationKHR       ExecutionModel = 5313
	ExecutionModelIntersectionKHR        ExecutionModel = 5314
	ExecutionModelAnyHitKHR              ExecutionModel = 5315
	ExecutionModelClosestHitKHR          ExecutionModel = 5316
	ExecutionModelMissKHR                ExecutionModel = 5317
	ExecutionModelCallableKHR            ExecutionModel = 5318
	ExecutionModelTaskEXT                ExecutionModel = 5364
	ExecutionModelMeshEXT                ExecutionModel = 5365
)

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex:                 "Vertex",
	ExecutionModelTessellationControl:    "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation",
	ExecutionModelGeometry:               "Geometry",
	ExecutionModelFragment:               "Fragment",
	ExecutionModelGLCompute:              "GLCompute",
	ExecutionModelKernel:                 "Kernel",
	ExecutionModelTaskNV:                 "TaskNV",
	ExecutionModelMeshNV:                 "MeshNV",
	ExecutionModelRayGenerationKHR:       "RayGenerationKHR",
	ExecutionModelIntersectionKHR:        "IntersectionKHR",
	ExecutionModelAnyHitKHR:              "AnyHitKHR",
	ExecutionModelClosestHitKHR:          "ClosestHitKHR",
	ExecutionModelMissKHR:                "MissKHR",
	ExecutionModelCallableKHR:            "CallableKHR",
	ExecutionModelTaskEXT:                "TaskEXT",
	ExecutionModelMeshEXT:                "MeshEXT",
}

func (m ExecutionModel) String() string {
	return lookupName(executionModelNames, m)
}

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

// Execution modes
const (
	ExecutionModeInvocations        ExecutionMode = 0
	ExecutionModeOriginUpperLeft    ExecutionMode = 7
	ExecutionModeOriginLowerLeft    ExecutionMode = 8
	ExecutionModeEarlyFragmentTests ExecutionMode = 9
	ExecutionModeDepthReplacing     ExecutionMode = 12
	ExecutionModeLocalSize          ExecutionMode = 17
	ExecutionModeTriangles          ExecutionMode = 22
	ExecutionModeOutputVertices     ExecutionMode = 26
)

var executionModeNames = map[ExecutionMode]string{
	ExecutionModeInvocations:        "Invocations",
	1:                               "SpacingEqual",
	2:                               "SpacingFractionalEven",
	3:                               "SpacingFractionalOdd",
	4:                               "VertexOrderCw",
	5:                               "VertexOrderCcw",
	6:                               "PixelCenterInteger",
	ExecutionModeOriginUpperLeft:    "OriginUpperLeft",
	ExecutionModeOriginLowerLeft:    "OriginLowerLeft",
	ExecutionModeEarlyFragmentTests: "EarlyFragmentTests",
	10:                              "PointMode",
	11:                              "Xfb",
	ExecutionModeDepthReplacing:     "DepthReplacing",
	14:                              "DepthGreater",
	15:                              "DepthLess",
	16:                              "DepthUnchanged",
	ExecutionModeLocalSize:          "LocalSize",
	18:                              "LocalSizeHint",
	19:                              "InputPoints",
	20:                              "InputLines",
	21:                              "InputLinesAdjacency",
	ExecutionModeTriangles:          "Triangles",
	23:                              "InputTrianglesAdjacency",
	24:                              "Quads",
	25:                              "Isolines",
	ExecutionModeOutputVertices:     "OutputVertices",
	27:                              "OutputPoints",
	28:                              "OutputLineStrip",
	29:                              "OutputTriangleStrip",
}

func (m ExecutionMode) String() string {
	return lookupName(executionModeNames, m)
}

// SourceLanguage is the language operand of OpSource.
type SourceLanguage uint32

// Source languages
const (
	SourceLanguageUnknown SourceLanguage = iota
	SourceLanguageESSL
	SourceLanguageGLSL
	SourceLanguageOpenCLC
	SourceLanguageOpenCLCPP
	SourceLanguageHLSL
	SourceLanguageCPPForOpenCL
	SourceLanguageSYCL
	SourceLanguageHEROC
	SourceLanguageNZSL
	SourceLanguageWGSL
	SourceLanguageSlang
	SourceLanguageZig
)

var sourceLanguageNames = [...]string{
	"Unknown", "ESSL", "GLSL", "OpenCL_C", "OpenCL_CPP", "HLSL", "CPP_for_OpenCL",
	"SYCL", "HERO_C", "NZSL", "WGSL", "Slang", "Zig",
}

func (l SourceLanguage) String() string {
	if int(l) < len(sourceLanguageNames) {
		return sourceLanguageNames[l]
	}
	return lookupName(map[SourceLanguage]string{}, l)
}

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

// Addressing models
const (
	AddressingModelLogical                 AddressingModel = 0
	AddressingModelPhysical32              AddressingModel = 1
	AddressingModelPhysical64              AddressingModel = 2
	AddressingModelPhysicalStorageBuffer64 AddressingModel = 5348
)

var addressingModelNames = map[AddressingModel]string{
	AddressingModelLogical:                 "Logical",
	AddressingModelPhysical32:              "Physical32",
	AddressingModelPhysical64:              "Physical64",
	AddressingModelPhysicalStorageBuffer64: "PhysicalStorageBuffer64",
}

func (a AddressingModel) String() string {
	return lookupName(addressingModelNames, a)
}

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

// Memory models
const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

var memoryModelNames = map[MemoryModel]string{
	MemoryModelSimple:  "Simple",
	MemoryModelGLSL450: "GLSL450",
	MemoryModelOpenCL:  "OpenCL",
	MemoryModelVulkan:  "Vulkan",
}

func (m MemoryModel) String() string {
	return lookupName(memoryModelNames, m)
}

// FunctionControl is the control mask operand of OpFunction.
type FunctionControl uint32

// Function control bits
const (
	FunctionControlNone       FunctionControl = 0
	FunctionControlInline     FunctionControl = 1
	FunctionControlDontInline FunctionControl = 2
	FunctionControlPure       FunctionControl = 4
	FunctionControlConst      FunctionControl = 8
)
