package spvreflect

import "github.com/gogpu/spvreflect/spirv"

// ScalarTraits describes a scalar component.
type ScalarTraits struct {
	Width      uint32 `json:"width" yaml:"width"`
	Signedness uint32 `json:"signedness" yaml:"signedness"`
}

// VectorTraits describes a vector.
type VectorTraits struct {
	ComponentCount uint32 `json:"componentCount" yaml:"componentCount"`
}

// MatrixTraits describes a matrix. Stride is the byte distance between
// columns (column-major) or rows (row-major).
type MatrixTraits struct {
	ColumnCount uint32 `json:"columnCount" yaml:"columnCount"`
	RowCount    uint32 `json:"rowCount" yaml:"rowCount"`
	Stride      uint32 `json:"stride" yaml:"stride"`
}

// NumericTraits describes the numeric shape of a type.
type NumericTraits struct {
	Scalar ScalarTraits `json:"scalar" yaml:"scalar"`
	Vector VectorTraits `json:"vector" yaml:"vector"`
	Matrix MatrixTraits `json:"matrix" yaml:"matrix"`
}

// ImageTraits describes an image type.
type ImageTraits struct {
	Dim         spirv.Dim         `json:"dim" yaml:"dim"`
	Depth       uint32            `json:"depth" yaml:"depth"`
	Arrayed     uint32            `json:"arrayed" yaml:"arrayed"`
	MS          uint32            `json:"ms" yaml:"ms"`
	Sampled     uint32            `json:"sampled" yaml:"sampled"`
	ImageFormat spirv.ImageFormat `json:"imageFormat" yaml:"imageFormat"`
}

// ArrayTraits describes the dimensions of an array, outermost first.
// Runtime arrays contribute no dimension.
type ArrayTraits struct {
	Dims   []uint32 `json:"dims,omitempty" yaml:"dims,omitempty"`
	Stride uint32   `json:"stride" yaml:"stride"`
}

// ElementCount returns the product of the dimensions, 1 for a non-array.
func (a ArrayTraits) ElementCount() uint32 {
	n := uint32(1)
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// TypeTraits groups the traits a type description may carry.
type TypeTraits struct {
	Numeric NumericTraits `json:"numeric" yaml:"numeric"`
	Image   ImageTraits   `json:"image" yaml:"image"`
	Array   ArrayTraits   `json:"array" yaml:"array"`
}

// TypeDescription is a resolved type. Members are owned by their parent;
// shared SPIR-V types are resolved again at every reference site.
type TypeDescription struct {
	ID               uint32             `json:"id" yaml:"id"`
	Op               spirv.OpCode       `json:"op" yaml:"op"`
	TypeName         string             `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	StructMemberName string             `json:"structMemberName,omitempty" yaml:"structMemberName,omitempty"`
	StorageClass     spirv.StorageClass `json:"storageClass" yaml:"storageClass"`
	TypeFlags        TypeFlags          `json:"typeFlags" yaml:"typeFlags"`
	DecorationFlags  DecorationFlags    `json:"decorationFlags" yaml:"decorationFlags"`
	Traits           TypeTraits         `json:"traits" yaml:"traits"`
	Members          []TypeDescription  `json:"members,omitempty" yaml:"members,omitempty"`
}

func newTypeDescription() TypeDescription {
	return TypeDescription{
		ID:           InvalidValue,
		StorageClass: spirv.StorageClass(InvalidValue),
	}
}

// BlockVariable is the layout of a buffer block or one of its members.
// AbsoluteOffset is measured from the start of the root block.
type BlockVariable struct {
	SpirvID         uint32           `json:"spirvId" yaml:"spirvId"`
	Name            string           `json:"name" yaml:"name"`
	Offset          uint32           `json:"offset" yaml:"offset"`
	AbsoluteOffset  uint32           `json:"absoluteOffset" yaml:"absoluteOffset"`
	Size            uint32           `json:"size" yaml:"size"`
	PaddedSize      uint32           `json:"paddedSize" yaml:"paddedSize"`
	DecorationFlags DecorationFlags  `json:"decorationFlags" yaml:"decorationFlags"`
	Numeric         NumericTraits    `json:"numeric" yaml:"numeric"`
	Array           ArrayTraits      `json:"array" yaml:"array"`
	Members         []BlockVariable  `json:"members,omitempty" yaml:"members,omitempty"`
	TypeDescription *TypeDescription `json:"-" yaml:"-"`
}

// WordOffsets records where a binding's decorations live in the word
// stream. Zero means the decoration is absent.
type WordOffsets struct {
	Binding int `json:"binding" yaml:"binding"`
	Set     int `json:"set" yaml:"set"`
}

// DescriptorBinding is a resource bound through a descriptor set.
type DescriptorBinding struct {
	SpirvID              uint32           `json:"spirvId" yaml:"spirvId"`
	Name                 string           `json:"name" yaml:"name"`
	Binding              uint32           `json:"binding" yaml:"binding"`
	InputAttachmentIndex uint32           `json:"inputAttachmentIndex" yaml:"inputAttachmentIndex"`
	Set                  uint32           `json:"set" yaml:"set"`
	DescriptorType       DescriptorType   `json:"descriptorType" yaml:"descriptorType"`
	ResourceType         ResourceType     `json:"resourceType" yaml:"resourceType"`
	Image                ImageTraits      `json:"image" yaml:"image"`
	Block                BlockVariable    `json:"block" yaml:"block"`
	Array                ArrayTraits      `json:"array" yaml:"array"`
	Count                uint32           `json:"count" yaml:"count"`
	Accessed             bool             `json:"accessed" yaml:"accessed"`
	UavCounterID         uint32           `json:"uavCounterId" yaml:"uavCounterId"`
	UavCounterBinding    int              `json:"uavCounterBinding" yaml:"uavCounterBinding"`
	TypeDescription      *TypeDescription `json:"-" yaml:"-"`
	WordOffset           WordOffsets      `json:"wordOffset" yaml:"wordOffset"`
}

// DescriptorSet groups bindings sharing a set number. Bindings holds
// indices into the module's binding list, in declaration order.
type DescriptorSet struct {
	Set      uint32 `json:"set" yaml:"set"`
	Bindings []int  `json:"bindings" yaml:"bindings"`
}

// InterfaceVariable is a stage input or output.
type InterfaceVariable struct {
	SpirvID         uint32              `json:"spirvId" yaml:"spirvId"`
	Name            string              `json:"name" yaml:"name"`
	Location        uint32              `json:"location" yaml:"location"`
	StorageClass    spirv.StorageClass  `json:"storageClass" yaml:"storageClass"`
	Semantic        string              `json:"semantic,omitempty" yaml:"semantic,omitempty"`
	DecorationFlags DecorationFlags     `json:"decorationFlags" yaml:"decorationFlags"`
	BuiltIn         spirv.BuiltIn       `json:"builtIn" yaml:"builtIn"`
	Numeric         NumericTraits       `json:"numeric" yaml:"numeric"`
	Array           ArrayTraits         `json:"array" yaml:"array"`
	Members         []InterfaceVariable `json:"members,omitempty" yaml:"members,omitempty"`
	Format          Format              `json:"format" yaml:"format"`
	TypeDescription *TypeDescription    `json:"-" yaml:"-"`
	LocationOffset  int                 `json:"locationOffset" yaml:"locationOffset"`
}

// IsBuiltIn reports whether v is a built-in variable.
func (v *InterfaceVariable) IsBuiltIn() bool {
	return v.DecorationFlags&DecorationBuiltIn != 0
}

// EntryPoint is a shader entry function with its interface and the
// resources it statically uses.
type EntryPoint struct {
	Name              string               `json:"name" yaml:"name"`
	ID                uint32               `json:"id" yaml:"id"`
	ExecutionModel    spirv.ExecutionModel `json:"executionModel" yaml:"executionModel"`
	ShaderStage       ShaderStage          `json:"shaderStage" yaml:"shaderStage"`
	InputVariables    []InterfaceVariable  `json:"inputVariables,omitempty" yaml:"inputVariables,omitempty"`
	OutputVariables   []InterfaceVariable  `json:"outputVariables,omitempty" yaml:"outputVariables,omitempty"`
	DescriptorSets    []DescriptorSet      `json:"descriptorSets,omitempty" yaml:"descriptorSets,omitempty"`
	UsedUniforms      []uint32             `json:"usedUniforms,omitempty" yaml:"usedUniforms,omitempty"`
	UsedPushConstants []uint32             `json:"usedPushConstants,omitempty" yaml:"usedPushConstants,omitempty"`
	LocalSize         [3]uint32            `json:"localSize" yaml:"localSize"`
}

// usesUniform reports whether id is in the entry point's used uniforms.
func (ep *EntryPoint) usesUniform(id uint32) bool {
	return containsSorted(ep.UsedUniforms, id)
}

func (ep *EntryPoint) usesPushConstant(id uint32) bool {
	return containsSorted(ep.UsedPushConstants, id)
}
