package spirv

import "math"

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// Encode encodes the instruction to binary.
func (i Instruction) Encode() []uint32 {
	result := make([]uint32, 0, len(i.Words)+1)
	result = append(result, FirstWord(len(i.Words)+1, i.Opcode))
	return append(result, i.Words...)
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) *InstructionBuilder {
	b.words = append(b.words, word)
	return b
}

// AddWords adds several words to the instruction.
func (b *InstructionBuilder) AddWords(words ...uint32) *InstructionBuilder {
	b.words = append(b.words, words...)
	return b
}

// AddString adds a null-terminated UTF-8 string.
func (b *InstructionBuilder) AddString(s string) *InstructionBuilder {
	b.words = append(b.words, EncodeString(s)...)
	return b
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// section indexes, in module layout order
const (
	secCapabilities = iota
	secExtensions
	secExtInstImports
	secMemoryModel
	secEntryPoints
	secExecutionModes
	secDebugStrings // OpString, OpSource
	secDebugNames   // OpName, OpMemberName
	secAnnotations  // OpDecorate, OpMemberDecorate
	secTypes        // OpType*, OpConstant*
	secGlobalVars
	secFunctions
	numSections
)

// ModuleBuilder assembles SPIR-V modules section by section.
// Instructions may be added in any order; Build emits the sections in the
// layout the SPIR-V specification mandates.
type ModuleBuilder struct {
	version   Version
	generator uint32
	schema    uint32

	sections [numSections][]Instruction

	nextID uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// NewModuleBuilderWithOptions creates a builder from Options.
func NewModuleBuilderWithOptions(opts Options) *ModuleBuilder {
	b := NewModuleBuilder(opts.Version)
	b.generator = opts.Generator
	return b
}

// SetGenerator overrides the generator word of the header.
func (b *ModuleBuilder) SetGenerator(generator uint32) {
	b.generator = generator
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *ModuleBuilder) add(sec int, op OpCode, words ...uint32) {
	b.sections[sec] = append(b.sections[sec], Instruction{Opcode: op, Words: words})
}

// AddRaw appends an instruction to the function section verbatim.
func (b *ModuleBuilder) AddRaw(inst Instruction) {
	b.sections[secFunctions] = append(b.sections[secFunctions], inst)
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.add(secCapabilities, OpCapability, uint32(capability))
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	b.add(secExtensions, OpExtension, EncodeString(name)...)
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	inst := NewInstructionBuilder().AddWord(id).AddString(name).Build(OpExtInstImport)
	b.sections[secExtInstImports] = append(b.sections[secExtInstImports], inst)
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	b.sections[secMemoryModel] = []Instruction{{
		Opcode: OpMemoryModel,
		Words:  []uint32{uint32(addressing), uint32(memory)},
	}}
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	inst := NewInstructionBuilder().
		AddWord(uint32(execModel)).
		AddWord(funcID).
		AddString(name).
		AddWords(interfaces...).
		Build(OpEntryPoint)
	b.sections[secEntryPoints] = append(b.sections[secEntryPoints], inst)
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	b.add(secExecutionModes, OpExecutionMode, append([]uint32{entryPoint, uint32(mode)}, params...)...)
}

// AddString adds a debug string.
func (b *ModuleBuilder) AddString(text string) uint32 {
	id := b.AllocID()
	inst := NewInstructionBuilder().AddWord(id).AddString(text).Build(OpString)
	b.sections[secDebugStrings] = append(b.sections[secDebugStrings], inst)
	return id
}

// AddSource adds OpSource. A zero file omits the file operand; source text
// is written only when file is present.
func (b *ModuleBuilder) AddSource(lang SourceLanguage, version uint32, file uint32, source string) {
	ib := NewInstructionBuilder().AddWord(uint32(lang)).AddWord(version)
	if file != 0 {
		ib.AddWord(file)
		if source != "" {
			ib.AddString(source)
		}
	}
	b.sections[secDebugStrings] = append(b.sections[secDebugStrings], ib.Build(OpSource))
}

// AddSourceContinued continues the source text of the preceding OpSource.
func (b *ModuleBuilder) AddSourceContinued(source string) {
	b.add(secDebugStrings, OpSourceContinued, EncodeString(source)...)
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	inst := NewInstructionBuilder().AddWord(id).AddString(name).Build(OpName)
	b.sections[secDebugNames] = append(b.sections[secDebugNames], inst)
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	inst := NewInstructionBuilder().AddWord(structID).AddWord(member).AddString(name).Build(OpMemberName)
	b.sections[secDebugNames] = append(b.sections[secDebugNames], inst)
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpDecorate, append([]uint32{id, uint32(decoration)}, params...)...)
}

// AddDecorateID adds a decoration whose operands are ids.
func (b *ModuleBuilder) AddDecorateID(id uint32, decoration Decoration, ids ...uint32) {
	b.add(secAnnotations, OpDecorateID, append([]uint32{id, uint32(decoration)}, ids...)...)
}

// AddDecorateString adds a decoration with a literal string operand.
func (b *ModuleBuilder) AddDecorateString(id uint32, decoration Decoration, value string) {
	inst := NewInstructionBuilder().AddWord(id).AddWord(uint32(decoration)).AddString(value).Build(OpDecorateString)
	b.sections[secAnnotations] = append(b.sections[secAnnotations], inst)
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	b.add(secAnnotations, OpMemberDecorate, append([]uint32{structID, member, uint32(decoration)}, params...)...)
}

func (b *ModuleBuilder) addType(op OpCode, operands ...uint32) uint32 {
	id := b.AllocID()
	b.add(secTypes, op, append([]uint32{id}, operands...)...)
	return id
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() uint32 {
	return b.addType(OpTypeVoid)
}

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() uint32 {
	return b.addType(OpTypeBool)
}

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.addType(OpTypeFloat, width)
}

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	var signedness uint32
	if signed {
		signedness = 1
	}
	return b.addType(OpTypeInt, width, signedness)
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType uint32, count uint32) uint32 {
	return b.addType(OpTypeVector, componentType, count)
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(columnType uint32, columnCount uint32) uint32 {
	return b.addType(OpTypeMatrix, columnType, columnCount)
}

// ImageType holds the operands of OpTypeImage.
type ImageType struct {
	SampledType uint32
	Dim         Dim
	Depth       uint32
	Arrayed     bool
	MS          bool
	Sampled     uint32 // 0 unknown, 1 sampled, 2 storage
	Format      ImageFormat
}

// AddTypeImage adds OpTypeImage.
func (b *ModuleBuilder) AddTypeImage(img ImageType) uint32 {
	return b.addType(OpTypeImage, img.SampledType, uint32(img.Dim), img.Depth,
		boolWord(img.Arrayed), boolWord(img.MS), img.Sampled, uint32(img.Format))
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() uint32 {
	return b.addType(OpTypeSampler)
}

// AddTypeSampledImage adds OpTypeSampledImage.
func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.addType(OpTypeSampledImage, imageType)
}

// AddTypeArray adds OpTypeArray. length is the id of a constant.
func (b *ModuleBuilder) AddTypeArray(elementType uint32, length uint32) uint32 {
	return b.addType(OpTypeArray, elementType, length)
}

// AddTypeRuntimeArray adds OpTypeRuntimeArray.
func (b *ModuleBuilder) AddTypeRuntimeArray(elementType uint32) uint32 {
	return b.addType(OpTypeRuntimeArray, elementType)
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.addType(OpTypePointer, uint32(storageClass), baseType)
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	return b.addType(OpTypeFunction, append([]uint32{returnType}, paramTypes...)...)
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	return b.addType(OpTypeStruct, memberTypes...)
}

// AddTypeAccelerationStructure adds OpTypeAccelerationStructureKHR.
func (b *ModuleBuilder) AddTypeAccelerationStructure() uint32 {
	return b.addType(OpTypeAccelerationStructure)
}

// AddConstant adds OpConstant.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	b.add(secTypes, OpConstant, append([]uint32{typeID, id}, values...)...)
	return id
}

// AddSpecConstant adds OpSpecConstant with a default value.
func (b *ModuleBuilder) AddSpecConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	b.add(secTypes, OpSpecConstant, append([]uint32{typeID, id}, values...)...)
	return id
}

// AddConstantFloat32 adds a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddConstantComposite adds OpConstantComposite.
func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	id := b.AllocID()
	b.add(secTypes, OpConstantComposite, append([]uint32{typeID, id}, constituents...)...)
	return id
}

// AddVariable adds a global OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	id := b.AllocID()
	b.add(secGlobalVars, OpVariable, pointerType, id, uint32(storageClass))
	return id
}

// AddFunction adds a function definition.
func (b *ModuleBuilder) AddFunction(funcType uint32, returnType uint32, control FunctionControl) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpFunction, returnType, id, uint32(control), funcType)
	return id
}

// AddFunctionParameter adds a function parameter.
func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpFunctionParameter, typeID, id)
	return id
}

// AddLabel adds a label.
func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpLabel, id)
	return id
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() {
	b.add(secFunctions, OpReturn)
}

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.add(secFunctions, OpFunctionEnd)
}

// AddFunctionCall adds OpFunctionCall.
func (b *ModuleBuilder) AddFunctionCall(resultType uint32, function uint32, args ...uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpFunctionCall, append([]uint32{resultType, id, function}, args...)...)
	return id
}

// AddLoad adds OpLoad.
func (b *ModuleBuilder) AddLoad(resultType uint32, pointer uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpLoad, resultType, id, pointer)
	return id
}

// AddStore adds OpStore.
func (b *ModuleBuilder) AddStore(pointer uint32, value uint32) {
	b.add(secFunctions, OpStore, pointer, value)
}

// AddAccessChain adds OpAccessChain.
func (b *ModuleBuilder) AddAccessChain(resultType uint32, base uint32, indices ...uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpAccessChain, append([]uint32{resultType, id, base}, indices...)...)
	return id
}

// AddSampledImage adds OpSampledImage.
func (b *ModuleBuilder) AddSampledImage(resultType uint32, image uint32, sampler uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpSampledImage, resultType, id, image, sampler)
	return id
}

// AddImageSampleImplicitLod adds OpImageSampleImplicitLod.
func (b *ModuleBuilder) AddImageSampleImplicitLod(resultType uint32, sampledImage uint32, coord uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, OpImageSampleImplicitLod, resultType, id, sampledImage, coord)
	return id
}

// AddBinaryOp adds a binary operation instruction.
func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType uint32, left uint32, right uint32) uint32 {
	id := b.AllocID()
	b.add(secFunctions, opcode, resultType, id, left, right)
	return id
}

// Words generates the final SPIR-V word stream.
func (b *ModuleBuilder) Words() []uint32 {
	total := HeaderWords
	for _, sec := range b.sections {
		for _, inst := range sec {
			total += len(inst.Words) + 1
		}
	}

	words := make([]uint32, 0, total)
	words = append(words, MagicNumber, b.version.Word(), b.generator, b.nextID, b.schema)
	for _, sec := range b.sections {
		for _, inst := range sec {
			words = append(words, inst.Encode()...)
		}
	}
	return words
}

// Build generates the final SPIR-V binary in host byte order.
func (b *ModuleBuilder) Build() []byte {
	return WordsToBytes(b.Words())
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
