package spirv

import "fmt"

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Core opcodes.
const (
	OpNop                       OpCode = 0
	OpUndef                     OpCode = 1
	OpSourceContinued           OpCode = 2
	OpSource                    OpCode = 3
	OpSourceExtension           OpCode = 4
	OpName                      OpCode = 5
	OpMemberName                OpCode = 6
	OpString                    OpCode = 7
	OpLine                      OpCode = 8
	OpExtension                 OpCode = 10
	OpExtInstImport             OpCode = 11
	OpExtInst                   OpCode = 12
	OpMemoryModel               OpCode = 14
	OpEntryPoint                OpCode = 15
	OpExecutionMode             OpCode = 16
	OpCapability                OpCode = 17
	OpTypeVoid                  OpCode = 19
	OpTypeBool                  OpCode = 20
	OpTypeInt                   OpCode = 21
	OpTypeFloat                 OpCode = 22
	OpTypeVector                OpCode = 23
	OpTypeMatrix                OpCode = 24
	OpTypeImage                 OpCode = 25
	OpTypeSampler               OpCode = 26
	OpTypeSampledImage          OpCode = 27
	OpTypeArray                 OpCode = 28
	OpTypeRuntimeArray          OpCode = 29
	OpTypeStruct                OpCode = 30
	OpTypeOpaque                OpCode = 31
	OpTypePointer               OpCode = 32
	OpTypeFunction              OpCode = 33
	OpTypeEvent                 OpCode = 34
	OpTypeDeviceEvent           OpCode = 35
	OpTypeReserveID             OpCode = 36
	OpTypeQueue                 OpCode = 37
	OpTypePipe                  OpCode = 38
	OpTypeForwardPointer        OpCode = 39
	OpConstantTrue              OpCode = 41
	OpConstantFalse             OpCode = 42
	OpConstant                  OpCode = 43
	OpConstantComposite         OpCode = 44
	OpConstantSampler           OpCode = 45
	OpConstantNull              OpCode = 46
	OpSpecConstantTrue          OpCode = 48
	OpSpecConstantFalse         OpCode = 49
	OpSpecConstant              OpCode = 50
	OpSpecConstantComposite     OpCode = 51
	OpSpecConstantOp            OpCode = 52
	OpFunction                  OpCode = 54
	OpFunctionParameter         OpCode = 55
	OpFunctionEnd               OpCode = 56
	OpFunctionCall              OpCode = 57
	OpVariable                  OpCode = 59
	OpImageTexelPointer         OpCode = 60
	OpLoad                      OpCode = 61
	OpStore                     OpCode = 62
	OpCopyMemory                OpCode = 63
	OpCopyMemorySized           OpCode = 64
	OpAccessChain               OpCode = 65
	OpInBoundsAccessChain       OpCode = 66
	OpPtrAccessChain            OpCode = 67
	OpArrayLength               OpCode = 68
	OpGenericPtrMemSemantics    OpCode = 69
	OpInBoundsPtrAccessChain    OpCode = 70
	OpDecorate                  OpCode = 71
	OpMemberDecorate            OpCode = 72
	OpDecorationGroup           OpCode = 73
	OpGroupDecorate             OpCode = 74
	OpGroupMemberDecorate       OpCode = 75
	OpVectorExtractDynamic      OpCode = 77
	OpVectorInsertDynamic       OpCode = 78
	OpVectorShuffle             OpCode = 79
	OpCompositeConstruct        OpCode = 80
	OpCompositeExtract          OpCode = 81
	OpCompositeInsert           OpCode = 82
	OpCopyObject                OpCode = 83
	OpTranspose                 OpCode = 84
	OpSampledImage              OpCode = 86
	OpImageSampleImplicitLod    OpCode = 87
	OpImageSampleExplicitLod    OpCode = 88
	OpImageFetch                OpCode = 95
	OpImageGather               OpCode = 96
	OpImageRead                 OpCode = 98
	OpImageWrite                OpCode = 99
	OpImage                     OpCode = 100
	OpImageQuerySizeLod         OpCode = 103
	OpImageQuerySize            OpCode = 104
	OpConvertFToU               OpCode = 109
	OpConvertFToS               OpCode = 110
	OpConvertSToF               OpCode = 111
	OpConvertUToF               OpCode = 112
	OpBitcast                   OpCode = 124
	OpSNegate                   OpCode = 126
	OpFNegate                   OpCode = 127
	OpIAdd                      OpCode = 128
	OpFAdd                      OpCode = 129
	OpISub                      OpCode = 130
	OpFSub                      OpCode = 131
	OpIMul                      OpCode = 132
	OpFMul                      OpCode = 133
	OpUDiv                      OpCode = 134
	OpSDiv                      OpCode = 135
	OpFDiv                      OpCode = 136
	OpVectorTimesScalar         OpCode = 142
	OpMatrixTimesVector         OpCode = 145
	OpMatrixTimesMatrix         OpCode = 146
	OpDot                       OpCode = 148
	OpLogicalEqual              OpCode = 164
	OpLogicalNot                OpCode = 168
	OpSelect                    OpCode = 169
	OpIEqual                    OpCode = 170
	OpFOrdEqual                 OpCode = 180
	OpFOrdLessThan              OpCode = 184
	OpShiftRightLogical         OpCode = 194
	OpBitwiseAnd                OpCode = 199
	OpDPdx                      OpCode = 207
	OpEmitVertex                OpCode = 218
	OpControlBarrier            OpCode = 224
	OpMemoryBarrier             OpCode = 225
	OpAtomicLoad                OpCode = 227
	OpAtomicStore               OpCode = 228
	OpAtomicIAdd                OpCode = 234
	OpPhi                       OpCode = 245
	OpLoopMerge                 OpCode = 246
	OpSelectionMerge            OpCode = 247
	OpLabel                     OpCode = 248
	OpBranch                    OpCode = 249
	OpBranchConditional         OpCode = 250
	OpSwitch                    OpCode = 251
	OpKill                      OpCode = 252
	OpReturn                    OpCode = 253
	OpReturnValue               OpCode = 254
	OpUnreachable               OpCode = 255
	OpModuleProcessed           OpCode = 330
	OpExecutionModeID           OpCode = 331
	OpDecorateID                OpCode = 332
	OpTerminateInvocation       OpCode = 4416
	OpTypeRayQueryKHR           OpCode = 4472
	OpTypeAccelerationStructure OpCode = 5341
	OpDecorateString            OpCode = 5632
	OpMemberDecorateString      OpCode = 5633
)

var opcodeNames = map[OpCode]string{
	OpNop:                       "OpNop",
	OpUndef:                     "OpUndef",
	OpSourceContinued:           "OpSourceContinued",
	OpSource:                    "OpSource",
	OpSourceExtension:           "OpSourceExtension",
	OpName:                      "OpName",
	OpMemberName:                "OpMemberName",
	OpString:                    "OpString",
	OpLine:                      "OpLine",
	OpExtension:                 "OpExtension",
	OpExtInstImport:             "OpExtInstImport",
	OpExtInst:                   "OpExtInst",
	OpMemoryModel:               "OpMemoryModel",
	OpEntryPoint:                "OpEntryPoint",
	OpExecutionMode:             "OpExecutionMode",
	OpCapability:                "OpCapability",
	OpTypeVoid:                  "OpTypeVoid",
	OpTypeBool:                  "OpTypeBool",
	OpTypeInt:                   "OpTypeInt",
	OpTypeFloat:                 "OpTypeFloat",
	OpTypeVector:                "OpTypeVector",
	OpTypeMatrix:                "OpTypeMatrix",
	OpTypeImage:                 "OpTypeImage",
	OpTypeSampler:               "OpTypeSampler",
	OpTypeSampledImage:          "OpTypeSampledImage",
	OpTypeArray:                 "OpTypeArray",
	OpTypeRuntimeArray:          "OpTypeRuntimeArray",
	OpTypeStruct:                "OpTypeStruct",
	OpTypeOpaque:                "OpTypeOpaque",
	OpTypePointer:               "OpTypePointer",
	OpTypeFunction:              "OpTypeFunction",
	OpTypeEvent:                 "OpTypeEvent",
	OpTypeDeviceEvent:           "OpTypeDeviceEvent",
	OpTypeReserveID:             "OpTypeReserveId",
	OpTypeQueue:                 "OpTypeQueue",
	OpTypePipe:                  "OpTypePipe",
	OpTypeForwardPointer:        "OpTypeForwardPointer",
	OpConstantTrue:              "OpConstantTrue",
	OpConstantFalse:             "OpConstantFalse",
	OpConstant:                  "OpConstant",
	OpConstantComposite:         "OpConstantComposite",
	OpConstantSampler:           "OpConstantSampler",
	OpConstantNull:              "OpConstantNull",
	OpSpecConstantTrue:          "OpSpecConstantTrue",
	OpSpecConstantFalse:         "OpSpecConstantFalse",
	OpSpecConstant:              "OpSpecConstant",
	OpSpecConstantComposite:     "OpSpecConstantComposite",
	OpSpecConstantOp:            "OpSpecConstantOp",
	OpFunction:                  "OpFunction",
	OpFunctionParameter:         "OpFunctionParameter",
	OpFunctionEnd:               "OpFunctionEnd",
	OpFunctionCall:              "OpFunctionCall",
	OpVariable:                  "OpVariable",
	OpImageTexelPointer:         "OpImageTexelPointer",
	OpLoad:                      "OpLoad",
	OpStore:                     "OpStore",
	OpCopyMemory:                "OpCopyMemory",
	OpCopyMemorySized:           "OpCopyMemorySized",
	OpAccessChain:               "OpAccessChain",
	OpInBoundsAccessChain:       "OpInBoundsAccessChain",
	OpPtrAccessChain:            "OpPtrAccessChain",
	OpArrayLength:               "OpArrayLength",
	OpGenericPtrMemSemantics:    "OpGenericPtrMemSemantics",
	OpInBoundsPtrAccessChain:    "OpInBoundsPtrAccessChain",
	OpDecorate:                  "OpDecorate",
	OpMemberDecorate:            "OpMemberDecorate",
	OpDecorationGroup:           "OpDecorationGroup",
	OpGroupDecorate:             "OpGroupDecorate",
	OpGroupMemberDecorate:       "OpGroupMemberDecorate",
	OpVectorExtractDynamic:      "OpVectorExtractDynamic",
	OpVectorInsertDynamic:       "OpVectorInsertDynamic",
	OpVectorShuffle:             "OpVectorShuffle",
	OpCompositeConstruct:        "OpCompositeConstruct",
	OpCompositeExtract:          "OpCompositeExtract",
	OpCompositeInsert:           "OpCompositeInsert",
	OpCopyObject:                "OpCopyObject",
	OpTranspose:                 "OpTranspose",
	OpSampledImage:              "OpSampledImage",
	OpImageSampleImplicitLod:    "OpImageSampleImplicitLod",
	OpImageSampleExplicitLod:    "OpImageSampleExplicitLod",
	OpImageFetch:                "OpImageFetch",
	OpImageGather:               "OpImageGather",
	OpImageRead:                 "OpImageRead",
	OpImageWrite:                "OpImageWrite",
	OpImage:                     "OpImage",
	OpImageQuerySizeLod:         "OpImageQuerySizeLod",
	OpImageQuerySize:            "OpImageQuerySize",
	OpConvertFToU:               "OpConvertFToU",
	OpConvertFToS:               "OpConvertFToS",
	OpConvertSToF:               "OpConvertSToF",
	OpConvertUToF:               "OpConvertUToF",
	OpBitcast:                   "OpBitcast",
	OpSNegate:                   "OpSNegate",
	OpFNegate:                   "OpFNegate",
	OpIAdd:                      "OpIAdd",
	OpFAdd:                      "OpFAdd",
	OpISub:                      "OpISub",
	OpFSub:                      "OpFSub",
	OpIMul:                      "OpIMul",
	OpFMul:                      "OpFMul",
	OpUDiv:                      "OpUDiv",
	OpSDiv:                      "OpSDiv",
	OpFDiv:                      "OpFDiv",
	OpVectorTimesScalar:         "OpVectorTimesScalar",
	OpMatrixTimesVector:         "OpMatrixTimesVector",
	OpMatrixTimesMatrix:         "OpMatrixTimesMatrix",
	OpDot:                       "OpDot",
	OpLogicalEqual:              "OpLogicalEqual",
	OpLogicalNot:                "OpLogicalNot",
	OpSelect:                    "OpSelect",
	OpIEqual:                    "OpIEqual",
	OpFOrdEqual:                 "OpFOrdEqual",
	OpFOrdLessThan:              "OpFOrdLessThan",
	OpShiftRightLogical:         "OpShiftRightLogical",
	OpBitwiseAnd:                "OpBitwiseAnd",
	OpDPdx:                      "OpDPdx",
	OpEmitVertex:                "OpEmitVertex",
	OpControlBarrier:            "OpControlBarrier",
	OpMemoryBarrier:             "OpMemoryBarrier",
	OpAtomicLoad:                "OpAtomicLoad",
	OpAtomicStore:               "OpAtomicStore",
	OpAtomicIAdd:                "OpAtomicIAdd",
	OpPhi:                       "OpPhi",
	OpLoopMerge:                 "OpLoopMerge",
	OpSelectionMerge:            "OpSelectionMerge",
	OpLabel:                     "OpLabel",
	OpBranch:                    "OpBranch",
	OpBranchConditional:         "OpBranchConditional",
	OpSwitch:                    "OpSwitch",
	OpKill:                      "OpKill",
	OpReturn:                    "OpReturn",
	OpReturnValue:               "OpReturnValue",
	OpUnreachable:               "OpUnreachable",
	OpModuleProcessed:           "OpModuleProcessed",
	OpExecutionModeID:           "OpExecutionModeId",
	OpDecorateID:                "OpDecorateId",
	OpTerminateInvocation:       "OpTerminateInvocation",
	OpTypeRayQueryKHR:           "OpTypeRayQueryKHR",
	OpTypeAccelerationStructure: "OpTypeAccelerationStructureKHR",
	OpDecorateString:            "OpDecorateString",
	OpMemberDecorateString:      "OpMemberDecorateString",
}

// Holes in the core numbering below OpCopyLogical.
var reservedOpcodes = map[OpCode]bool{
	9: true, 13: true, 18: true, 40: true, 47: true, 53: true, 58: true,
	76: true, 85: true, 108: true, 125: true, 153: true, 192: true, 193: true,
	206: true, 216: true, 217: true, 222: true, 223: true, 226: true,
	243: true, 244: true,
}

// String returns the assembly mnemonic, or "Op<n>" for opcodes without a name.
func (op OpCode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op%d", op)
}

// Valid reports whether op is a defined core or registered extension opcode.
// Extension opcodes are accepted by range; their operands are never decoded.
func (op OpCode) Valid() bool {
	switch {
	case op <= 366:
		return !reservedOpcodes[op]
	case op >= 400 && op <= 403:
		return true
	case op >= 4160 && op <= 4500:
		return true
	case op >= 4992 && op <= 6500:
		return true
	}
	return false
}

// IsType reports whether op declares a type.
func (op OpCode) IsType() bool {
	switch op {
	case OpTypeVoid, OpTypeBool, OpTypeInt, OpTypeFloat, OpTypeVector, OpTypeMatrix,
		OpTypeImage, OpTypeSampler, OpTypeSampledImage, OpTypeArray, OpTypeRuntimeArray,
		OpTypeStruct, OpTypeOpaque, OpTypePointer, OpTypeFunction, OpTypeEvent,
		OpTypeDeviceEvent, OpTypeReserveID, OpTypeQueue, OpTypePipe,
		OpTypeRayQueryKHR, OpTypeAccelerationStructure:
		return true
	}
	return false
}

// IsConstant reports whether op declares a constant or specialization constant.
func (op OpCode) IsConstant() bool {
	switch op {
	case OpConstantTrue, OpConstantFalse, OpConstant, OpConstantComposite,
		OpConstantSampler, OpConstantNull, OpSpecConstantTrue, OpSpecConstantFalse,
		OpSpecConstant, OpSpecConstantComposite, OpSpecConstantOp:
		return true
	}
	return false
}

// FirstWord packs a word count and opcode into an instruction's first word.
func FirstWord(wordCount int, op OpCode) uint32 {
	return uint32(wordCount)<<16 | uint32(op)
}

// SplitFirstWord unpacks an instruction's first word.
func SplitFirstWord(w uint32) (wordCount int, op OpCode) {
	return int(w >> 16), OpCode(w & 0xFFFF)
}
