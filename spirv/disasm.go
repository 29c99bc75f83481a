package spirv

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Token classes passed to DisasmOptions.Highlight.
const (
	TokenOpcode  = "opcode"
	TokenID      = "id"
	TokenString  = "string"
	TokenEnum    = "enum"
	TokenLiteral = "literal"
	TokenComment = "comment"
)

// DisasmOptions configures Disassemble.
type DisasmOptions struct {
	// Offsets prefixes every instruction with its word offset
	Offsets bool

	// Highlight decorates a token of the given class; nil leaves text plain
	Highlight func(class, text string) string
}

// ErrTruncated is returned when an instruction extends past the stream.
var ErrTruncated = errors.New("spirv: instruction extends past end of stream")

type disasm struct {
	opts DisasmOptions
	sb   strings.Builder
}

func (d *disasm) tok(class, text string) string {
	if d.opts.Highlight == nil {
		return text
	}
	return d.opts.Highlight(class, text)
}

func (d *disasm) id(n uint32) string {
	return d.tok(TokenID, fmt.Sprintf("%%%d", n))
}

func (d *disasm) lit(n uint32) string {
	return d.tok(TokenLiteral, fmt.Sprintf("%d", n))
}

func (d *disasm) enum(s fmt.Stringer) string {
	return d.tok(TokenEnum, s.String())
}

func (d *disasm) str(ops []uint32) (string, int) {
	s, n, err := DecodeString(ops)
	if err != nil {
		return d.tok(TokenString, "<bad string>"), len(ops)
	}
	return d.tok(TokenString, fmt.Sprintf("%q", s)), n
}

// Disassemble writes a textual listing of words to w, one instruction per line.
func Disassemble(w io.Writer, words []uint32, opts DisasmOptions) error {
	d := &disasm{opts: opts}
	h, ok := ParseHeader(words)
	if !ok {
		return ErrTruncated
	}
	fmt.Fprintln(&d.sb, d.tok(TokenComment, "; SPIR-V"))
	fmt.Fprintln(&d.sb, d.tok(TokenComment, fmt.Sprintf("; Version: %s", h.Version)))
	fmt.Fprintln(&d.sb, d.tok(TokenComment, fmt.Sprintf("; Generator: 0x%08X", h.Generator)))
	fmt.Fprintln(&d.sb, d.tok(TokenComment, fmt.Sprintf("; Bound: %d", h.Bound)))
	fmt.Fprintln(&d.sb, d.tok(TokenComment, fmt.Sprintf("; Schema: %d", h.Schema)))

	for offset := HeaderWords; offset < len(words); {
		wordCount, op := SplitFirstWord(words[offset])
		if wordCount == 0 || offset+wordCount > len(words) {
			return fmt.Errorf("%w: word count %d at offset %d", ErrTruncated, wordCount, offset)
		}
		if opts.Offsets {
			fmt.Fprintf(&d.sb, "%6d ", offset)
		}
		d.instruction(op, words[offset+1:offset+wordCount])
		d.sb.WriteByte('\n')
		offset += wordCount
	}
	_, err := io.WriteString(w, d.sb.String())
	return err
}

// operand layout of result-bearing instructions
func hasResultType(op OpCode) bool {
	switch op {
	case OpConstantTrue, OpConstantFalse, OpConstant, OpConstantComposite, OpConstantNull,
		OpSpecConstantTrue, OpSpecConstantFalse, OpSpecConstant, OpSpecConstantComposite,
		OpFunction, OpFunctionParameter, OpFunctionCall, OpVariable, OpLoad, OpAccessChain,
		OpInBoundsAccessChain, OpCompositeConstruct, OpCompositeExtract, OpVectorShuffle,
		OpSampledImage, OpImageSampleImplicitLod, OpImageSampleExplicitLod, OpImageFetch,
		OpImageRead, OpExtInst, OpUndef, OpImageTexelPointer, OpArrayLength, OpCopyObject:
		return true
	}
	return false
}

func (d *disasm) assign(result uint32) {
	fmt.Fprintf(&d.sb, "%12s = ", d.id(result))
}

func (d *disasm) pad() {
	d.sb.WriteString(strings.Repeat(" ", 15))
}

func (d *disasm) instruction(op OpCode, ops []uint32) {
	name := d.tok(TokenOpcode, op.String())
	need := func(n int) bool { return len(ops) >= n }

	switch {
	case op == OpCapability && need(1):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s", name, d.enum(Capability(ops[0])))
	case (op == OpExtInstImport || op == OpString) && need(2):
		s, _ := d.str(ops[1:])
		d.assign(ops[0])
		fmt.Fprintf(&d.sb, "%s %s", name, s)
	case op == OpExtension && need(1):
		s, _ := d.str(ops)
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s", name, s)
	case op == OpMemoryModel && need(2):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.enum(AddressingModel(ops[0])), d.enum(MemoryModel(ops[1])))
	case op == OpEntryPoint && need(3):
		s, n := d.str(ops[2:])
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s %s", name, d.enum(ExecutionModel(ops[0])), d.id(ops[1]), s)
		for _, iface := range ops[2+n:] {
			fmt.Fprintf(&d.sb, " %s", d.id(iface))
		}
	case op == OpExecutionMode && need(2):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[0]), d.enum(ExecutionMode(ops[1])))
		d.literals(ops[2:])
	case op == OpSource && need(2):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.enum(SourceLanguage(ops[0])), d.lit(ops[1]))
		if need(3) {
			fmt.Fprintf(&d.sb, " %s", d.id(ops[2]))
		}
		if need(4) {
			s, _ := d.str(ops[3:])
			fmt.Fprintf(&d.sb, " %s", s)
		}
	case op == OpName && need(2):
		s, _ := d.str(ops[1:])
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[0]), s)
	case op == OpMemberName && need(3):
		s, _ := d.str(ops[2:])
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s %s", name, d.id(ops[0]), d.lit(ops[1]), s)
	case op == OpDecorate && need(2):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[0]), d.enum(Decoration(ops[1])))
		d.decorationOperands(Decoration(ops[1]), ops[2:])
	case op == OpMemberDecorate && need(3):
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s %s", name, d.id(ops[0]), d.lit(ops[1]), d.enum(Decoration(ops[2])))
		d.decorationOperands(Decoration(ops[2]), ops[3:])
	case op == OpDecorateString && need(3):
		s, _ := d.str(ops[2:])
		d.pad()
		fmt.Fprintf(&d.sb, "%s %s %s %s", name, d.id(ops[0]), d.enum(Decoration(ops[1])), s)
	case op == OpTypePointer && need(3):
		d.assign(ops[0])
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.enum(StorageClass(ops[1])), d.id(ops[2]))
	case op == OpTypeImage && need(8):
		d.assign(ops[0])
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[1]), d.enum(Dim(ops[2])))
		d.literals(ops[3:7])
		fmt.Fprintf(&d.sb, " %s", d.enum(ImageFormat(ops[7])))
		d.literals(ops[8:])
	case (op == OpTypeInt || op == OpTypeFloat) && need(2):
		d.assign(ops[0])
		d.sb.WriteString(name)
		d.literals(ops[1:])
	case (op == OpTypeVector || op == OpTypeMatrix) && need(3):
		d.assign(ops[0])
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[1]), d.lit(ops[2]))
	case op.IsType() && need(1):
		d.assign(ops[0])
		d.sb.WriteString(name)
		d.ids(ops[1:])
	case op == OpVariable && need(3):
		d.assign(ops[1])
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[0]), d.enum(StorageClass(ops[2])))
		d.ids(ops[3:])
	case (op == OpConstant || op == OpSpecConstant) && need(2):
		d.assign(ops[1])
		fmt.Fprintf(&d.sb, "%s %s", name, d.id(ops[0]))
		d.literals(ops[2:])
	case op == OpFunction && need(4):
		d.assign(ops[1])
		fmt.Fprintf(&d.sb, "%s %s %s %s", name, d.id(ops[0]), d.lit(ops[2]), d.id(ops[3]))
	case op == OpCompositeExtract && need(3):
		d.assign(ops[1])
		fmt.Fprintf(&d.sb, "%s %s %s", name, d.id(ops[0]), d.id(ops[2]))
		d.literals(ops[3:])
	case hasResultType(op) && need(2):
		d.assign(ops[1])
		fmt.Fprintf(&d.sb, "%s %s", name, d.id(ops[0]))
		d.ids(ops[2:])
	case op == OpLabel && need(1):
		d.assign(ops[0])
		d.sb.WriteString(name)
	default:
		d.pad()
		d.sb.WriteString(name)
		d.ids(ops)
	}
}

func (d *disasm) decorationOperands(dec Decoration, ops []uint32) {
	switch {
	case dec == DecorationBuiltIn && len(ops) > 0:
		fmt.Fprintf(&d.sb, " %s", d.enum(BuiltIn(ops[0])))
	case dec == DecorationHlslCounterBufferGOOGLE:
		d.ids(ops)
	default:
		d.literals(ops)
	}
}

func (d *disasm) ids(ops []uint32) {
	for _, op := range ops {
		fmt.Fprintf(&d.sb, " %s", d.id(op))
	}
}

func (d *disasm) literals(ops []uint32) {
	for _, op := range ops {
		fmt.Fprintf(&d.sb, " %s", d.lit(op))
	}
}
