package spvreflect

import (
	"slices"
	"strings"

	"github.com/gogpu/spvreflect/spirv"
)

// maxMembers bounds member indices; an instruction cannot list more
// operands than its 16-bit word count allows.
const maxMembers = 0xFFFF

// numbered is a numbered decoration value and the word offset it was read
// from. A zero offset means the decoration is absent.
type numbered struct {
	value      uint32
	wordOffset int
}

var absent = numbered{value: InvalidValue}

func (n numbered) present() bool {
	return n.wordOffset != 0
}

// decorations holds everything OpDecorate and friends attach to an id or
// struct member.
type decorations struct {
	isBlock         bool
	isBufferBlock   bool
	isRowMajor      bool
	isColumnMajor   bool
	isBuiltIn       bool
	isNoPerspective bool
	isFlat          bool
	isNonWritable   bool

	builtIn      spirv.BuiltIn
	arrayStride  uint32
	matrixStride uint32
	semantic     string

	set                  numbered
	binding              numbered
	inputAttachmentIndex numbered
	location             numbered
	offset               numbered
	uavCounterBuffer     numbered
}

func newDecorations() decorations {
	return decorations{
		builtIn:              spirv.BuiltIn(InvalidValue),
		set:                  absent,
		binding:              absent,
		inputAttachmentIndex: absent,
		location:             absent,
		offset:               absent,
		uavCounterBuffer:     absent,
	}
}

func (d *decorations) flags() DecorationFlags {
	var f DecorationFlags
	if d.isBlock {
		f |= DecorationBlock
	}
	if d.isBufferBlock {
		f |= DecorationBufferBlock
	}
	if d.isRowMajor {
		f |= DecorationRowMajor
	}
	if d.isColumnMajor {
		f |= DecorationColumnMajor
	}
	if d.isBuiltIn {
		f |= DecorationBuiltIn
	}
	if d.isNoPerspective {
		f |= DecorationNoPerspective
	}
	if d.isFlat {
		f |= DecorationFlat
	}
	if d.isNonWritable {
		f |= DecorationNonWritable
	}
	return f
}

// node is one decoded instruction. Fields other than op and the word span
// are only filled in for the opcodes reflection looks at.
type node struct {
	resultID     uint32
	op           spirv.OpCode
	resultTypeID uint32
	typeID       uint32
	storageClass spirv.StorageClass
	wordOffset   int
	wordCount    int
	isType       bool

	elementTypeID uint32
	lengthID      uint32
	imageTypeID   uint32
	sampledTypeID uint32
	image         ImageTraits

	name              string
	decorations       decorations
	memberCount       int
	memberNames       []string
	memberDecorations []decorations
}

// function records what a function body references, for static use.
type function struct {
	id       uint32
	callees  []uint32
	accessed []uint32
}

type parser struct {
	words []uint32
	nodes []node
	ids   map[uint32]int

	strings   map[uint32]string
	functions []function
	funcIndex map[uint32]int
	localSize map[uint32][3]uint32

	sourceLanguage        spirv.SourceLanguage
	sourceLanguageVersion uint32
	sourceFileID          uint32
	sourceText            strings.Builder

	entryPointCount int
	typeCount       int
	stringCount     int

	visiting map[uint32]bool
}

func newParser(words []uint32) *parser {
	return &parser{
		words:     words,
		ids:       make(map[uint32]int),
		strings:   make(map[uint32]string),
		funcIndex: make(map[uint32]int),
		localSize: make(map[uint32][3]uint32),
		visiting:  make(map[uint32]bool),
	}
}

// word returns operand word i of n, counting the opcode word as 0.
func (p *parser) word(n *node, i int) (uint32, error) {
	if i >= n.wordCount {
		return 0, errorf(ErrorKindInvalidInstruction, "%s at word %d has %d words, operand %d missing",
			n.op, n.wordOffset, n.wordCount, i)
	}
	return p.words[n.wordOffset+i], nil
}

// operands reads operand words first..first+len(dst)-1 of n into dst.
func (p *parser) operands(n *node, first int, dst ...*uint32) error {
	for i, d := range dst {
		w, err := p.word(n, first+i)
		if err != nil {
			return err
		}
		*d = w
	}
	return nil
}

// stringAt decodes the literal string starting at operand word i of n.
func (p *parser) stringAt(n *node, i int) (string, int, error) {
	if i >= n.wordCount {
		return "", 0, errorf(ErrorKindInvalidString, "%s at word %d: missing string operand", n.op, n.wordOffset)
	}
	s, used, err := spirv.DecodeString(p.words[n.wordOffset+i : n.wordOffset+n.wordCount])
	if err != nil {
		return "", 0, errorf(ErrorKindInvalidString, "%s at word %d: %v", n.op, n.wordOffset, err)
	}
	return s, used, nil
}

func (p *parser) lookup(id uint32) *node {
	i, ok := p.ids[id]
	if !ok {
		return nil
	}
	return &p.nodes[i]
}

// typeNode returns the node declaring type id.
func (p *parser) typeNode(id uint32) (*node, error) {
	n := p.lookup(id)
	if n == nil {
		return nil, errorf(ErrorKindInvalidIDReference, "type %%%d is not defined", id)
	}
	if !n.isType {
		return nil, errorf(ErrorKindInvalidIDReference, "%%%d is a %s, not a type", id, n.op)
	}
	return n, nil
}

// countNodes walks the stream once to validate instruction boundaries and
// size the node table.
func (p *parser) countNodes() (int, error) {
	count := 0
	for offset := spirv.HeaderWords; offset < len(p.words); {
		wordCount, op := spirv.SplitFirstWord(p.words[offset])
		if wordCount == 0 {
			return 0, errorf(ErrorKindInvalidInstruction, "zero word count at word %d", offset)
		}
		if offset+wordCount > len(p.words) {
			return 0, errorf(ErrorKindUnexpectedEOF, "%s at word %d needs %d words, %d remain",
				op, offset, wordCount, len(p.words)-offset)
		}
		if !op.Valid() {
			return 0, errorf(ErrorKindInvalidInstruction, "unknown opcode %d at word %d", uint16(op), offset)
		}
		offset += wordCount
		count++
	}
	return count, nil
}

// parseNodes decodes every instruction into the node table.
func (p *parser) parseNodes(count int) error {
	p.nodes = make([]node, 0, count)
	for offset := spirv.HeaderWords; offset < len(p.words); {
		wordCount, op := spirv.SplitFirstWord(p.words[offset])
		n := node{
			op:           op,
			wordOffset:   offset,
			wordCount:    wordCount,
			storageClass: spirv.StorageClass(InvalidValue),
			decorations:  newDecorations(),
		}
		if err := p.decodeNode(&n); err != nil {
			return err
		}
		if n.resultID != 0 {
			if prev, dup := p.ids[n.resultID]; dup {
				return errorf(ErrorKindDuplicateID, "%%%d defined by %s at word %d and %s at word %d",
					n.resultID, p.nodes[prev].op, p.nodes[prev].wordOffset, n.op, n.wordOffset)
			}
			p.ids[n.resultID] = len(p.nodes)
		}
		p.nodes = append(p.nodes, n)
		offset += wordCount
	}
	return nil
}

func (p *parser) decodeNode(n *node) error {
	n.isType = n.op.IsType()
	if n.isType {
		p.typeCount++
	}

	switch {
	case n.op == spirv.OpString:
		p.stringCount++
		return p.operands(n, 1, &n.resultID)

	case n.op == spirv.OpSource:
		var lang uint32
		if err := p.operands(n, 1, &lang, &p.sourceLanguageVersion); err != nil {
			return err
		}
		p.sourceLanguage = spirv.SourceLanguage(lang)
		if n.wordCount > 3 {
			p.sourceFileID = p.words[n.wordOffset+3]
		}
		if n.wordCount > 4 {
			text, _, err := p.stringAt(n, 4)
			if err != nil {
				return err
			}
			p.sourceText.WriteString(text)
		}

	case n.op == spirv.OpSourceContinued:
		text, _, err := p.stringAt(n, 1)
		if err != nil {
			return err
		}
		p.sourceText.WriteString(text)

	case n.op == spirv.OpEntryPoint:
		p.entryPointCount++

	case n.op == spirv.OpExecutionMode:
		var entry, mode uint32
		if err := p.operands(n, 1, &entry, &mode); err != nil {
			return err
		}
		if spirv.ExecutionMode(mode) == spirv.ExecutionModeLocalSize {
			var size [3]uint32
			if err := p.operands(n, 3, &size[0], &size[1], &size[2]); err != nil {
				return err
			}
			p.localSize[entry] = size
		}

	case n.op == spirv.OpExtInstImport:
		return p.operands(n, 1, &n.resultID)

	case n.op == spirv.OpTypeVector, n.op == spirv.OpTypeMatrix:
		return p.operands(n, 1, &n.resultID, &n.typeID)

	case n.op == spirv.OpTypeImage:
		var dim uint32
		var format uint32
		err := p.operands(n, 1, &n.resultID, &n.sampledTypeID, &dim,
			&n.image.Depth, &n.image.Arrayed, &n.image.MS, &n.image.Sampled, &format)
		n.image.Dim = spirv.Dim(dim)
		n.image.ImageFormat = spirv.ImageFormat(format)
		return err

	case n.op == spirv.OpTypeSampledImage:
		return p.operands(n, 1, &n.resultID, &n.imageTypeID)

	case n.op == spirv.OpTypeArray:
		return p.operands(n, 1, &n.resultID, &n.elementTypeID, &n.lengthID)

	case n.op == spirv.OpTypeRuntimeArray:
		return p.operands(n, 1, &n.resultID, &n.elementTypeID)

	case n.op == spirv.OpTypeStruct:
		n.memberCount = n.wordCount - 2
		return p.operands(n, 1, &n.resultID)

	case n.op == spirv.OpTypePointer:
		var sc uint32
		err := p.operands(n, 1, &n.resultID, &sc, &n.typeID)
		n.storageClass = spirv.StorageClass(sc)
		return err

	case n.op == spirv.OpTypeFunction:
		return p.operands(n, 1, &n.resultID, &n.resultTypeID)

	case n.isType:
		return p.operands(n, 1, &n.resultID)

	case n.op.IsConstant(), n.op == spirv.OpFunctionParameter:
		return p.operands(n, 1, &n.resultTypeID, &n.resultID)

	case n.op == spirv.OpVariable:
		var sc uint32
		err := p.operands(n, 1, &n.typeID, &n.resultID, &sc)
		n.storageClass = spirv.StorageClass(sc)
		return err

	case n.op == spirv.OpFunction:
		return p.operands(n, 1, &n.resultTypeID, &n.resultID)
	}
	return nil
}

// parseStrings fills the OpString table and resolves the source file name.
func (p *parser) parseStrings() error {
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.op != spirv.OpString {
			continue
		}
		s, _, err := p.stringAt(n, 2)
		if err != nil {
			return err
		}
		p.strings[n.resultID] = s
	}
	return nil
}

// parseFunctions records, per function, the functions it calls and the ids
// its memory instructions reference. No control flow is reconstructed.
func (p *parser) parseFunctions() error {
	var fn *function
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.op == spirv.OpFunction {
			if fn != nil {
				return errorf(ErrorKindInvalidInstruction, "OpFunction at word %d inside %%%d", n.wordOffset, fn.id)
			}
			p.functions = append(p.functions, function{id: n.resultID})
			fn = &p.functions[len(p.functions)-1]
			continue
		}
		if fn == nil {
			continue
		}

		switch n.op {
		case spirv.OpFunctionEnd:
			slices.Sort(fn.callees)
			fn.callees = slices.Compact(fn.callees)
			slices.Sort(fn.accessed)
			fn.accessed = slices.Compact(fn.accessed)
			fn = nil
		case spirv.OpFunctionCall:
			callee, err := p.word(n, 3)
			if err != nil {
				return err
			}
			fn.callees = append(fn.callees, callee)
			fn.accessed = append(fn.accessed, p.words[n.wordOffset+4:n.wordOffset+n.wordCount]...)
		case spirv.OpLoad, spirv.OpAccessChain, spirv.OpInBoundsAccessChain, spirv.OpPtrAccessChain,
			spirv.OpInBoundsPtrAccessChain, spirv.OpArrayLength, spirv.OpImageTexelPointer,
			spirv.OpGenericPtrMemSemantics:
			ptr, err := p.word(n, 3)
			if err != nil {
				return err
			}
			fn.accessed = append(fn.accessed, ptr)
		case spirv.OpStore:
			ptr, err := p.word(n, 1)
			if err != nil {
				return err
			}
			fn.accessed = append(fn.accessed, ptr)
		case spirv.OpCopyMemory, spirv.OpCopyMemorySized:
			var target, source uint32
			if err := p.operands(n, 1, &target, &source); err != nil {
				return err
			}
			fn.accessed = append(fn.accessed, target, source)
		}
	}
	if fn != nil {
		return errorf(ErrorKindInvalidInstruction, "function %%%d has no OpFunctionEnd", fn.id)
	}
	for i, f := range p.functions {
		p.funcIndex[f.id] = i
	}
	return nil
}

// parseMemberCounts sizes the per-member arrays of every node that member
// names or decorations refer to.
func (p *parser) parseMemberCounts() error {
	for i := range p.nodes {
		n := &p.nodes[i]
		switch n.op {
		case spirv.OpMemberName, spirv.OpMemberDecorate, spirv.OpMemberDecorateString:
		default:
			continue
		}
		var target, member uint32
		if err := p.operands(n, 1, &target, &member); err != nil {
			return err
		}
		if member >= maxMembers {
			return errorf(ErrorKindInvalidInstruction, "%s at word %d: member index %d out of range",
				n.op, n.wordOffset, member)
		}
		if tn := p.lookup(target); tn != nil {
			tn.memberCount = max(tn.memberCount, int(member)+1)
		}
	}

	for i := range p.nodes {
		n := &p.nodes[i]
		if n.memberCount == 0 {
			continue
		}
		n.memberNames = make([]string, n.memberCount)
		n.memberDecorations = make([]decorations, n.memberCount)
		for j := range n.memberDecorations {
			n.memberDecorations[j] = newDecorations()
		}
	}
	return nil
}

// parseNames applies OpName and OpMemberName. Names of ids the index does
// not track are dropped.
func (p *parser) parseNames() error {
	for i := range p.nodes {
		n := &p.nodes[i]
		switch n.op {
		case spirv.OpName:
			target, err := p.word(n, 1)
			if err != nil {
				return err
			}
			name, _, err := p.stringAt(n, 2)
			if err != nil {
				return err
			}
			if tn := p.lookup(target); tn != nil {
				tn.name = name
			}
		case spirv.OpMemberName:
			var target, member uint32
			if err := p.operands(n, 1, &target, &member); err != nil {
				return err
			}
			name, _, err := p.stringAt(n, 3)
			if err != nil {
				return err
			}
			if tn := p.lookup(target); tn != nil {
				tn.memberNames[member] = name
			}
		}
	}
	return nil
}

// parseDecorations applies the decorations reflection understands.
func (p *parser) parseDecorations() error {
	for i := range p.nodes {
		n := &p.nodes[i]

		// index of the decoration word; the value follows it
		var decIndex int
		member := -1
		switch n.op {
		case spirv.OpDecorate, spirv.OpDecorateID, spirv.OpDecorateString:
			decIndex = 2
		case spirv.OpMemberDecorate, spirv.OpMemberDecorateString:
			decIndex = 3
			m, err := p.word(n, 2)
			if err != nil {
				return err
			}
			member = int(m)
		default:
			continue
		}

		var target, dec uint32
		if err := p.operands(n, 1, &target); err != nil {
			return err
		}
		if err := p.operands(n, decIndex, &dec); err != nil {
			return err
		}
		tn := p.lookup(target)
		if tn == nil {
			continue
		}
		d := &tn.decorations
		if member >= 0 {
			d = &tn.memberDecorations[member]
		}
		if err := p.applyDecoration(n, d, spirv.Decoration(dec), decIndex+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) applyDecoration(n *node, d *decorations, dec spirv.Decoration, valueIndex int) error {
	var value uint32
	switch dec {
	case spirv.DecorationArrayStride, spirv.DecorationMatrixStride, spirv.DecorationBuiltIn,
		spirv.DecorationLocation, spirv.DecorationBinding, spirv.DecorationDescriptorSet,
		spirv.DecorationOffset, spirv.DecorationInputAttachmentIndex, spirv.DecorationHlslCounterBufferGOOGLE:
		v, err := p.word(n, valueIndex)
		if err != nil {
			return err
		}
		value = v
	}
	num := numbered{value: value, wordOffset: n.wordOffset + valueIndex}

	switch dec {
	case spirv.DecorationBlock:
		d.isBlock = true
	case spirv.DecorationBufferBlock:
		d.isBufferBlock = true
	case spirv.DecorationRowMajor:
		d.isRowMajor = true
	case spirv.DecorationColMajor:
		d.isColumnMajor = true
	case spirv.DecorationNoPerspective:
		d.isNoPerspective = true
	case spirv.DecorationFlat:
		d.isFlat = true
	case spirv.DecorationNonWritable:
		d.isNonWritable = true
	case spirv.DecorationArrayStride:
		d.arrayStride = value
	case spirv.DecorationMatrixStride:
		d.matrixStride = value
	case spirv.DecorationBuiltIn:
		d.isBuiltIn = true
		d.builtIn = spirv.BuiltIn(value)
	case spirv.DecorationLocation:
		d.location = num
	case spirv.DecorationBinding:
		d.binding = num
	case spirv.DecorationDescriptorSet:
		d.set = num
	case spirv.DecorationOffset:
		d.offset = num
	case spirv.DecorationInputAttachmentIndex:
		d.inputAttachmentIndex = num
	case spirv.DecorationHlslCounterBufferGOOGLE:
		d.uavCounterBuffer = num
	case spirv.DecorationHlslSemanticGOOGLE:
		s, _, err := p.stringAt(n, valueIndex)
		if err != nil {
			return err
		}
		d.semantic = s
	}
	return nil
}
