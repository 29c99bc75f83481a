package spvreflect

import (
	"slices"

	"github.com/gogpu/spvreflect/spirv"
	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLogger("spvreflect")

// Module is the reflection of a SPIR-V module.
//
// A Module is safe for concurrent reads. Change* methods rewrite the
// retained word stream and the derived descriptor set views in place and
// need exclusive access; use Clone to mutate copies independently.
type Module struct {
	// Generator is the tool that produced the module, from the header.
	Generator Generator

	// Version is the SPIR-V version from the header.
	Version spirv.Version

	// EntryPointName and EntryPointID describe the first entry point.
	EntryPointName string
	EntryPointID   uint32

	SourceLanguage        spirv.SourceLanguage
	SourceLanguageVersion uint32
	SourceFile            string
	SourceText            string

	// ExecutionModel and ShaderStage describe the first entry point.
	ExecutionModel spirv.ExecutionModel
	ShaderStage    ShaderStage

	entryPoints     []EntryPoint
	bindings        []DescriptorBinding
	sets            []DescriptorSet
	pushConstants   []BlockVariable
	types           []TypeDescription
	uniformIDs      []uint32
	pushConstantIDs []uint32

	code []uint32
	opts Options
}

// Load reflects a SPIR-V binary using DefaultOptions.
func Load(data []byte) (*Module, error) {
	return LoadWithOptions(data, DefaultOptions())
}

// LoadWithOptions reflects a SPIR-V binary. The byte length must be a
// multiple of four; words are read in host byte order.
func LoadWithOptions(data []byte, opts Options) (*Module, error) {
	if len(data) == 0 {
		return nil, NewError(ErrorKindNoInput, "empty module")
	}
	words, err := spirv.BytesToWords(data)
	if err != nil {
		return nil, errorf(ErrorKindInvalidCodeSize, "%d bytes is not a whole number of words", len(data))
	}
	// BytesToWords already copied.
	opts.CopyCode = false
	return load(words, opts)
}

// LoadWords reflects a SPIR-V module given as words. Unless
// opts.CopyCode is set, the module retains words and mutations write into it.
func LoadWords(words []uint32, opts Options) (*Module, error) {
	if len(words) == 0 {
		return nil, NewError(ErrorKindNoInput, "empty module")
	}
	if opts.CopyCode {
		words = slices.Clone(words)
	}
	return load(words, opts)
}

func load(words []uint32, opts Options) (*Module, error) {
	header, ok := spirv.ParseHeader(words)
	if !ok {
		return nil, errorf(ErrorKindInvalidCodeSize, "%d words is shorter than the %d-word header", len(words), spirv.HeaderWords)
	}
	if header.Magic != spirv.MagicNumber {
		return nil, errorf(ErrorKindInvalidMagic, "got %#08x, want %#08x", header.Magic, spirv.MagicNumber)
	}

	p := newParser(words)
	count, err := p.countNodes()
	if err != nil {
		return nil, err
	}
	if err := p.parseNodes(count); err != nil {
		return nil, err
	}
	for _, pass := range []func() error{
		p.parseStrings,
		p.parseFunctions,
		p.parseMemberCounts,
		p.parseNames,
		p.parseDecorations,
	} {
		if err := pass(); err != nil {
			return nil, err
		}
	}

	m := &Module{
		Generator:             GeneratorOf(header.Generator),
		Version:               header.Version,
		SourceLanguage:        p.sourceLanguage,
		SourceLanguageVersion: p.sourceLanguageVersion,
		SourceFile:            p.strings[p.sourceFileID],
		SourceText:            p.sourceText.String(),
		code:                  words,
		opts:                  opts,
	}

	if m.types, err = p.parseTypes(); err != nil {
		return nil, err
	}
	if m.bindings, err = p.parseDescriptorBindings(m.types); err != nil {
		return nil, err
	}
	linkCounters(m.bindings)
	if m.pushConstants, err = p.parsePushConstantBlocks(m.types); err != nil {
		return nil, err
	}
	if m.entryPoints, err = p.parseEntryPoints(m.types); err != nil {
		return nil, err
	}

	for i := range m.bindings {
		m.uniformIDs = append(m.uniformIDs, m.bindings[i].SpirvID)
	}
	slices.Sort(m.uniformIDs)
	for i := range m.pushConstants {
		m.pushConstantIDs = append(m.pushConstantIDs, m.pushConstants[i].SpirvID)
	}
	slices.Sort(m.pushConstantIDs)

	if err := p.parseStaticUse(m.entryPoints, m.uniformIDs, m.pushConstantIDs, opts.StaticUse); err != nil {
		return nil, err
	}
	for i := range m.bindings {
		b := &m.bindings[i]
		b.Accessed = slices.ContainsFunc(m.entryPoints, func(ep EntryPoint) bool {
			return ep.usesUniform(b.SpirvID)
		})
	}
	if err := m.synchronizeSets(); err != nil {
		return nil, err
	}

	if len(m.entryPoints) > 0 {
		ep := &m.entryPoints[0]
		m.EntryPointName = ep.Name
		m.EntryPointID = ep.ID
		m.ExecutionModel = ep.ExecutionModel
		m.ShaderStage = ep.ShaderStage
	}

	logger.Debugf("reflected %d instructions: %d types, %d entry points, %d bindings in %d sets, %d push constant blocks",
		len(p.nodes), len(m.types), len(m.entryPoints), len(m.bindings), len(m.sets), len(m.pushConstants))
	return m, nil
}

// EntryPoints returns a copy of every entry point in declaration order.
// The interface variables of the copies are shared with m and must not be
// modified.
func (m *Module) EntryPoints() []EntryPoint {
	eps := slices.Clone(m.entryPoints)
	for i := range eps {
		eps[i].DescriptorSets = cloneSets(eps[i].DescriptorSets)
	}
	return eps
}

// EntryPoint returns the entry point with the given name. The result
// points into m and is read-only; use the Change methods to modify it.
func (m *Module) EntryPoint(name string) (*EntryPoint, error) {
	for i := range m.entryPoints {
		if m.entryPoints[i].Name == name {
			return &m.entryPoints[i], nil
		}
	}
	return nil, errorf(ErrorKindEntryPointNotFound, "no entry point named %q", name)
}

// entryPointOrPrimary resolves an entry point name, "" meaning the first
// entry point. A module without entry points yields nil for "".
func (m *Module) entryPointOrPrimary(name string) (*EntryPoint, error) {
	if name != "" {
		return m.EntryPoint(name)
	}
	if len(m.entryPoints) == 0 {
		return nil, nil
	}
	return &m.entryPoints[0], nil
}

// InputVariables returns the inputs of the named entry point, or of the
// first entry point when entryPoint is empty.
func (m *Module) InputVariables(entryPoint string) ([]InterfaceVariable, error) {
	ep, err := m.entryPointOrPrimary(entryPoint)
	if err != nil || ep == nil {
		return nil, err
	}
	return slices.Clone(ep.InputVariables), nil
}

// OutputVariables returns the outputs of the named entry point, or of the
// first entry point when entryPoint is empty.
func (m *Module) OutputVariables(entryPoint string) ([]InterfaceVariable, error) {
	ep, err := m.entryPointOrPrimary(entryPoint)
	if err != nil || ep == nil {
		return nil, err
	}
	return slices.Clone(ep.OutputVariables), nil
}

// DescriptorBindings returns a copy of every binding in declaration
// order, or of only those the named entry point statically uses. Blocks,
// arrays and type descriptions of the copies are shared with m and must
// not be modified. Use DescriptorBinding and the Change methods to modify
// a binding.
func (m *Module) DescriptorBindings(entryPoint string) ([]DescriptorBinding, error) {
	if entryPoint == "" {
		return slices.Clone(m.bindings), nil
	}
	ep, err := m.EntryPoint(entryPoint)
	if err != nil {
		return nil, err
	}
	var out []DescriptorBinding
	for _, b := range m.bindings {
		if ep.usesUniform(b.SpirvID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// DescriptorBinding returns the binding at index in declaration order.
func (m *Module) DescriptorBinding(index int) (*DescriptorBinding, error) {
	if index < 0 || index >= len(m.bindings) {
		return nil, errorf(ErrorKindRangeExceeded, "binding index %d, module has %d bindings", index, len(m.bindings))
	}
	return &m.bindings[index], nil
}

// DescriptorSets returns a copy of the descriptor sets of the module or of
// the named entry point. Binding indices refer to DescriptorBindings("").
func (m *Module) DescriptorSets(entryPoint string) ([]DescriptorSet, error) {
	if entryPoint == "" {
		return cloneSets(m.sets), nil
	}
	ep, err := m.EntryPoint(entryPoint)
	if err != nil {
		return nil, err
	}
	return cloneSets(ep.DescriptorSets), nil
}

func cloneSets(sets []DescriptorSet) []DescriptorSet {
	out := slices.Clone(sets)
	for i := range out {
		out[i].Bindings = slices.Clone(out[i].Bindings)
	}
	return out
}

// PushConstantBlocks returns every push constant block, or only those the
// named entry point statically uses.
func (m *Module) PushConstantBlocks(entryPoint string) ([]BlockVariable, error) {
	if entryPoint == "" {
		return slices.Clone(m.pushConstants), nil
	}
	ep, err := m.EntryPoint(entryPoint)
	if err != nil {
		return nil, err
	}
	var out []BlockVariable
	for _, b := range m.pushConstants {
		if ep.usesPushConstant(b.SpirvID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// TypeDescriptions returns a description of every declared type, in
// declaration order.
func (m *Module) TypeDescriptions() []TypeDescription {
	return m.types
}

// TypeDescription returns the description of type id, or nil.
func (m *Module) TypeDescription(id uint32) *TypeDescription {
	return findType(m.types, id)
}

// CounterBinding returns the UAV counter linked to b, or nil.
func (m *Module) CounterBinding(b *DescriptorBinding) *DescriptorBinding {
	if b.UavCounterBinding < 0 || b.UavCounterBinding >= len(m.bindings) {
		return nil
	}
	return &m.bindings[b.UavCounterBinding]
}

// UniformIDs returns the sorted ids of every descriptor binding variable.
func (m *Module) UniformIDs() []uint32 {
	return m.uniformIDs
}

// PushConstantIDs returns the sorted ids of every push constant variable.
func (m *Module) PushConstantIDs() []uint32 {
	return m.pushConstantIDs
}

// Code returns a copy of the current word stream, including any changes.
func (m *Module) Code() []uint32 {
	return slices.Clone(m.code)
}

// Bytes returns the current word stream in host byte order.
func (m *Module) Bytes() []byte {
	return spirv.WordsToBytes(m.code)
}

// Clone returns an independent module reflected from the current word stream.
func (m *Module) Clone() (*Module, error) {
	opts := m.opts
	opts.CopyCode = true
	return LoadWords(m.code, opts)
}
