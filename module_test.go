package spvreflect

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/spvreflect/spirv"
	"github.com/google/go-cmp/cmp"
)

func TestLoad_TexSampler(t *testing.T) {
	m := texSamplerFragment().load(t)

	if m.EntryPointName != "main" {
		t.Errorf("EntryPointName = %q, want main", m.EntryPointName)
	}
	if m.ShaderStage != ShaderStageFragment {
		t.Errorf("ShaderStage = %s, want Fragment", m.ShaderStage)
	}
	if m.Version != spirv.Version1_3 {
		t.Errorf("Version = %s, want 1.3", m.Version)
	}

	sets, err := m.DescriptorSets("")
	if err != nil {
		t.Fatalf("DescriptorSets: %v", err)
	}
	if diff := cmp.Diff([]DescriptorSet{{Set: 0, Bindings: []int{0, 1}}}, sets); diff != "" {
		t.Errorf("sets mismatch (-want +got):\n%s", diff)
	}

	type row struct {
		Name     string
		Binding  uint32
		Type     DescriptorType
		Resource ResourceType
		Accessed bool
	}
	bindings, err := m.DescriptorBindings("")
	if err != nil {
		t.Fatalf("DescriptorBindings: %v", err)
	}
	var got []row
	for _, b := range bindings {
		got = append(got, row{b.Name, b.Binding, b.DescriptorType, b.ResourceType, b.Accessed})
	}
	want := []row{
		{"tex", 0, DescriptorTypeSampledImage, ResourceTypeSRV, true},
		{"smp", 1, DescriptorTypeSampler, ResourceTypeSampler, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	if img := bindings[0].Image; img.Dim != spirv.Dim2D || img.Sampled != 1 {
		t.Errorf("tex image traits = %+v", img)
	}

	inputs, _ := m.InputVariables("")
	outputs, _ := m.OutputVariables("main")
	if len(inputs) != 1 || inputs[0].Name != "uv" || inputs[0].Format != FormatR32G32Sfloat {
		t.Errorf("inputs = %+v", inputs)
	}
	if len(outputs) != 1 || outputs[0].Name != "color" || outputs[0].Format != FormatR32G32B32A32Sfloat {
		t.Errorf("outputs = %+v", outputs)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	data := texSamplerFragment().Build()
	m, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(m.Bytes(), data) {
		t.Error("Bytes() differs from the loaded binary")
	}
	words, _ := spirv.BytesToWords(data)
	if diff := cmp.Diff(words, m.Code()); diff != "" {
		t.Errorf("code mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWords_Retain(t *testing.T) {
	words := texSamplerFragment().Words()
	opts := DefaultOptions()
	opts.CopyCode = false
	m, err := LoadWords(words, opts)
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	if err := m.ChangeDescriptorBindingNumbers(0, 7, KeepSet); err != nil {
		t.Fatalf("ChangeDescriptorBindingNumbers: %v", err)
	}
	b, _ := m.DescriptorBinding(0)
	if words[b.WordOffset.Binding] != 7 {
		t.Errorf("retained words not patched: got %d, want 7", words[b.WordOffset.Binding])
	}
}

func TestLoad_Errors(t *testing.T) {
	valid := texSamplerFragment().Words()
	withWords := func(extra ...uint32) []byte {
		return spirv.WordsToBytes(append(append([]uint32(nil), valid...), extra...))
	}
	badMagic := append([]uint32(nil), valid...)
	badMagic[0] = 0x03022307

	tests := []struct {
		name string
		data []byte
		want ErrorKind
	}{
		{"empty", nil, ErrorKindNoInput},
		{"misaligned", make([]byte, 7), ErrorKindInvalidCodeSize},
		{"short header", spirv.WordsToBytes([]uint32{spirv.MagicNumber, 0x10300}), ErrorKindInvalidCodeSize},
		{"bad magic", spirv.WordsToBytes(badMagic), ErrorKindInvalidMagic},
		{"unknown opcode", withWords(spirv.FirstWord(1, spirv.OpCode(7000))), ErrorKindInvalidInstruction},
		{"zero word count", withWords(spirv.FirstWord(0, spirv.OpNop)), ErrorKindInvalidInstruction},
		{"truncated", withWords(spirv.FirstWord(4, spirv.OpName), 1), ErrorKindUnexpectedEOF},
		// %1 is the fixture's void type.
		{"duplicate id", withWords(spirv.FirstWord(2, spirv.OpTypeVoid), 1), ErrorKindDuplicateID},
		{"unterminated name", withWords(spirv.FirstWord(3, spirv.OpName), 1, 0x41414141), ErrorKindInvalidString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(tt.data)
			if err == nil {
				t.Fatal("expected error, got module")
			}
			if m != nil {
				t.Error("module returned alongside error")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %v is %T, want *Error", err, err)
			}
			if e.Kind != tt.want {
				t.Errorf("kind = %s, want %s (%v)", e.Kind, tt.want, err)
			}
			if !e.IsMalformedInput() {
				t.Errorf("%s is not malformed input", e.Kind)
			}
		})
	}
}

func TestLoad_UndefinedType(t *testing.T) {
	f := newFixture()
	v := f.AddVariable(999, spirv.StorageClassUniformConstant)
	f.bind(v, 0, 0)
	_, err := Load(f.Build())
	if !errors.Is(err, &Error{Kind: ErrorKindInvalidIDReference}) {
		t.Errorf("got %v, want InvalidIDReference", err)
	}
}

func TestLoad_EntryPointNameLength(t *testing.T) {
	tests := []struct {
		name      string
		nameWords int
	}{
		{"", 1},
		{"a", 1},
		{"abc", 1},
		{"main", 2},
		{"main_fs", 2},
		{"vertex_m", 3},
		{"a_rather_long_entry_point_name", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spirv.StringWordCount(len(tt.name)); got != tt.nameWords {
				t.Fatalf("StringWordCount(%d) = %d, want %d", len(tt.name), got, tt.nameWords)
			}
			f := newFixture()
			pos := f.variable(spirv.StorageClassInput, f.vec4, "pos")
			f.AddDecorate(pos, spirv.DecorationLocation, 3)
			fn := f.function(nil)
			f.AddEntryPoint(spirv.ExecutionModelVertex, fn, tt.name, []uint32{pos})

			m := f.load(t)
			eps := m.EntryPoints()
			if len(eps) != 1 {
				t.Fatalf("got %d entry points", len(eps))
			}
			if eps[0].Name != tt.name {
				t.Errorf("name = %q, want %q", eps[0].Name, tt.name)
			}
			if len(eps[0].InputVariables) != 1 || eps[0].InputVariables[0].SpirvID != pos {
				t.Fatalf("interface = %+v, want %%%d", eps[0].InputVariables, pos)
			}
			if loc := eps[0].InputVariables[0].Location; loc != 3 {
				t.Errorf("location = %d, want 3", loc)
			}
		})
	}
}

func TestLoad_EntryPointInterfaceErrors(t *testing.T) {
	t.Run("undefined id", func(t *testing.T) {
		f := newFixture()
		fn := f.function(nil)
		f.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", []uint32{500})
		_, err := Load(f.Build())
		if !errors.Is(err, &Error{Kind: ErrorKindInvalidIDReference}) {
			t.Errorf("got %v, want InvalidIDReference", err)
		}
	})
	t.Run("not a variable", func(t *testing.T) {
		f := newFixture()
		fn := f.function(nil)
		f.AddEntryPoint(spirv.ExecutionModelVertex, fn, "main", []uint32{f.vec4})
		_, err := Load(f.Build())
		if !errors.Is(err, &Error{Kind: ErrorKindInvalidEntryPoint}) {
			t.Errorf("got %v, want InvalidEntryPoint", err)
		}
	})
	t.Run("uniforms listed", func(t *testing.T) {
		// SPIR-V 1.4 lists every referenced global in the interface.
		f := newFixture()
		smp := f.variable(spirv.StorageClassUniformConstant, f.AddTypeSampler(), "smp")
		f.bind(smp, 0, 0)
		fn := f.function(nil)
		f.AddEntryPoint(spirv.ExecutionModelFragment, fn, "main", []uint32{smp})
		m := f.load(t)
		if ep := m.EntryPoints()[0]; len(ep.InputVariables)+len(ep.OutputVariables) != 0 {
			t.Errorf("uniform reported as interface variable: %+v", ep)
		}
	})
}

func TestModule_UnknownEntryPoint(t *testing.T) {
	m := texSamplerFragment().load(t)

	queries := map[string]func() error{
		"EntryPoint":         func() error { _, err := m.EntryPoint("vs_main"); return err },
		"InputVariables":     func() error { _, err := m.InputVariables("vs_main"); return err },
		"OutputVariables":    func() error { _, err := m.OutputVariables("vs_main"); return err },
		"DescriptorBindings": func() error { _, err := m.DescriptorBindings("vs_main"); return err },
		"DescriptorSets":     func() error { _, err := m.DescriptorSets("vs_main"); return err },
		"PushConstantBlocks": func() error { _, err := m.PushConstantBlocks("vs_main"); return err },
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			err := query()
			var e *Error
			if !errors.As(err, &e) || !e.IsEntryPointNotFound() {
				t.Errorf("got %v, want EntryPointNotFound", err)
			}
		})
	}
}

func TestLoad_Source(t *testing.T) {
	f := newFixture()
	file := f.AddString("shaders/blit.frag")
	f.AddSource(spirv.SourceLanguageGLSL, 450, file, "#version 450\n")
	f.AddSourceContinued("void main() {}\n")
	f.SetGenerator(uint32(GeneratorKhronosGlslangReferenceFrontEnd)<<16 | 11)

	m := f.load(t)
	if m.SourceLanguage != spirv.SourceLanguageGLSL || m.SourceLanguageVersion != 450 {
		t.Errorf("source = %s %d", m.SourceLanguage, m.SourceLanguageVersion)
	}
	if m.SourceFile != "shaders/blit.frag" {
		t.Errorf("SourceFile = %q", m.SourceFile)
	}
	if want := "#version 450\nvoid main() {}\n"; m.SourceText != want {
		t.Errorf("SourceText = %q, want %q", m.SourceText, want)
	}
	if m.Generator != GeneratorKhronosGlslangReferenceFrontEnd {
		t.Errorf("Generator = %s", m.Generator)
	}
	if len(m.EntryPoints()) != 0 || m.EntryPointName != "" {
		t.Errorf("unexpected entry points: %+v", m.EntryPoints())
	}
	if inputs, err := m.InputVariables(""); err != nil || inputs != nil {
		t.Errorf("InputVariables(\"\") = %v, %v", inputs, err)
	}
}

func TestLoad_ComputeLocalSize(t *testing.T) {
	f := newFixture()
	main := f.function(nil)
	f.AddEntryPoint(spirv.ExecutionModelGLCompute, main, "cs_main", nil)
	f.AddExecutionMode(main, spirv.ExecutionModeLocalSize, 8, 4, 1)

	m := f.load(t)
	ep, err := m.EntryPoint("cs_main")
	if err != nil {
		t.Fatalf("EntryPoint: %v", err)
	}
	if ep.LocalSize != [3]uint32{8, 4, 1} {
		t.Errorf("LocalSize = %v", ep.LocalSize)
	}
	if ep.ShaderStage != ShaderStageCompute {
		t.Errorf("ShaderStage = %s", ep.ShaderStage)
	}
}

func TestModule_TypeDescription(t *testing.T) {
	f := newFixture()
	mat := f.AddTypeMatrix(f.vec4, 3)
	f.AddName(f.vec4, "float4")
	m := f.load(t)

	vec := m.TypeDescription(f.vec4)
	if vec == nil {
		t.Fatal("vec4 not described")
	}
	if vec.TypeName != "float4" || vec.Op != spirv.OpTypeVector {
		t.Errorf("vec4 = %+v", vec)
	}
	if vec.TypeFlags != TypeFlagVector|TypeFlagFloat || vec.Traits.Numeric.Vector.ComponentCount != 4 {
		t.Errorf("vec4 flags %s, components %d", vec.TypeFlags, vec.Traits.Numeric.Vector.ComponentCount)
	}

	md := m.TypeDescription(mat)
	want := MatrixTraits{ColumnCount: 3, RowCount: 4}
	if diff := cmp.Diff(want, md.Traits.Numeric.Matrix); diff != "" {
		t.Errorf("matrix traits mismatch (-want +got):\n%s", diff)
	}
	// The column type's name propagates on unwind.
	if md.ID != mat || md.TypeName != "float4" {
		t.Errorf("matrix id %d name %q", md.ID, md.TypeName)
	}
	if m.TypeDescription(12345) != nil {
		t.Error("found a description for an undeclared id")
	}
	if got := len(m.TypeDescriptions()); got != 6 {
		t.Errorf("%d type descriptions, want 6", got)
	}
}

func TestModule_ImageTypeDescription(t *testing.T) {
	f := newFixture()
	i32 := f.AddTypeInt(32, true)
	floatImg := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
	intImg := f.AddTypeImage(spirv.ImageType{SampledType: i32, Dim: spirv.Dim3D, Sampled: 2, Format: spirv.ImageFormatR32i})
	sampled := f.AddTypeSampledImage(floatImg)
	m := f.load(t)

	tests := []struct {
		id    uint32
		flags TypeFlags
		dim   spirv.Dim
	}{
		{floatImg, TypeFlagExternalImage | TypeFlagFloat, spirv.Dim2D},
		{intImg, TypeFlagExternalImage | TypeFlagInt, spirv.Dim3D},
		{sampled, TypeFlagExternalSampledImage | TypeFlagExternalImage | TypeFlagFloat, spirv.Dim2D},
	}
	for _, tt := range tests {
		td := m.TypeDescription(tt.id)
		if td == nil {
			t.Fatalf("type %%%d not described", tt.id)
		}
		if td.TypeFlags != tt.flags {
			t.Errorf("type %%%d flags = %s, want %s", tt.id, td.TypeFlags, tt.flags)
		}
		if td.Traits.Numeric.Scalar.Width != 32 || td.Traits.Image.Dim != tt.dim {
			t.Errorf("type %%%d width %d dim %s", tt.id, td.Traits.Numeric.Scalar.Width, td.Traits.Image.Dim)
		}
	}
}

func TestModule_Clone(t *testing.T) {
	m := texSamplerFragment().load(t)
	c, err := m.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := c.ChangeDescriptorBindingNumbers(0, 9, 3); err != nil {
		t.Fatalf("ChangeDescriptorBindingNumbers: %v", err)
	}
	orig, _ := m.DescriptorBinding(0)
	if orig.Binding != 0 || orig.Set != 0 {
		t.Errorf("original changed: binding %d set %d", orig.Binding, orig.Set)
	}
	if bytes.Equal(m.Bytes(), c.Bytes()) {
		t.Error("clone shares the word stream")
	}
}

func TestModule_QueriesReturnCopies(t *testing.T) {
	m := texSamplerFragment().load(t)
	code := m.Code()

	bindings, _ := m.DescriptorBindings("")
	bindings[0].Set = 5
	sets, _ := m.DescriptorSets("")
	sets[0].Bindings[0] = 99
	epSets, _ := m.DescriptorSets("main")
	epSets[0].Set = 7
	eps := m.EntryPoints()
	eps[0].Name = "renamed"
	eps[0].DescriptorSets[0].Bindings[1] = 42
	inputs, _ := m.InputVariables("")
	inputs[0].Location = 9

	if b, _ := m.DescriptorBinding(0); b.Set != 0 {
		t.Errorf("binding set = %d after editing a copy", b.Set)
	}
	want := []DescriptorSet{{Set: 0, Bindings: []int{0, 1}}}
	for _, entry := range []string{"", "main"} {
		got, _ := m.DescriptorSets(entry)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DescriptorSets(%q) mismatch (-want +got):\n%s", entry, diff)
		}
	}
	if _, err := m.EntryPoint("main"); err != nil {
		t.Errorf("EntryPoint(main): %v", err)
	}
	if in, _ := m.InputVariables(""); in[0].Location != 0 {
		t.Errorf("uv location = %d after editing a copy", in[0].Location)
	}
	if diff := cmp.Diff(code, m.Code()); diff != "" {
		t.Errorf("code changed (-want +got):\n%s", diff)
	}
}
