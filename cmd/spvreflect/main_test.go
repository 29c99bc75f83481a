package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/fxamacker/cbor/v2"
	"github.com/gogpu/spvreflect"
	"github.com/gogpu/spvreflect/spirv"
	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
)

// shaderPair assembles a vertex stage reading camera (0/0) with a uv
// input at location 0, and a fragment stage sampling tex (1/0) with
// smp (1/1) into a color output at location 0.
func shaderPair() []byte {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	void := b.AddTypeVoid()
	fnType := b.AddTypeFunction(void)
	f32 := b.AddTypeFloat(32)
	u32 := b.AddTypeInt(32, false)
	vec2 := b.AddTypeVector(f32, 2)
	vec4 := b.AddTypeVector(f32, 4)
	zero := b.AddConstant(u32, 0)

	variable := func(sc spirv.StorageClass, typ uint32, name string) uint32 {
		v := b.AddVariable(b.AddTypePointer(sc, typ), sc)
		b.AddName(v, name)
		return v
	}
	bind := func(v, set, binding uint32) {
		b.AddDecorate(v, spirv.DecorationDescriptorSet, set)
		b.AddDecorate(v, spirv.DecorationBinding, binding)
	}

	cameraType := b.AddTypeStruct(vec4)
	b.AddName(cameraType, "Camera")
	b.AddMemberName(cameraType, 0, "position")
	b.AddDecorate(cameraType, spirv.DecorationBlock)
	b.AddMemberDecorate(cameraType, 0, spirv.DecorationOffset, 0)
	img := b.AddTypeImage(spirv.ImageType{SampledType: f32, Dim: spirv.Dim2D, Sampled: 1})
	smpType := b.AddTypeSampler()

	camera := variable(spirv.StorageClassUniform, cameraType, "camera")
	tex := variable(spirv.StorageClassUniformConstant, img, "tex")
	smp := variable(spirv.StorageClassUniformConstant, smpType, "smp")
	bind(camera, 0, 0)
	bind(tex, 1, 0)
	bind(smp, 1, 1)

	uv := variable(spirv.StorageClassInput, vec2, "uv")
	color := variable(spirv.StorageClassOutput, vec4, "color")
	b.AddDecorate(uv, spirv.DecorationLocation, 0)
	b.AddDecorate(color, spirv.DecorationLocation, 0)

	ptrVec4 := b.AddTypePointer(spirv.StorageClassUniform, vec4)
	function := func(body func()) uint32 {
		fn := b.AddFunction(fnType, void, spirv.FunctionControlNone)
		b.AddLabel()
		body()
		b.AddReturn()
		b.AddFunctionEnd()
		return fn
	}
	vs := function(func() {
		b.AddLoad(vec4, b.AddAccessChain(ptrVec4, camera, zero))
		b.AddLoad(vec2, uv)
	})
	fs := function(func() {
		b.AddLoad(img, tex)
		b.AddLoad(smpType, smp)
	})
	b.AddEntryPoint(spirv.ExecutionModelVertex, vs, "vs", []uint32{uv})
	b.AddEntryPoint(spirv.ExecutionModelFragment, fs, "fs", []uint32{color})
	b.AddExecutionMode(fs, spirv.ExecutionModeOriginUpperLeft)
	return b.Build()
}

func loadPair(t *testing.T) *spvreflect.Module {
	t.Helper()
	m, err := spvreflect.Load(shaderPair())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestNewReport(t *testing.T) {
	m := loadPair(t)
	r, err := NewReport(m, "")
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}

	var got []string
	for _, ep := range r.EntryPoints {
		got = append(got, ep.Name+":"+ep.Stage)
		for _, s := range ep.Sets {
			got = append(got, "  "+strings.Join(s.Bindings, ","))
		}
	}
	want := []string{"vs:Vertex", "  camera", "fs:Fragment", "  tex,smp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry points mismatch (-want +got):\n%s", diff)
	}

	if len(r.Bindings) != 3 || r.Bindings[0].Block == nil || r.Bindings[0].Block.Members[0].Name != "position" {
		t.Errorf("bindings = %+v", r.Bindings)
	}
	if loc := r.EntryPoints[0].Inputs[0].Location; loc == nil || *loc != 0 {
		t.Errorf("uv location = %v", loc)
	}

	fs, err := NewReport(m, "fs")
	if err != nil {
		t.Fatalf("NewReport(fs): %v", err)
	}
	if len(fs.EntryPoints) != 1 || len(fs.Bindings) != 2 {
		t.Errorf("fs report has %d entry points and %d bindings", len(fs.EntryPoints), len(fs.Bindings))
	}

	_, err = NewReport(m, "cs")
	if !errors.Is(err, &spvreflect.Error{Kind: spvreflect.ErrorKindEntryPointNotFound}) {
		t.Errorf("NewReport(cs) = %v, want EntryPointNotFound", err)
	}
}

func TestWriteReport(t *testing.T) {
	r, err := NewReport(loadPair(t), "")
	if err != nil {
		t.Fatal(err)
	}

	var yamlOut bytes.Buffer
	if err := WriteReport(&yamlOut, r, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for _, s := range []string{"descriptorType: SampledImage", "stage: Fragment", "name: camera"} {
		if !strings.Contains(yamlOut.String(), s) {
			t.Errorf("yaml report lacks %q:\n%s", s, yamlOut.String())
		}
	}

	var jsonOut bytes.Buffer
	if err := WriteReport(&jsonOut, r, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON Report
	if err := json.Unmarshal(jsonOut.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decoding json: %v", err)
	}
	if diff := cmp.Diff(r, &fromJSON); diff != "" {
		t.Errorf("json report mismatch (-want +got):\n%s", diff)
	}

	var cborOut bytes.Buffer
	if err := WriteReport(&cborOut, r, "cbor"); err != nil {
		t.Fatalf("cbor: %v", err)
	}
	var fromCBOR Report
	if err := cbor.Unmarshal(cborOut.Bytes(), &fromCBOR); err != nil {
		t.Fatalf("decoding cbor: %v", err)
	}
	if diff := cmp.Diff(r, &fromCBOR); diff != "" {
		t.Errorf("cbor report mismatch (-want +got):\n%s", diff)
	}

	if err := WriteReport(&bytes.Buffer{}, r, "xml"); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("unknown format: got %v, want ErrUsage", err)
	}
}

func TestListSets(t *testing.T) {
	m := loadPair(t)
	tests := []struct {
		entry, where string
		want         string
	}{
		{"", "", "set 0\n  binding 0   camera UniformBuffer\nset 1\n  binding 0   tex SampledImage\n  binding 1   smp Sampler\n"},
		{"fs", "", "set 1\n  binding 0   tex SampledImage\n  binding 1   smp Sampler\n"},
		{"", `Type == "Sampler"`, "set 1\n  binding 1   smp Sampler\n"},
		{"", `Set == 0 || Name startsWith "t"`, "set 0\n  binding 0   camera UniformBuffer\nset 1\n  binding 0   tex SampledImage\n"},
		{"vs", "Binding > 5", ""},
	}
	for _, tt := range tests {
		t.Run(tt.entry+"/"+tt.where, func(t *testing.T) {
			var out bytes.Buffer
			if err := ListSets(&out, m, tt.entry, tt.where, newPalette(false)); err != nil {
				t.Fatalf("ListSets: %v", err)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, where := range []string{"Set +", `Name + 1`} {
		if err := ListSets(&bytes.Buffer{}, m, "", where, newPalette(false)); !errors.Is(err, cli.ErrUsage) {
			t.Errorf("where %q: got %v, want ErrUsage", where, err)
		}
	}
}

const remapTOML = `
[[set]]
from = 1
to = 3

[[binding]]
name = "camera"
binding = 5

[[binding]]
name = "smp"
set = 2

[[input]]
entry = "vs"
name = "uv"
location = 2
`

func TestApplyRemap(t *testing.T) {
	rf, err := ParseRemapFile([]byte(remapTOML))
	if err != nil {
		t.Fatalf("ParseRemapFile: %v", err)
	}
	m := loadPair(t)
	if err := ApplyRemap(m, rf); err != nil {
		t.Fatalf("ApplyRemap: %v", err)
	}

	patched, err := spvreflect.Load(m.Bytes())
	if err != nil {
		t.Fatalf("reloading patched module: %v", err)
	}
	type numbers struct {
		Name         string
		Set, Binding uint32
	}
	var got []numbers
	bindings, _ := patched.DescriptorBindings("")
	for _, b := range bindings {
		got = append(got, numbers{b.Name, b.Set, b.Binding})
	}
	want := []numbers{{"camera", 0, 5}, {"tex", 3, 0}, {"smp", 2, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	inputs, _ := patched.InputVariables("vs")
	if inputs[0].Location != 2 {
		t.Errorf("uv location = %d, want 2", inputs[0].Location)
	}
}

func TestApplyRemap_Errors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"missing set", "[[set]]\nfrom = 7\nto = 0\n", "set 7"},
		{"missing binding", "[[binding]]\nname = \"nope\"\nset = 1\n", `binding "nope"`},
		{"missing input", "[[input]]\nentry = \"vs\"\nname = \"nope\"\nlocation = 1\n", `input "nope"`},
		{"missing entry", "[[output]]\nentry = \"cs\"\nname = \"color\"\nlocation = 1\n", "EntryPointNotFound"},
		{"merge into kept set", "[[set]]\nfrom = 1\nto = 0\n", "set 0 is in use and not remapped"},
		{"merge two sets", "[[set]]\nfrom = 0\nto = 4\n[[set]]\nfrom = 1\nto = 4\n", "set 0 is also mapped to 4"},
		{"set remapped twice", "[[set]]\nfrom = 0\nto = 4\n[[set]]\nfrom = 0\nto = 5\n", "set 0: remapped more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := ParseRemapFile([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseRemapFile: %v", err)
			}
			m := loadPair(t)
			code := m.Code()
			err = ApplyRemap(m, rf)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
			if diff := cmp.Diff(code, m.Code()); diff != "" {
				t.Errorf("failed remap changed the module (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := ParseRemapFile([]byte("[[set]\n")); err == nil {
		t.Error("malformed TOML accepted")
	}
}

func TestApplyRemap_SetPermutations(t *testing.T) {
	type numbers struct {
		Name         string
		Set, Binding uint32
	}
	tests := []struct {
		name, doc string
		want      []numbers
		sets      []uint32
	}{
		{
			"swap",
			"[[set]]\nfrom = 0\nto = 1\n[[set]]\nfrom = 1\nto = 0\n",
			[]numbers{{"camera", 1, 0}, {"tex", 0, 0}, {"smp", 0, 1}},
			[]uint32{0, 1},
		},
		{
			"rotate",
			"[[set]]\nfrom = 1\nto = 2\n[[set]]\nfrom = 0\nto = 1\n",
			[]numbers{{"camera", 1, 0}, {"tex", 2, 0}, {"smp", 2, 1}},
			[]uint32{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := ParseRemapFile([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseRemapFile: %v", err)
			}
			m := loadPair(t)
			if err := ApplyRemap(m, rf); err != nil {
				t.Fatalf("ApplyRemap: %v", err)
			}
			patched, err := spvreflect.Load(m.Bytes())
			if err != nil {
				t.Fatalf("reloading patched module: %v", err)
			}

			var got []numbers
			bindings, _ := patched.DescriptorBindings("")
			for _, b := range bindings {
				got = append(got, numbers{b.Name, b.Set, b.Binding})
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("bindings mismatch (-want +got):\n%s", diff)
			}
			var numbered []uint32
			ds, _ := patched.DescriptorSets("")
			for _, s := range ds {
				numbered = append(numbered, s.Set)
			}
			if diff := cmp.Diff(tt.sets, numbered); diff != "" {
				t.Errorf("sets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCloseWith(t *testing.T) {
	errClose := errors.New("disk full")
	errWrite := errors.New("short write")
	failing := func() error { return errClose }
	ok := func() error { return nil }

	tests := []struct {
		name    string
		closer  func() error
		err     error
		want    error
		wantNil bool
	}{
		{"close fails", failing, nil, errClose, false},
		{"earlier error wins", failing, errWrite, errWrite, false},
		{"clean close", ok, nil, nil, true},
		{"clean close keeps error", ok, errWrite, errWrite, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			closeWith(tt.closer, &err)
			if tt.wantNil {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteDiff(t *testing.T) {
	var out bytes.Buffer
	before := "a\nb\nc\n"
	after := "a\nB\nc\n"
	if err := WriteDiff(&out, before, after, newPalette(false)); err != nil {
		t.Fatal(err)
	}
	want := "  a\n- b\n+ B\n  c\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("diff output mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLayoutReport(t *testing.T) {
	m := loadPair(t)

	vs, err := NewLayoutReport(m, "vs")
	if err != nil {
		t.Fatalf("vs: %v", err)
	}
	if len(vs.BindGroups) != 1 || vs.BindGroups[0].Entries[0].Kind != "buffer" {
		t.Errorf("vs bind groups = %+v", vs.BindGroups)
	}
	if vs.VertexBuffer == nil || vs.VertexBuffer.ArrayStride != 8 || len(vs.VertexBuffer.Attributes) != 1 {
		t.Errorf("vs vertex buffer = %+v", vs.VertexBuffer)
	}

	fs, err := NewLayoutReport(m, "fs")
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	if fs.VertexBuffer != nil {
		t.Errorf("fragment stage has a vertex buffer: %+v", fs.VertexBuffer)
	}
	var kinds []string
	for _, g := range fs.BindGroups {
		for _, e := range g.Entries {
			kinds = append(kinds, e.Kind+"@"+e.Visibility)
		}
	}
	if diff := cmp.Diff([]string{"texture@fragment", "sampler@fragment"}, kinds); diff != "" {
		t.Errorf("fs entries mismatch (-want +got):\n%s", diff)
	}

	var out bytes.Buffer
	if err := WriteLayout(&out, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "label: fs group 1") {
		t.Errorf("layout yaml:\n%s", out.String())
	}
}

func TestVisibilityString(t *testing.T) {
	if got := visibilityString(0); got != "none" {
		t.Errorf("got %q", got)
	}
	if got := visibilityString(wgpu.ShaderStageVertex | wgpu.ShaderStageFragment); got != "vertex|fragment" {
		t.Errorf("got %q", got)
	}
}

func TestDisassemble(t *testing.T) {
	data := shaderPair()

	var plain bytes.Buffer
	if err := Disassemble(&plain, data, true, false); err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	text := plain.String()
	if !strings.HasPrefix(text, "; SPIR-V\n") || !strings.Contains(text, "OpEntryPoint") {
		t.Errorf("unexpected listing:\n%s", text)
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("plain listing contains escape sequences")
	}

	var colored bytes.Buffer
	if err := Disassemble(&colored, data, false, true); err != nil {
		t.Fatalf("Disassemble colored: %v", err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored listing has no escape sequences")
	}

	if err := Disassemble(&bytes.Buffer{}, data[:6], false, false); err == nil {
		t.Error("misaligned input accepted")
	}
}
