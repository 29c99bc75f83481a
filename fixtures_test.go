package spvreflect

import (
	"testing"

	"github.com/gogpu/spvreflect/spirv"
)

// fixture assembles test modules with the common scalar and vector types
// already declared.
type fixture struct {
	*spirv.ModuleBuilder

	void   uint32
	fnType uint32
	f32    uint32
	vec2   uint32
	vec4   uint32
}

func newFixture() *fixture {
	b := spirv.NewModuleBuilder(spirv.Version1_3)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	f := &fixture{ModuleBuilder: b}
	f.void = b.AddTypeVoid()
	f.fnType = b.AddTypeFunction(f.void)
	f.f32 = b.AddTypeFloat(32)
	f.vec2 = b.AddTypeVector(f.f32, 2)
	f.vec4 = b.AddTypeVector(f.f32, 4)
	return f
}

// variable declares a named global variable of type typ.
func (f *fixture) variable(sc spirv.StorageClass, typ uint32, name string) uint32 {
	ptr := f.AddTypePointer(sc, typ)
	v := f.AddVariable(ptr, sc)
	if name != "" {
		f.AddName(v, name)
	}
	return v
}

func (f *fixture) bind(v, set, binding uint32) {
	f.AddDecorate(v, spirv.DecorationDescriptorSet, set)
	f.AddDecorate(v, spirv.DecorationBinding, binding)
}

// function emits a void function. body, if any, emits its instructions.
func (f *fixture) function(body func()) uint32 {
	fn := f.AddFunction(f.fnType, f.void, spirv.FunctionControlNone)
	f.AddLabel()
	if body != nil {
		body()
	}
	f.AddReturn()
	f.AddFunctionEnd()
	return fn
}

// uint32Constant declares a 32-bit unsigned constant.
func (f *fixture) uint32Constant(v uint32) uint32 {
	u32 := f.AddTypeInt(32, false)
	return f.AddConstant(u32, v)
}

func (f *fixture) load(t testing.TB) *Module {
	t.Helper()
	m, err := Load(f.Build())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

// texSamplerFragment is the fragment stage of a typical UI renderer: a
// texture "tex" and a sampler "smp", both in set 0, sampled at an
// interpolated uv.
func texSamplerFragment() *fixture {
	f := newFixture()
	img := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
	smpType := f.AddTypeSampler()
	sampled := f.AddTypeSampledImage(img)

	tex := f.variable(spirv.StorageClassUniformConstant, img, "tex")
	smp := f.variable(spirv.StorageClassUniformConstant, smpType, "smp")
	uv := f.variable(spirv.StorageClassInput, f.vec2, "uv")
	color := f.variable(spirv.StorageClassOutput, f.vec4, "color")
	f.bind(tex, 0, 0)
	f.bind(smp, 0, 1)
	f.AddDecorate(uv, spirv.DecorationLocation, 0)
	f.AddDecorate(color, spirv.DecorationLocation, 0)

	main := f.function(func() {
		ti := f.AddLoad(img, tex)
		si := f.AddLoad(smpType, smp)
		combined := f.AddSampledImage(sampled, ti, si)
		coord := f.AddLoad(f.vec2, uv)
		texel := f.AddImageSampleImplicitLod(f.vec4, combined, coord)
		f.AddStore(color, texel)
	})
	f.AddName(main, "main")
	f.AddEntryPoint(spirv.ExecutionModelFragment, main, "main", []uint32{uv, color})
	f.AddExecutionMode(main, spirv.ExecutionModeOriginUpperLeft)
	return f
}
