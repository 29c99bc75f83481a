package spvreflect

import (
	"testing"

	"github.com/gogpu/spvreflect/spirv"
)

// wideModule declares n uniform blocks and n textures spread over four
// sets, all used by one fragment entry point.
func wideModule(n int) []byte {
	f := newFixture()
	img := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
	mat4 := f.AddTypeMatrix(f.vec4, 4)
	block := f.AddTypeStruct(mat4, f.vec4, f.vec2)
	f.AddDecorate(block, spirv.DecorationBlock)
	f.AddMemberDecorate(block, 0, spirv.DecorationMatrixStride, 16)
	for i, off := range []uint32{0, 64, 80} {
		f.AddMemberDecorate(block, uint32(i), spirv.DecorationOffset, off)
	}

	var vars []uint32
	for i := 0; i < n; i++ {
		ubo := f.variable(spirv.StorageClassUniform, block, "")
		tex := f.variable(spirv.StorageClassUniformConstant, img, "")
		f.bind(ubo, uint32(i%4), uint32(2*i))
		f.bind(tex, uint32(i%4), uint32(2*i+1))
		vars = append(vars, ubo, tex)
	}
	ptrVec4 := f.AddTypePointer(spirv.StorageClassUniform, f.vec4)
	one := f.uint32Constant(1)
	main := f.function(func() {
		for i, v := range vars {
			if i%2 == 0 {
				f.AddAccessChain(ptrVec4, v, one)
			} else {
				f.AddLoad(img, v)
			}
		}
	})
	f.AddEntryPoint(spirv.ExecutionModelFragment, main, "main", nil)
	return f.Build()
}

func benchmarkLoad(b *testing.B, n int) {
	data := wideModule(n)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoad_Small(b *testing.B)  { benchmarkLoad(b, 2) }
func BenchmarkLoad_Medium(b *testing.B) { benchmarkLoad(b, 16) }
func BenchmarkLoad_Large(b *testing.B)  { benchmarkLoad(b, 128) }

func BenchmarkChangeDescriptorBindingNumbers(b *testing.B) {
	m, err := Load(wideModule(16))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.ChangeDescriptorBindingNumbers(0, KeepBinding, uint32(i%8)); err != nil {
			b.Fatal(err)
		}
	}
}
