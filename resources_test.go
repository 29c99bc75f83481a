package spvreflect

import (
	"errors"
	"testing"

	"github.com/gogpu/spvreflect/spirv"
	"github.com/google/go-cmp/cmp"
)

// layoutRow is one flattened block member, named by its path.
type layoutRow struct {
	Path           string
	Offset         uint32
	AbsoluteOffset uint32
	Size           uint32
	PaddedSize     uint32
}

func flattenBlock(prefix string, v *BlockVariable, rows []layoutRow) []layoutRow {
	for i := range v.Members {
		m := &v.Members[i]
		path := prefix + m.Name
		rows = append(rows, layoutRow{path, m.Offset, m.AbsoluteOffset, m.Size, m.PaddedSize})
		rows = flattenBlock(path+".", m, rows)
	}
	return rows
}

func TestUniformBlockLayout(t *testing.T) {
	f := newFixture()
	vec3 := f.AddTypeVector(f.f32, 3)
	mat4 := f.AddTypeMatrix(f.vec4, 4)
	four := f.uint32Constant(4)
	floats := f.AddTypeArray(f.f32, four)
	f.AddDecorate(floats, spirv.DecorationArrayStride, 16)

	inner := f.AddTypeStruct(f.vec2, f.f32)
	f.AddName(inner, "Inner")
	f.AddMemberName(inner, 0, "a")
	f.AddMemberName(inner, 1, "b")
	f.AddMemberDecorate(inner, 0, spirv.DecorationOffset, 0)
	f.AddMemberDecorate(inner, 1, spirv.DecorationOffset, 8)

	ubo := f.AddTypeStruct(mat4, vec3, f.f32, inner, floats)
	f.AddName(ubo, "Globals")
	f.AddDecorate(ubo, spirv.DecorationBlock)
	for i, name := range []string{"mvp", "light", "scale", "inner", "weights"} {
		f.AddMemberName(ubo, uint32(i), name)
	}
	f.AddMemberDecorate(ubo, 0, spirv.DecorationColMajor)
	f.AddMemberDecorate(ubo, 0, spirv.DecorationMatrixStride, 16)
	for i, off := range []uint32{0, 64, 76, 80, 96} {
		f.AddMemberDecorate(ubo, uint32(i), spirv.DecorationOffset, off)
	}

	v := f.variable(spirv.StorageClassUniform, ubo, "globals")
	f.bind(v, 0, 0)
	m := f.load(t)

	b, err := m.DescriptorBinding(0)
	if err != nil {
		t.Fatalf("DescriptorBinding: %v", err)
	}
	if b.DescriptorType != DescriptorTypeUniformBuffer || b.ResourceType != ResourceTypeCBV {
		t.Errorf("got %s/%s, want UniformBuffer/CBV", b.DescriptorType, b.ResourceType)
	}
	if b.Block.Name != "globals" || b.Block.Size != 160 || b.Block.PaddedSize != 160 {
		t.Errorf("block %q size %d padded %d, want globals 160 160", b.Block.Name, b.Block.Size, b.Block.PaddedSize)
	}
	if b.TypeDescription.TypeName != "Globals" {
		t.Errorf("type name = %q", b.TypeDescription.TypeName)
	}

	want := []layoutRow{
		{"mvp", 0, 0, 64, 64},
		{"light", 64, 64, 12, 12},
		{"scale", 76, 76, 4, 4},
		{"inner", 80, 80, 16, 16},
		{"inner.a", 0, 80, 8, 8},
		{"inner.b", 8, 88, 4, 8},
		{"weights", 96, 96, 64, 64},
	}
	if diff := cmp.Diff(want, flattenBlock("", &b.Block, nil)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	mvp := b.Block.Members[0]
	if diff := cmp.Diff(MatrixTraits{ColumnCount: 4, RowCount: 4, Stride: 16}, mvp.Numeric.Matrix); diff != "" {
		t.Errorf("mvp matrix mismatch (-want +got):\n%s", diff)
	}
	if mvp.DecorationFlags != DecorationColumnMajor {
		t.Errorf("mvp flags = %s", mvp.DecorationFlags)
	}
	weights := b.Block.Members[4]
	if diff := cmp.Diff(ArrayTraits{Dims: []uint32{4}, Stride: 16}, weights.Array); diff != "" {
		t.Errorf("weights array mismatch (-want +got):\n%s", diff)
	}

	t.Run("members out of offset order", func(t *testing.T) {
		f := newFixture()
		vec3 := f.AddTypeVector(f.f32, 3)
		ubo := f.AddTypeStruct(f.vec4, vec3, f.f32)
		f.AddDecorate(ubo, spirv.DecorationBlock)
		for i, name := range []string{"hi", "lo", "mid"} {
			f.AddMemberName(ubo, uint32(i), name)
		}
		for i, off := range []uint32{32, 0, 16} {
			f.AddMemberDecorate(ubo, uint32(i), spirv.DecorationOffset, off)
		}
		f.bind(f.variable(spirv.StorageClassUniform, ubo, "shuffled"), 0, 0)
		m := f.load(t)

		b, err := m.DescriptorBinding(0)
		if err != nil {
			t.Fatalf("DescriptorBinding: %v", err)
		}
		if b.Block.Size != 48 || b.Block.PaddedSize != 48 {
			t.Errorf("block size %d padded %d, want 48 48", b.Block.Size, b.Block.PaddedSize)
		}
		want := []layoutRow{
			{"hi", 32, 32, 16, 16},
			{"lo", 0, 0, 12, 16},
			{"mid", 16, 16, 4, 16},
		}
		if diff := cmp.Diff(want, flattenBlock("", &b.Block, nil)); diff != "" {
			t.Errorf("layout mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRowMajorMatrixSize(t *testing.T) {
	f := newFixture()
	vec3 := f.AddTypeVector(f.f32, 3)
	mat := f.AddTypeMatrix(vec3, 2) // 2 columns, 3 rows
	ubo := f.AddTypeStruct(mat)
	f.AddDecorate(ubo, spirv.DecorationBlock)
	f.AddMemberDecorate(ubo, 0, spirv.DecorationRowMajor)
	f.AddMemberDecorate(ubo, 0, spirv.DecorationMatrixStride, 16)
	f.AddMemberDecorate(ubo, 0, spirv.DecorationOffset, 0)
	f.bind(f.variable(spirv.StorageClassUniform, ubo, "u"), 0, 0)

	m := f.load(t)
	b, _ := m.DescriptorBinding(0)
	if got := b.Block.Members[0].Size; got != 48 {
		t.Errorf("row-major 2x3 size = %d, want 48", got)
	}
}

func TestMissingMemberOffset(t *testing.T) {
	f := newFixture()
	ubo := f.AddTypeStruct(f.vec4, f.f32)
	f.AddDecorate(ubo, spirv.DecorationBlock)
	f.AddMemberDecorate(ubo, 0, spirv.DecorationOffset, 0)
	f.bind(f.variable(spirv.StorageClassUniform, ubo, "u"), 0, 0)

	_, err := Load(f.Build())
	if !errors.Is(err, &Error{Kind: ErrorKindInvalidBlockData}) {
		t.Errorf("got %v, want InvalidBlockData", err)
	}
}

// storageBuffer declares a std430 buffer { uint count; vec4 data[]; }.
func storageBuffer(f *fixture, name string) (v, block uint32) {
	u32 := f.AddTypeInt(32, false)
	data := f.AddTypeRuntimeArray(f.vec4)
	f.AddDecorate(data, spirv.DecorationArrayStride, 16)
	block = f.AddTypeStruct(u32, data)
	f.AddDecorate(block, spirv.DecorationBlock)
	f.AddMemberName(block, 0, "count")
	f.AddMemberName(block, 1, "data")
	f.AddMemberDecorate(block, 0, spirv.DecorationOffset, 0)
	f.AddMemberDecorate(block, 1, spirv.DecorationOffset, 16)
	v = f.variable(spirv.StorageClassStorageBuffer, block, name)
	return v, block
}

func TestStorageBuffer(t *testing.T) {
	tests := []struct {
		name     string
		decorate func(f *fixture, v, block uint32)
		want     ResourceType
	}{
		{"writable", func(*fixture, uint32, uint32) {}, ResourceTypeUAV},
		{"readonly variable", func(f *fixture, v, _ uint32) {
			f.AddDecorate(v, spirv.DecorationNonWritable)
		}, ResourceTypeSRV},
		{"readonly member", func(f *fixture, _, block uint32) {
			f.AddMemberDecorate(block, 1, spirv.DecorationNonWritable)
		}, ResourceTypeSRV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			v, block := storageBuffer(f, "particles")
			f.bind(v, 0, 2)
			tt.decorate(f, v, block)

			m := f.load(t)
			b, _ := m.DescriptorBinding(0)
			if b.DescriptorType != DescriptorTypeStorageBuffer {
				t.Errorf("descriptor type = %s", b.DescriptorType)
			}
			if b.ResourceType != tt.want {
				t.Errorf("resource type = %s, want %s", b.ResourceType, tt.want)
			}

			want := []layoutRow{
				{"count", 0, 0, 4, 16},
				{"data", 16, 16, 0, 0},
			}
			if diff := cmp.Diff(want, flattenBlock("", &b.Block, nil)); diff != "" {
				t.Errorf("layout mismatch (-want +got):\n%s", diff)
			}
			data := b.Block.Members[1]
			if len(data.Array.Dims) != 0 || data.Array.Stride != 16 {
				t.Errorf("runtime array traits = %+v", data.Array)
			}
		})
	}
}

func TestUavCounters(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		for _, counter := range []string{"buf@count", "counter.var.buf"} {
			f := newFixture()
			buf, _ := storageBuffer(f, "buf")
			cnt, _ := storageBuffer(f, counter)
			f.bind(buf, 0, 0)
			f.bind(cnt, 0, 1)

			m := f.load(t)
			b, _ := m.DescriptorBinding(0)
			c := m.CounterBinding(b)
			if c == nil || c.Name != counter {
				t.Errorf("%s: counter = %+v", counter, c)
			}
			if cb, _ := m.DescriptorBinding(1); m.CounterBinding(cb) != nil {
				t.Errorf("%s: counter has its own counter", counter)
			}
		}
	})
	t.Run("by decoration", func(t *testing.T) {
		f := newFixture()
		buf, _ := storageBuffer(f, "buf")
		cnt, _ := storageBuffer(f, "hidden")
		f.bind(buf, 0, 0)
		f.bind(cnt, 0, 1)
		f.AddDecorateID(buf, spirv.DecorationHlslCounterBufferGOOGLE, cnt)

		m := f.load(t)
		b, _ := m.DescriptorBinding(0)
		if b.UavCounterID != cnt {
			t.Errorf("UavCounterID = %d, want %d", b.UavCounterID, cnt)
		}
		if c := m.CounterBinding(b); c == nil || c.SpirvID != cnt {
			t.Errorf("counter = %+v", c)
		}
	})
}

func TestDescriptorTypes(t *testing.T) {
	tests := []struct {
		name     string
		declare  func(f *fixture) uint32 // returns the pointee type
		wantType DescriptorType
		wantRes  ResourceType
		count    uint32
	}{
		{"storage image", func(f *fixture) uint32 {
			return f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 2, Format: spirv.ImageFormatRgba8})
		}, DescriptorTypeStorageImage, ResourceTypeUAV, 1},
		{"uniform texel buffer", func(f *fixture) uint32 {
			return f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.DimBuffer, Sampled: 1})
		}, DescriptorTypeUniformTexelBuffer, ResourceTypeSRV, 1},
		{"storage texel buffer", func(f *fixture) uint32 {
			return f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.DimBuffer, Sampled: 2, Format: spirv.ImageFormatR32f})
		}, DescriptorTypeStorageTexelBuffer, ResourceTypeUAV, 1},
		{"input attachment", func(f *fixture) uint32 {
			return f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.DimSubpassData, Sampled: 2})
		}, DescriptorTypeInputAttachment, ResourceTypeSRV, 1},
		{"combined image sampler", func(f *fixture) uint32 {
			img := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
			return f.AddTypeSampledImage(img)
		}, DescriptorTypeCombinedImageSampler, ResourceTypeSampler | ResourceTypeSRV, 1},
		{"acceleration structure", func(f *fixture) uint32 {
			return f.AddTypeAccelerationStructure()
		}, DescriptorTypeAccelerationStructureKHR, ResourceTypeSRV, 1},
		{"texture array", func(f *fixture) uint32 {
			img := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
			return f.AddTypeArray(img, f.uint32Constant(8))
		}, DescriptorTypeSampledImage, ResourceTypeSRV, 8},
		{"texture array of arrays", func(f *fixture) uint32 {
			img := f.AddTypeImage(spirv.ImageType{SampledType: f.f32, Dim: spirv.Dim2D, Sampled: 1})
			inner := f.AddTypeArray(img, f.uint32Constant(3))
			return f.AddTypeArray(inner, f.uint32Constant(2))
		}, DescriptorTypeSampledImage, ResourceTypeSRV, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			v := f.variable(spirv.StorageClassUniformConstant, tt.declare(f), "res")
			f.bind(v, 1, 5)
			f.AddDecorate(v, spirv.DecorationInputAttachmentIndex, 2)

			m := f.load(t)
			b, err := m.DescriptorBinding(0)
			if err != nil {
				t.Fatalf("DescriptorBinding: %v", err)
			}
			if b.DescriptorType != tt.wantType {
				t.Errorf("descriptor type = %s, want %s", b.DescriptorType, tt.wantType)
			}
			if b.ResourceType != tt.wantRes {
				t.Errorf("resource type = %s, want %s", b.ResourceType, tt.wantRes)
			}
			if b.Count != tt.count {
				t.Errorf("count = %d, want %d", b.Count, tt.count)
			}
			if b.Set != 1 || b.Binding != 5 || b.InputAttachmentIndex != 2 {
				t.Errorf("set %d binding %d attachment %d", b.Set, b.Binding, b.InputAttachmentIndex)
			}
		})
	}
}

func TestUndecoratedResourceIgnored(t *testing.T) {
	f := newFixture()
	smp := f.AddTypeSampler()
	f.variable(spirv.StorageClassUniformConstant, smp, "loose")
	half := f.variable(spirv.StorageClassUniformConstant, smp, "half")
	f.AddDecorate(half, spirv.DecorationBinding, 0)

	m := f.load(t)
	bindings, _ := m.DescriptorBindings("")
	if len(bindings) != 0 {
		t.Errorf("got %d bindings, want 0", len(bindings))
	}
}

func TestPushConstantBlocks(t *testing.T) {
	build := func(varName string) *fixture {
		f := newFixture()
		params := f.AddTypeStruct(f.f32, f.vec4)
		f.AddName(params, "Params")
		f.AddDecorate(params, spirv.DecorationBlock)
		f.AddMemberName(params, 0, "time")
		f.AddMemberName(params, 1, "tint")
		f.AddMemberDecorate(params, 0, spirv.DecorationOffset, 16)
		f.AddMemberDecorate(params, 1, spirv.DecorationOffset, 32)
		pc := f.variable(spirv.StorageClassPushConstant, params, varName)

		ptrF32 := f.AddTypePointer(spirv.StorageClassPushConstant, f.f32)
		idx := f.uint32Constant(0)
		main := f.function(func() {
			p := f.AddAccessChain(ptrF32, pc, idx)
			f.AddLoad(f.f32, p)
		})
		f.AddEntryPoint(spirv.ExecutionModelFragment, main, "main", nil)
		return f
	}

	t.Run("named variable", func(t *testing.T) {
		m := build("pc").load(t)
		blocks, err := m.PushConstantBlocks("main")
		if err != nil {
			t.Fatalf("PushConstantBlocks: %v", err)
		}
		if len(blocks) != 1 {
			t.Fatalf("got %d blocks", len(blocks))
		}
		pc := blocks[0]
		if pc.Name != "pc" || pc.Offset != 16 || pc.Size != 48 {
			t.Errorf("block %q offset %d size %d, want pc 16 48", pc.Name, pc.Offset, pc.Size)
		}
		want := []layoutRow{
			{"time", 16, 16, 4, 16},
			{"tint", 32, 32, 16, 16},
		}
		if diff := cmp.Diff(want, flattenBlock("", &pc, nil)); diff != "" {
			t.Errorf("layout mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]uint32{pc.SpirvID}, m.PushConstantIDs()); diff != "" {
			t.Errorf("push constant ids mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("unnamed variable", func(t *testing.T) {
		m := build("").load(t)
		blocks, _ := m.PushConstantBlocks("")
		if len(blocks) != 1 || blocks[0].Name != "Params" {
			t.Errorf("blocks = %+v, want one named Params", blocks)
		}
	})
}
