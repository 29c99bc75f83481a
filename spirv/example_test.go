package spirv_test

import (
	"fmt"

	"github.com/gogpu/spvreflect/spirv"
)

// ExampleModuleBuilder_minimal demonstrates creating a minimal SPIR-V module.
func ExampleModuleBuilder_minimal() {
	builder := spirv.NewModuleBuilder(spirv.Version1_3)
	builder.AddCapability(spirv.CapabilityShader)

	// Required for all modules
	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	binary := builder.Build()

	fmt.Printf("Generated SPIR-V module: %d bytes\n", len(binary))
	// Output: Generated SPIR-V module: 40 bytes
}

// ExampleParseHeader reads back the header of a built module.
func ExampleParseHeader() {
	builder := spirv.NewModuleBuilder(spirv.Version1_3)
	builder.AddCapability(spirv.CapabilityShader)
	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)

	voidType := builder.AddTypeVoid()
	floatType := builder.AddTypeFloat(32)
	vec4Type := builder.AddTypeVector(floatType, 4)
	builder.AddName(vec4Type, "vec4")

	words, err := spirv.BytesToWords(builder.Build())
	if err != nil {
		fmt.Println(err)
		return
	}
	h, _ := spirv.ParseHeader(words)

	fmt.Printf("void=%d float=%d vec4=%d\n", voidType, floatType, vec4Type)
	fmt.Printf("version %s, bound %d, vendor %d\n", h.Version, h.Bound, h.Vendor())
	// Output:
	// void=1 float=2 vec4=3
	// version 1.3, bound 4, vendor 28
}

// ExampleDecodeString shows the literal string packing used by OpName and
// OpEntryPoint.
func ExampleDecodeString() {
	words := spirv.EncodeString("main")
	s, n, err := spirv.DecodeString(words)
	fmt.Println(s, n, err)
	// Output: main 2 <nil>
}
