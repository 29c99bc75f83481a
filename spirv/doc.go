// Package spirv provides the SPIR-V vocabulary shared by the reflection
// packages: opcode, decoration, storage class, built-in, image and execution
// model enumerants with their assembly names, word and literal-string
// helpers, a small disassembler, and a binary assembler.
//
// # Binary Writer
//
// ModuleBuilder constructs SPIR-V modules programmatically. It is used to
// build reflection test fixtures and by tooling that needs small modules:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//
//	words := builder.Words()
//
// # SPIR-V Structure
//
// SPIR-V modules consist of:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities (required features)
//   - Extensions (optional extensions)
//   - Extended instruction imports (GLSL.std.450, etc.)
//   - Memory model (addressing and memory model)
//   - Entry points (shader entry functions)
//   - Execution modes (shader configuration)
//   - Debug information (strings, source, names)
//   - Annotations (decorations)
//   - Types and constants
//   - Global variables
//   - Functions (code)
//
// Every instruction starts with a word holding its word count in the high
// 16 bits and its opcode in the low 16 bits.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
