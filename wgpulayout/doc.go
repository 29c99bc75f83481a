// Package wgpulayout derives WebGPU pipeline layout descriptors from
// reflected SPIR-V modules.
//
// A render pipeline typically reflects each stage and merges the result:
//
//	vs, _ := wgpulayout.BindGroupLayouts(vertexModule, "main")
//	fs, _ := wgpulayout.BindGroupLayouts(fragmentModule, "main")
//	groups := wgpulayout.Groups(wgpulayout.Merge(vs, fs))
//	buffer, _ := wgpulayout.VertexBufferLayout(vertexModule, "main")
//
// Each element of groups feeds Device.CreateBindGroupLayout; buffer is the
// single interleaved vertex buffer the vertex stage reads.
package wgpulayout
