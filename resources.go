package spvreflect

import (
	"cmp"
	"slices"

	"github.com/gogpu/spvreflect/spirv"
)

// blockAlignment is the alignment the last member of a block is padded to.
const blockAlignment = 16

// variableType returns the description of the type a variable points to.
func (p *parser) variableType(n *node, types []TypeDescription) (*TypeDescription, error) {
	ptr, err := p.typeNode(n.typeID)
	if err != nil {
		return nil, err
	}
	if ptr.op != spirv.OpTypePointer {
		return nil, errorf(ErrorKindInvalidType, "variable %%%d has type %s, want OpTypePointer", n.resultID, ptr.op)
	}
	if ptr.storageClass != n.storageClass {
		return nil, errorf(ErrorKindInvalidStorageClass, "variable %%%d is %s but its pointer type is %s",
			n.resultID, n.storageClass, ptr.storageClass)
	}
	pointee, err := p.typeNode(ptr.typeID)
	if err != nil {
		return nil, err
	}
	td := findType(types, pointee.resultID)
	if td == nil {
		return nil, errorf(ErrorKindInvalidIDReference, "no description for type %%%d", pointee.resultID)
	}
	return td, nil
}

// parseDescriptorBindings builds a binding for every UniformConstant,
// Uniform and StorageBuffer variable carrying both a Binding and a
// DescriptorSet decoration.
func (p *parser) parseDescriptorBindings(types []TypeDescription) ([]DescriptorBinding, error) {
	var bindings []DescriptorBinding
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.op != spirv.OpVariable {
			continue
		}
		switch n.storageClass {
		case spirv.StorageClassUniformConstant, spirv.StorageClassUniform, spirv.StorageClassStorageBuffer:
		default:
			continue
		}
		dec := &n.decorations
		if !dec.binding.present() || !dec.set.present() {
			continue
		}

		td, err := p.variableType(n, types)
		if err != nil {
			return nil, err
		}
		b := DescriptorBinding{
			SpirvID:              n.resultID,
			Name:                 n.name,
			Binding:              dec.binding.value,
			InputAttachmentIndex: dec.inputAttachmentIndex.value,
			Set:                  dec.set.value,
			Image:                td.Traits.Image,
			Count:                1,
			UavCounterID:         dec.uavCounterBuffer.value,
			UavCounterBinding:    -1,
			TypeDescription:      td,
			WordOffset: WordOffsets{
				Binding: dec.binding.wordOffset,
				Set:     dec.set.wordOffset,
			},
		}
		if td.TypeFlags&TypeFlagArray != 0 {
			b.Array = cloneArray(td.Traits.Array)
			b.Count = b.Array.ElementCount()
		}

		dt, derr := descriptorTypeOf(td, n.storageClass)
		if derr != nil {
			return nil, errorf(derr.Kind, "binding %q: %s", n.name, derr.Message)
		}
		b.DescriptorType = dt
		b.ResourceType = resourceTypeOf(dt)

		if b.DescriptorType == DescriptorTypeUniformBuffer || b.DescriptorType == DescriptorTypeStorageBuffer {
			if err := p.parseBlock(&b.Block, b.SpirvID, b.Name, td); err != nil {
				return nil, err
			}
		}
		if b.DescriptorType == DescriptorTypeStorageBuffer && (dec.isNonWritable || isReadOnly(td)) {
			b.ResourceType = ResourceTypeSRV
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// descriptorTypeOf classifies a resource type by its external flags.
func descriptorTypeOf(td *TypeDescription, sc spirv.StorageClass) (DescriptorType, *Error) {
	switch td.TypeFlags & TypeFlagExternalMask {
	case TypeFlagExternalBlock:
		switch {
		case td.DecorationFlags&DecorationBlock != 0:
			if sc == spirv.StorageClassStorageBuffer {
				return DescriptorTypeStorageBuffer, nil
			}
			return DescriptorTypeUniformBuffer, nil
		case td.DecorationFlags&DecorationBufferBlock != 0:
			return DescriptorTypeStorageBuffer, nil
		}
		return 0, errorf(ErrorKindInvalidBlockData, "struct %%%d is neither Block nor BufferBlock", td.ID)

	case TypeFlagExternalSampledImage | TypeFlagExternalImage:
		return DescriptorTypeCombinedImageSampler, nil

	case TypeFlagExternalImage:
		img := td.Traits.Image
		switch img.Dim {
		case spirv.Dim1D, spirv.Dim2D, spirv.Dim3D, spirv.DimCube, spirv.DimRect:
			switch img.Sampled {
			case 1:
				return DescriptorTypeSampledImage, nil
			case 2:
				return DescriptorTypeStorageImage, nil
			}
		case spirv.DimBuffer:
			switch img.Sampled {
			case 1:
				return DescriptorTypeUniformTexelBuffer, nil
			case 2:
				return DescriptorTypeStorageTexelBuffer, nil
			}
		case spirv.DimSubpassData:
			return DescriptorTypeInputAttachment, nil
		}
		return 0, errorf(ErrorKindInvalidType, "image %%%d: dim %s with sampled=%d has no descriptor type",
			td.ID, img.Dim, img.Sampled)

	case TypeFlagExternalSampler:
		return DescriptorTypeSampler, nil

	case TypeFlagExternalAccelerationStructure:
		return DescriptorTypeAccelerationStructureKHR, nil
	}
	return 0, errorf(ErrorKindInvalidType, "type %%%d (%s) is not a descriptor resource", td.ID, td.TypeFlags)
}

// resourceTypeOf maps a descriptor type to its D3D register class.
// Storage buffers start as UAV and are demoted to SRV when read-only.
func resourceTypeOf(dt DescriptorType) ResourceType {
	switch dt {
	case DescriptorTypeSampler:
		return ResourceTypeSampler
	case DescriptorTypeCombinedImageSampler:
		return ResourceTypeSampler | ResourceTypeSRV
	case DescriptorTypeSampledImage, DescriptorTypeUniformTexelBuffer,
		DescriptorTypeInputAttachment, DescriptorTypeAccelerationStructureKHR:
		return ResourceTypeSRV
	case DescriptorTypeStorageImage, DescriptorTypeStorageTexelBuffer,
		DescriptorTypeStorageBuffer, DescriptorTypeStorageBufferDynamic:
		return ResourceTypeUAV
	case DescriptorTypeUniformBuffer, DescriptorTypeUniformBufferDynamic:
		return ResourceTypeCBV
	}
	return ResourceTypeUndefined
}

// isReadOnly reports whether td or any member at any depth is NonWritable.
func isReadOnly(td *TypeDescription) bool {
	if td.DecorationFlags&DecorationNonWritable != 0 {
		return true
	}
	for i := range td.Members {
		if isReadOnly(&td.Members[i]) {
			return true
		}
	}
	return false
}

// linkCounters points every storage buffer at its UAV counter, found by
// counter-buffer decoration or by the DXC names <name>@count and
// counter.var.<name>.
func linkCounters(bindings []DescriptorBinding) {
	for i := range bindings {
		b := &bindings[i]
		if b.DescriptorType != DescriptorTypeStorageBuffer {
			continue
		}
		if b.UavCounterID != InvalidValue {
			b.UavCounterBinding = slices.IndexFunc(bindings, func(c DescriptorBinding) bool {
				return c.SpirvID == b.UavCounterID
			})
			continue
		}
		if b.Name == "" {
			continue
		}
		for j := range bindings {
			if j == i {
				continue
			}
			name := bindings[j].Name
			if name == b.Name+"@count" || name == "counter.var."+b.Name {
				b.UavCounterBinding = j
				break
			}
		}
	}
}

// parsePushConstantBlocks lays out every PushConstant variable. A block is
// named after its variable, or its type when the variable is unnamed.
func (p *parser) parsePushConstantBlocks(types []TypeDescription) ([]BlockVariable, error) {
	var blocks []BlockVariable
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.op != spirv.OpVariable || n.storageClass != spirv.StorageClassPushConstant {
			continue
		}
		td, err := p.variableType(n, types)
		if err != nil {
			return nil, err
		}
		if td.TypeFlags&TypeFlagStruct == 0 {
			return nil, errorf(ErrorKindInvalidBlockData, "push constant %%%d is not a struct", n.resultID)
		}
		name := n.name
		if name == "" {
			name = td.TypeName
		}
		var block BlockVariable
		if err := p.parseBlock(&block, n.resultID, name, td); err != nil {
			return nil, err
		}
		if len(block.Members) > 0 {
			block.Offset = block.Members[0].Offset
			for _, m := range block.Members[1:] {
				block.Offset = min(block.Offset, m.Offset)
			}
			block.AbsoluteOffset = block.Offset
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// parseBlock lays out the root block variable of a buffer.
func (p *parser) parseBlock(block *BlockVariable, id uint32, name string, td *TypeDescription) error {
	block.SpirvID = id
	block.Name = name
	block.DecorationFlags = td.DecorationFlags
	block.TypeDescription = td
	if err := p.parseBlockMembers(block, td); err != nil {
		return err
	}
	blockSizes(block, false)
	absoluteOffsets(block, 0)
	return nil
}

// parseBlockMembers fills v's members from the struct behind td, reading
// names, offsets and flags from the struct's member decorations.
func (p *parser) parseBlockMembers(v *BlockVariable, td *TypeDescription) error {
	if len(td.Members) == 0 {
		return nil
	}
	sn, err := p.structNode(td.ID)
	if err != nil {
		return err
	}
	v.Members = make([]BlockVariable, len(td.Members))
	for i := range td.Members {
		mt := &td.Members[i]
		md := &sn.memberDecorations[i]
		if !md.offset.present() {
			return errorf(ErrorKindInvalidBlockData, "member %d (%q) of %%%d has no Offset decoration",
				i, sn.memberNames[i], sn.resultID)
		}
		mv := &v.Members[i]
		mv.SpirvID = mt.ID
		mv.Name = sn.memberNames[i]
		mv.Offset = md.offset.value
		mv.DecorationFlags = md.flags()
		mv.Numeric = mt.Traits.Numeric
		mv.Array = cloneArray(mt.Traits.Array)
		mv.TypeDescription = mt
		if mt.TypeFlags&TypeFlagStruct != 0 {
			if err := p.parseBlockMembers(mv, mt); err != nil {
				return err
			}
		}
	}
	return nil
}

// blockSizes computes member sizes and padded sizes bottom-up. Inside a
// runtime array the padded size of a member equals its size.
func blockSizes(v *BlockVariable, inRuntimeArray bool) {
	if len(v.Members) == 0 {
		return
	}
	for i := range v.Members {
		m := &v.Members[i]
		t := m.TypeDescription
		if t.TypeFlags&TypeFlagStruct != 0 {
			blockSizes(m, inRuntimeArray || t.Op == spirv.OpTypeRuntimeArray)
		}

		switch t.Op {
		case spirv.OpTypeBool:
			m.Size = 4
		case spirv.OpTypeInt, spirv.OpTypeFloat:
			m.Size = m.Numeric.Scalar.Width / 8
		case spirv.OpTypeVector:
			m.Size = m.Numeric.Vector.ComponentCount * m.Numeric.Scalar.Width / 8
		case spirv.OpTypeMatrix:
			m.Size = matrixSize(m.Numeric.Matrix, m.DecorationFlags)
		case spirv.OpTypeArray:
			m.Size = m.Array.ElementCount() * m.Array.Stride
		case spirv.OpTypeRuntimeArray:
			m.Size = 0
		case spirv.OpTypePointer:
			// buffer reference, a 64-bit device address
			m.Size = 8
		}
	}

	// Members may be declared in any offset order; each is padded up to
	// the next higher offset.
	order := make([]int, len(v.Members))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(v.Members[a].Offset, v.Members[b].Offset)
	})

	v.Size = 0
	for k, i := range order {
		m := &v.Members[i]
		if k+1 < len(order) {
			m.PaddedSize = v.Members[order[k+1]].Offset - m.Offset
		} else {
			m.PaddedSize = roundUp(m.Offset+m.Size, blockAlignment) - m.Offset
		}
		m.Size = min(m.Size, m.PaddedSize)
		if inRuntimeArray {
			m.PaddedSize = m.Size
		}
		v.Size = max(v.Size, m.Offset+m.PaddedSize)
	}
	v.PaddedSize = v.Size
}

// matrixSize is the byte size of a matrix; column-major unless decorated
// RowMajor.
func matrixSize(m MatrixTraits, flags DecorationFlags) uint32 {
	if flags&DecorationRowMajor != 0 {
		return m.RowCount * m.Stride
	}
	return m.ColumnCount * m.Stride
}

// absoluteOffsets accumulates member offsets from the root block. Members
// of an array of structs report the position within its first element.
func absoluteOffsets(v *BlockVariable, base uint32) {
	for i := range v.Members {
		m := &v.Members[i]
		m.AbsoluteOffset = base + m.Offset
		absoluteOffsets(m, m.AbsoluteOffset)
	}
}

func roundUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}

func cloneArray(a ArrayTraits) ArrayTraits {
	return ArrayTraits{Dims: slices.Clone(a.Dims), Stride: a.Stride}
}
