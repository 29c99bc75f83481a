package spvreflect

import "github.com/gogpu/spvreflect/spirv"

// parseTypes resolves a description for every type declaration, in
// declaration order.
func (p *parser) parseTypes() ([]TypeDescription, error) {
	types := make([]TypeDescription, 0, p.typeCount)
	for i := range p.nodes {
		n := &p.nodes[i]
		if !n.isType {
			continue
		}
		td := newTypeDescription()
		if err := p.resolveType(n, nil, &td); err != nil {
			return nil, err
		}
		types = append(types, td)
	}
	return types, nil
}

// resolveType merges the type declared by n into td. member holds the
// decorations of the struct member being resolved, if any.
//
// Vectors, matrices, arrays, sampled images and pointers resolve their
// inner type into the same td, so the outermost call fixes id and op and
// inner calls only add flags and traits.
func (p *parser) resolveType(n *node, member *decorations, td *TypeDescription) error {
	if p.visiting[n.resultID] {
		return errorf(ErrorKindInvalidIDReference, "type %%%d contains itself", n.resultID)
	}
	p.visiting[n.resultID] = true
	defer delete(p.visiting, n.resultID)

	if td.ID == InvalidValue {
		td.ID = n.resultID
		td.Op = n.op
		td.DecorationFlags = 0
	}
	td.DecorationFlags |= n.decorations.flags()
	if member != nil {
		td.DecorationFlags |= member.flags()
	}

	switch n.op {
	case spirv.OpTypeVoid:
		td.TypeFlags |= TypeFlagVoid

	case spirv.OpTypeBool:
		td.TypeFlags |= TypeFlagBool

	case spirv.OpTypeInt:
		td.TypeFlags |= TypeFlagInt
		scalar := &td.Traits.Numeric.Scalar
		if err := p.operands(n, 2, &scalar.Width, &scalar.Signedness); err != nil {
			return err
		}

	case spirv.OpTypeFloat:
		td.TypeFlags |= TypeFlagFloat
		if err := p.operands(n, 2, &td.Traits.Numeric.Scalar.Width); err != nil {
			return err
		}

	case spirv.OpTypeVector:
		td.TypeFlags |= TypeFlagVector
		if err := p.operands(n, 3, &td.Traits.Numeric.Vector.ComponentCount); err != nil {
			return err
		}
		if err := p.resolveInner(n.typeID, nil, td); err != nil {
			return err
		}

	case spirv.OpTypeMatrix:
		td.TypeFlags |= TypeFlagMatrix
		matrix := &td.Traits.Numeric.Matrix
		if err := p.operands(n, 3, &matrix.ColumnCount); err != nil {
			return err
		}
		if err := p.resolveInner(n.typeID, nil, td); err != nil {
			return err
		}
		matrix.RowCount = td.Traits.Numeric.Vector.ComponentCount
		if member != nil && member.matrixStride != 0 {
			matrix.Stride = member.matrixStride
		} else if n.decorations.matrixStride != 0 {
			matrix.Stride = n.decorations.matrixStride
		}

	case spirv.OpTypeImage:
		td.TypeFlags |= TypeFlagExternalImage
		td.Traits.Image = n.image
		// The sampled type's flags and scalar traits are merged in.
		if err := p.resolveInner(n.sampledTypeID, nil, td); err != nil {
			return err
		}

	case spirv.OpTypeSampler:
		td.TypeFlags |= TypeFlagExternalSampler

	case spirv.OpTypeSampledImage:
		td.TypeFlags |= TypeFlagExternalSampledImage
		if err := p.resolveInner(n.imageTypeID, nil, td); err != nil {
			return err
		}

	case spirv.OpTypeArray:
		td.TypeFlags |= TypeFlagArray
		length, err := p.arrayLength(n)
		if err != nil {
			return err
		}
		td.Traits.Array.Dims = append(td.Traits.Array.Dims, length)
		td.Traits.Array.Stride = n.decorations.arrayStride
		if err := p.resolveInner(n.elementTypeID, member, td); err != nil {
			return err
		}

	case spirv.OpTypeRuntimeArray:
		td.TypeFlags |= TypeFlagArray
		td.Traits.Array.Stride = n.decorations.arrayStride
		if err := p.resolveInner(n.elementTypeID, member, td); err != nil {
			return err
		}

	case spirv.OpTypeStruct:
		td.TypeFlags |= TypeFlagStruct | TypeFlagExternalBlock
		memberIDs := p.words[n.wordOffset+2 : n.wordOffset+n.wordCount]
		for i, id := range memberIDs {
			mn, err := p.typeNode(id)
			if err != nil {
				return err
			}
			mtd := newTypeDescription()
			if err := p.resolveType(mn, &n.memberDecorations[i], &mtd); err != nil {
				return err
			}
			mtd.StructMemberName = n.memberNames[i]
			td.Members = append(td.Members, mtd)
		}

	case spirv.OpTypePointer:
		td.StorageClass = n.storageClass
		// Buffer-reference pointees may be forward-declared or refer back
		// to the enclosing struct.
		if n.storageClass == spirv.StorageClassPhysicalStorageBuffer {
			break
		}
		if err := p.resolveInner(n.typeID, nil, td); err != nil {
			return err
		}

	case spirv.OpTypeAccelerationStructure:
		td.TypeFlags |= TypeFlagExternalAccelerationStructure
	}

	if n.name != "" {
		td.TypeName = n.name
	}
	return nil
}

func (p *parser) resolveInner(id uint32, member *decorations, td *TypeDescription) error {
	inner, err := p.typeNode(id)
	if err != nil {
		return err
	}
	return p.resolveType(inner, member, td)
}

// arrayLength reads the literal value of an array's length constant.
// Lengths computed by OpSpecConstantOp have no literal and report 0.
func (p *parser) arrayLength(n *node) (uint32, error) {
	ln := p.lookup(n.lengthID)
	if ln == nil {
		return 0, errorf(ErrorKindInvalidIDReference, "array %%%d: length %%%d is not defined", n.resultID, n.lengthID)
	}
	switch ln.op {
	case spirv.OpConstant, spirv.OpSpecConstant:
		return p.word(ln, 3)
	case spirv.OpSpecConstantOp:
		return 0, nil
	default:
		return 0, errorf(ErrorKindInvalidIDReference, "array %%%d: length %%%d is a %s, not a constant",
			n.resultID, n.lengthID, ln.op)
	}
}

// structNode returns the struct declaration behind id, looking through
// array types.
func (p *parser) structNode(id uint32) (*node, error) {
	n, err := p.typeNode(id)
	if err != nil {
		return nil, err
	}
	for n.op == spirv.OpTypeArray || n.op == spirv.OpTypeRuntimeArray {
		if n, err = p.typeNode(n.elementTypeID); err != nil {
			return nil, err
		}
	}
	if n.op != spirv.OpTypeStruct {
		return nil, errorf(ErrorKindInvalidBlockData, "%%%d is a %s, not a struct", id, n.op)
	}
	return n, nil
}

func findType(types []TypeDescription, id uint32) *TypeDescription {
	for i := range types {
		if types[i].ID == id {
			return &types[i]
		}
	}
	return nil
}
