package spvreflect

import (
	"slices"
	"strconv"

	"github.com/gogpu/spvreflect/spirv"
)

// parseEntryPoints decodes every OpEntryPoint and its interface variables.
func (p *parser) parseEntryPoints(types []TypeDescription) ([]EntryPoint, error) {
	entryPoints := make([]EntryPoint, 0, p.entryPointCount)
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.op != spirv.OpEntryPoint {
			continue
		}
		var model, funcID uint32
		if err := p.operands(n, 1, &model, &funcID); err != nil {
			return nil, rekind(ErrorKindInvalidEntryPoint, "entry point", err)
		}
		// the interface ids start after the padded, null-terminated name
		name, nameWords, err := p.stringAt(n, 3)
		if err != nil {
			return nil, rekind(ErrorKindInvalidEntryPoint, "entry point", err)
		}

		ep := EntryPoint{
			Name:           name,
			ID:             funcID,
			ExecutionModel: spirv.ExecutionModel(model),
			ShaderStage:    ShaderStageOf(spirv.ExecutionModel(model)),
			LocalSize:      p.localSize[funcID],
		}
		first := n.wordOffset + 3 + nameWords
		for _, id := range p.words[first : n.wordOffset+n.wordCount] {
			vn := p.lookup(id)
			if vn == nil {
				return nil, errorf(ErrorKindInvalidIDReference, "entry point %q: interface %%%d is not defined", name, id)
			}
			if vn.op != spirv.OpVariable {
				return nil, errorf(ErrorKindInvalidEntryPoint, "entry point %q: interface %%%d is a %s, not a variable",
					name, id, vn.op)
			}
			switch vn.storageClass {
			case spirv.StorageClassInput, spirv.StorageClassOutput:
			default:
				// SPIR-V 1.4 lists every global the entry point uses.
				continue
			}
			v, err := p.parseInterfaceVariable(vn, types)
			if err != nil {
				return nil, err
			}
			if vn.storageClass == spirv.StorageClassInput {
				ep.InputVariables = append(ep.InputVariables, v)
			} else {
				ep.OutputVariables = append(ep.OutputVariables, v)
			}
		}
		entryPoints = append(entryPoints, ep)
	}
	return entryPoints, nil
}

func (p *parser) parseInterfaceVariable(vn *node, types []TypeDescription) (InterfaceVariable, error) {
	td, err := p.variableType(vn, types)
	if err != nil {
		return InterfaceVariable{}, err
	}
	v := InterfaceVariable{
		SpirvID:        vn.resultID,
		Name:           vn.name,
		Location:       vn.decorations.location.value,
		LocationOffset: vn.decorations.location.wordOffset,
		StorageClass:   vn.storageClass,
		Semantic:       vn.decorations.semantic,
	}
	if err := p.fillInterfaceVariable(&v, &vn.decorations, td); err != nil {
		return InterfaceVariable{}, err
	}
	return v, nil
}

// fillInterfaceVariable copies type traits into v and recurses into struct
// members, whose names and locations come from the struct's member
// decorations. A struct containing built-in members is itself marked
// built-in.
func (p *parser) fillInterfaceVariable(v *InterfaceVariable, dec *decorations, td *TypeDescription) error {
	v.DecorationFlags = dec.flags()
	v.BuiltIn = dec.builtIn
	v.Numeric = td.Traits.Numeric
	v.Array = cloneArray(td.Traits.Array)
	v.Format = formatOf(td)
	v.TypeDescription = td
	if td.TypeFlags&TypeFlagStruct == 0 || len(td.Members) == 0 {
		return nil
	}

	sn, err := p.structNode(td.ID)
	if err != nil {
		return err
	}
	v.Members = make([]InterfaceVariable, len(td.Members))
	for i := range td.Members {
		md := &sn.memberDecorations[i]
		m := &v.Members[i]
		m.SpirvID = td.Members[i].ID
		m.Name = sn.memberNames[i]
		m.Location = md.location.value
		m.LocationOffset = md.location.wordOffset
		m.StorageClass = v.StorageClass
		m.Semantic = md.semantic
		if err := p.fillInterfaceVariable(m, md, &td.Members[i]); err != nil {
			return err
		}
		if m.IsBuiltIn() {
			v.DecorationFlags |= DecorationBuiltIn
		}
	}
	return nil
}

// formatOf returns the attribute format of a scalar or vector type.
func formatOf(td *TypeDescription) Format {
	if td.TypeFlags&TypeFlagStruct != 0 || td.TypeFlags&(TypeFlagInt|TypeFlagFloat) == 0 {
		return FormatUndefined
	}
	components := uint32(1)
	if td.TypeFlags&TypeFlagVector != 0 {
		components = td.Traits.Numeric.Vector.ComponentCount
	}
	scalar := td.Traits.Numeric.Scalar
	return FormatOf(scalar.Width, components, scalar.Signedness != 0, td.TypeFlags&TypeFlagFloat != 0)
}

// parseStaticUse fills each entry point's used uniform and push constant
// ids. uniformIDs and pushConstantIDs must be sorted.
func (p *parser) parseStaticUse(entryPoints []EntryPoint, uniformIDs, pushConstantIDs []uint32, mode StaticUseMode) error {
	if mode == StaticUseConservative && len(entryPoints) == 1 {
		entryPoints[0].UsedUniforms = slices.Clone(uniformIDs)
		entryPoints[0].UsedPushConstants = slices.Clone(pushConstantIDs)
		return nil
	}
	for i := range entryPoints {
		ep := &entryPoints[i]
		accessed, err := p.reachableAccesses(ep.ID)
		if err != nil {
			return rekind(ErrorKindInvalidIDReference, "entry point "+strconv.Quote(ep.Name), err)
		}
		ep.UsedUniforms = intersectSorted(uniformIDs, accessed)
		ep.UsedPushConstants = intersectSorted(pushConstantIDs, accessed)
	}
	return nil
}

// reachableAccesses returns the sorted ids referenced by the function and
// everything it calls.
func (p *parser) reachableAccesses(entry uint32) ([]uint32, error) {
	visited := make(map[uint32]bool)
	stack := []uint32{entry}
	var accessed []uint32
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		fi, ok := p.funcIndex[id]
		if !ok {
			return nil, errorf(ErrorKindInvalidIDReference, "function %%%d is not defined", id)
		}
		fn := &p.functions[fi]
		accessed = append(accessed, fn.accessed...)
		stack = append(stack, fn.callees...)
	}
	slices.Sort(accessed)
	return slices.Compact(accessed), nil
}

// intersectSorted returns the elements present in both sorted slices.
func intersectSorted(a, b []uint32) []uint32 {
	var out []uint32
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func containsSorted(s []uint32, v uint32) bool {
	_, found := slices.BinarySearch(s, v)
	return found
}
