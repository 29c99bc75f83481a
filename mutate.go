package spvreflect

import "github.com/gogpu/spvreflect/spirv"

const (
	// KeepBinding leaves the binding number unchanged.
	KeepBinding = InvalidValue

	// KeepSet leaves the set number unchanged.
	KeepSet = InvalidValue
)

// checkWordOffset reports whether offset addresses an instruction word of
// the retained stream.
func (m *Module) checkWordOffset(offset int, what string) error {
	if offset < spirv.HeaderWords || offset >= len(m.code) {
		return errorf(ErrorKindInvalidWordOffset, "%s: word offset %d outside [%d, %d)",
			what, offset, spirv.HeaderWords, len(m.code))
	}
	return nil
}

// ChangeDescriptorBindingNumbers rewrites the binding and set numbers of
// the binding at index. Pass KeepBinding or KeepSet to leave a number
// unchanged. Descriptor sets are regrouped when the set changes; if that
// fails the module is left as it was.
func (m *Module) ChangeDescriptorBindingNumbers(index int, binding, set uint32) error {
	b, err := m.DescriptorBinding(index)
	if err != nil {
		return err
	}
	changeBinding := binding != KeepBinding && binding != b.Binding
	changeSet := set != KeepSet && set != b.Set
	if changeBinding {
		if err := m.checkWordOffset(b.WordOffset.Binding, "binding "+b.Name); err != nil {
			return err
		}
	}
	if changeSet {
		if err := m.checkWordOffset(b.WordOffset.Set, "binding "+b.Name); err != nil {
			return err
		}
	}
	if !changeBinding && !changeSet {
		return nil
	}

	oldBinding, oldSet := b.Binding, b.Set
	if changeBinding {
		m.code[b.WordOffset.Binding] = binding
		b.Binding = binding
	}
	if changeSet {
		m.code[b.WordOffset.Set] = set
		b.Set = set
		if err := m.synchronizeSets(); err != nil {
			if changeBinding {
				m.code[b.WordOffset.Binding] = oldBinding
			}
			m.code[b.WordOffset.Set] = oldSet
			b.Binding, b.Set = oldBinding, oldSet
			return err
		}
	}
	logger.Debugf("binding %d (%s): binding %d -> %d, set %d -> %d",
		index, b.Name, oldBinding, b.Binding, oldSet, b.Set)
	return nil
}

// ChangeDescriptorSetNumber moves every binding of the descriptor set at
// setIndex, in DescriptorSets("") order, to set number set. Moving onto
// an existing set number merges the two sets.
func (m *Module) ChangeDescriptorSetNumber(setIndex int, set uint32) error {
	if setIndex < 0 || setIndex >= len(m.sets) {
		return errorf(ErrorKindRangeExceeded, "set index %d, module has %d sets", setIndex, len(m.sets))
	}
	old := m.sets[setIndex].Set
	if set == KeepSet || set == old {
		return nil
	}
	members := append([]int(nil), m.sets[setIndex].Bindings...)
	for _, bi := range members {
		b := &m.bindings[bi]
		if err := m.checkWordOffset(b.WordOffset.Set, "binding "+b.Name); err != nil {
			return err
		}
	}

	for _, bi := range members {
		b := &m.bindings[bi]
		m.code[b.WordOffset.Set] = set
		b.Set = set
	}
	if err := m.synchronizeSets(); err != nil {
		for _, bi := range members {
			b := &m.bindings[bi]
			m.code[b.WordOffset.Set] = old
			b.Set = old
		}
		return err
	}
	logger.Debugf("set %d -> %d (%d bindings)", old, set, len(members))
	return nil
}

// ChangeInputVariableLocation rewrites the Location decoration of input
// variable index of the named entry point, or of the first entry point
// when entryPoint is empty.
func (m *Module) ChangeInputVariableLocation(entryPoint string, index int, location uint32) error {
	return m.changeLocation(entryPoint, index, location, spirv.StorageClassInput)
}

// ChangeOutputVariableLocation rewrites the Location decoration of output
// variable index of the named entry point, or of the first entry point
// when entryPoint is empty.
func (m *Module) ChangeOutputVariableLocation(entryPoint string, index int, location uint32) error {
	return m.changeLocation(entryPoint, index, location, spirv.StorageClassOutput)
}

func (m *Module) changeLocation(entryPoint string, index int, location uint32, sc spirv.StorageClass) error {
	ep, err := m.entryPointOrPrimary(entryPoint)
	if err != nil {
		return err
	}
	var vars []InterfaceVariable
	if ep != nil {
		vars = ep.InputVariables
		if sc == spirv.StorageClassOutput {
			vars = ep.OutputVariables
		}
	}
	if index < 0 || index >= len(vars) {
		return errorf(ErrorKindRangeExceeded, "%s variable index %d, entry point has %d", sc, index, len(vars))
	}
	v := &vars[index]
	if err := m.checkWordOffset(v.LocationOffset, "variable "+v.Name); err != nil {
		return err
	}

	old := v.Location
	m.code[v.LocationOffset] = location
	// An interface variable may be listed by several entry points.
	for i := range m.entryPoints {
		other := m.entryPoints[i].InputVariables
		if sc == spirv.StorageClassOutput {
			other = m.entryPoints[i].OutputVariables
		}
		for j := range other {
			if other[j].SpirvID == v.SpirvID {
				other[j].Location = location
			}
		}
	}
	logger.Debugf("%s %s (%%%d): location %d -> %d", sc, v.Name, v.SpirvID, old, location)
	return nil
}
