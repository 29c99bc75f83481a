package spvreflect

import "slices"

// synthesizeSets groups bindings by set number. Sets are ordered by number;
// bindings within a set keep declaration order.
func synthesizeSets(bindings []DescriptorBinding) ([]DescriptorSet, error) {
	var slots [MaxDescriptorSets]uint32
	used := 0
	for i := range bindings {
		set := bindings[i].Set
		if slices.Contains(slots[:used], set) {
			continue
		}
		if used == len(slots) {
			return nil, errorf(ErrorKindSetSlotsExhausted, "binding %q uses set %d, but %d sets are already in use",
				bindings[i].Name, set, MaxDescriptorSets)
		}
		slots[used] = set
		used++
	}
	numbers := slots[:used]
	slices.Sort(numbers)

	sets := make([]DescriptorSet, used)
	for k, set := range numbers {
		sets[k].Set = set
		for i := range bindings {
			if bindings[i].Set == set {
				sets[k].Bindings = append(sets[k].Bindings, i)
			}
		}
	}
	return sets, nil
}

// usedSets filters sets down to the bindings ep statically uses, dropping
// sets left empty.
func usedSets(sets []DescriptorSet, bindings []DescriptorBinding, ep *EntryPoint) []DescriptorSet {
	var out []DescriptorSet
	for _, s := range sets {
		var used []int
		for _, bi := range s.Bindings {
			if ep.usesUniform(bindings[bi].SpirvID) {
				used = append(used, bi)
			}
		}
		if len(used) > 0 {
			out = append(out, DescriptorSet{Set: s.Set, Bindings: used})
		}
	}
	return out
}

// synchronizeSets re-derives the module and per-entry-point set views from
// the current bindings. On error the previous views are kept.
func (m *Module) synchronizeSets() error {
	sets, err := synthesizeSets(m.bindings)
	if err != nil {
		return err
	}
	m.sets = sets
	for i := range m.entryPoints {
		ep := &m.entryPoints[i]
		ep.DescriptorSets = usedSets(sets, m.bindings, ep)
	}
	return nil
}
