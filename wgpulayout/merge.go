package wgpulayout

import (
	"maps"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Merge combines the bind group layouts of several pipeline stages.
// Entries sharing a group and binding number have their visibility
// flags ORed together; the first stage's entry wins otherwise. Entries
// are sorted by binding.
func Merge(stages ...map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, stage := range stages {
		for g, desc := range stage {
			existing, ok := merged[g]
			if !ok {
				merged[g] = wgpu.BindGroupLayoutDescriptor{
					Label:   desc.Label,
					Entries: slices.Clone(desc.Entries),
				}
				continue
			}
			for _, e := range desc.Entries {
				i := slices.IndexFunc(existing.Entries, func(x wgpu.BindGroupLayoutEntry) bool {
					return x.Binding == e.Binding
				})
				if i < 0 {
					existing.Entries = append(existing.Entries, e)
					continue
				}
				if !sameResource(existing.Entries[i], e) {
					logger.Warningf("group %d binding %d: stages disagree on the resource, keeping %s",
						g, e.Binding, existing.Label)
				}
				existing.Entries[i].Visibility |= e.Visibility
			}
			if !strings.Contains(existing.Label, desc.Label) {
				existing.Label += "+" + desc.Label
			}
			merged[g] = existing
		}
	}

	for g, desc := range merged {
		sortEntries(desc.Entries)
		merged[g] = desc
	}
	return merged
}

func sameResource(a, b wgpu.BindGroupLayoutEntry) bool {
	a.Visibility, b.Visibility = 0, 0
	return a == b
}

// Groups flattens layouts into a slice indexed by group number, as
// pipeline layout creation expects. Unused groups in between get an empty
// descriptor.
func Groups(layouts map[int]wgpu.BindGroupLayoutDescriptor) []wgpu.BindGroupLayoutDescriptor {
	if len(layouts) == 0 {
		return nil
	}
	groups := make([]wgpu.BindGroupLayoutDescriptor, slices.Max(slices.Collect(maps.Keys(layouts)))+1)
	for g, desc := range layouts {
		groups[g] = desc
	}
	return groups
}
