package spvreflect

// StaticUseMode selects how the resources used by each entry point are found.
type StaticUseMode uint8

const (
	// StaticUseReachable walks the call graph from each entry function and
	// marks the resources its instructions reference.
	StaticUseReachable StaticUseMode = iota

	// StaticUseConservative marks every resource used when the module has a
	// single entry point, and falls back to StaticUseReachable otherwise.
	StaticUseConservative
)

func (m StaticUseMode) String() string {
	switch m {
	case StaticUseReachable:
		return "reachable"
	case StaticUseConservative:
		return "conservative"
	default:
		return "unknown"
	}
}

// Options configures module loading.
type Options struct {
	// StaticUse selects the per-entry-point resource usage analysis
	StaticUse StaticUseMode

	// CopyCode copies the caller's words instead of retaining them.
	// Mutations write into the retained buffer.
	CopyCode bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		StaticUse: StaticUseReachable,
		CopyCode:  true,
	}
}
