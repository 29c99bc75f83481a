// Package spvreflect provides pure Go reflection of SPIR-V shader modules.
//
// Load parses a SPIR-V binary and reports what a graphics API needs to
// build pipeline layouts: entry points, input and output interface
// variables, descriptor bindings grouped into descriptor sets, push
// constant blocks with their byte layout, and a description of every type.
//
//	module, err := spvreflect.Load(code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sets, _ := module.DescriptorSets("main")
//	for _, set := range sets {
//	    for _, i := range set.Bindings {
//	        b, _ := module.DescriptorBinding(i)
//	        fmt.Println(set.Set, b.Binding, b.Name, b.DescriptorType)
//	    }
//	}
//
// Queries taking an entry point name return the module-wide view for ""
// and only what that entry point statically uses otherwise. An unknown
// name is an ErrorKindEntryPointNotFound error.
//
// # Patching
//
// The module keeps the word stream it was parsed from. The Change*
// methods rewrite binding, set and location decorations in place, so
// Code returns a valid module with the new numbers:
//
//	err := module.ChangeDescriptorBindingNumbers(0, 30, 1)
//	patched := module.Bytes()
//
// A failed change leaves the module as it was.
//
// # Errors
//
// All errors are *Error values. Kind.Category separates malformed input,
// capacity limits, rejected mutations and failed lookups.
package spvreflect
