package spvreflect

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes reflection errors.
type ErrorKind uint8

const (
	// ErrorKindNoInput indicates an empty input buffer.
	ErrorKindNoInput ErrorKind = iota

	// ErrorKindInvalidCodeSize indicates a buffer that is not a whole number
	// of words or is shorter than the module header.
	ErrorKindInvalidCodeSize

	// ErrorKindInvalidMagic indicates the first word is not the SPIR-V magic number.
	ErrorKindInvalidMagic

	// ErrorKindUnexpectedEOF indicates an instruction or operand extends past
	// the end of the word stream.
	ErrorKindUnexpectedEOF

	// ErrorKindInvalidInstruction indicates an unknown opcode or a malformed
	// instruction.
	ErrorKindInvalidInstruction

	// ErrorKindInvalidIDReference indicates a reference to an id that no
	// instruction defines.
	ErrorKindInvalidIDReference

	// ErrorKindDuplicateID indicates two instructions defining the same result id.
	ErrorKindDuplicateID

	// ErrorKindInvalidString indicates a literal string that is unterminated
	// or not valid UTF-8.
	ErrorKindInvalidString

	// ErrorKindInvalidEntryPoint indicates a malformed OpEntryPoint.
	ErrorKindInvalidEntryPoint

	// ErrorKindInvalidBlockData indicates a block whose layout cannot be
	// derived from its decorations.
	ErrorKindInvalidBlockData

	// ErrorKindInvalidStorageClass indicates a variable or pointer with an
	// unexpected storage class.
	ErrorKindInvalidStorageClass

	// ErrorKindInvalidType indicates a resource type that has no descriptor type.
	ErrorKindInvalidType

	// ErrorKindSetSlotsExhausted indicates more distinct descriptor set
	// numbers than MaxDescriptorSets.
	ErrorKindSetSlotsExhausted

	// ErrorKindRangeExceeded indicates an index outside the reflected list.
	ErrorKindRangeExceeded

	// ErrorKindInvalidWordOffset indicates a recorded word offset that is
	// absent or outside the word stream.
	ErrorKindInvalidWordOffset

	// ErrorKindEntryPointNotFound indicates a lookup by an unknown entry point name.
	ErrorKindEntryPointNotFound
)

var errorKindNames = [...]string{
	ErrorKindNoInput:             "NoInput",
	ErrorKindInvalidCodeSize:     "InvalidCodeSize",
	ErrorKindInvalidMagic:        "InvalidMagic",
	ErrorKindUnexpectedEOF:       "UnexpectedEOF",
	ErrorKindInvalidInstruction:  "InvalidInstruction",
	ErrorKindInvalidIDReference:  "InvalidIDReference",
	ErrorKindDuplicateID:         "DuplicateID",
	ErrorKindInvalidString:       "InvalidString",
	ErrorKindInvalidEntryPoint:   "InvalidEntryPoint",
	ErrorKindInvalidBlockData:    "InvalidBlockData",
	ErrorKindInvalidStorageClass: "InvalidStorageClass",
	ErrorKindInvalidType:         "InvalidType",
	ErrorKindSetSlotsExhausted:   "SetSlotsExhausted",
	ErrorKindRangeExceeded:       "RangeExceeded",
	ErrorKindInvalidWordOffset:   "InvalidWordOffset",
	ErrorKindEntryPointNotFound:  "EntryPointNotFound",
}

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "Unknown"
}

// ErrorCategory groups error kinds by how a caller should react to them.
type ErrorCategory uint8

const (
	// CategoryMalformedInput errors abort a parse; no module is returned.
	CategoryMalformedInput ErrorCategory = iota

	// CategoryCapacity errors report a module exceeding a fixed limit.
	CategoryCapacity

	// CategoryMutationBounds errors abort a single mutation and leave the
	// module in its prior state.
	CategoryMutationBounds

	// CategoryLookup errors report a query for something that does not exist.
	CategoryLookup
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryMalformedInput:
		return "malformed input"
	case CategoryCapacity:
		return "capacity"
	case CategoryMutationBounds:
		return "mutation bounds"
	case CategoryLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Category returns the class of errors k belongs to.
func (k ErrorKind) Category() ErrorCategory {
	switch k {
	case ErrorKindSetSlotsExhausted:
		return CategoryCapacity
	case ErrorKindRangeExceeded, ErrorKindInvalidWordOffset:
		return CategoryMutationBounds
	case ErrorKindEntryPointNotFound:
		return CategoryLookup
	default:
		return CategoryMalformedInput
	}
}

// Error represents a reflection error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("spvreflect %s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, &Error{Kind: k}) matches regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a new reflection error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// rekind reports err as an error of kind, prefixing its message.
func rekind(kind ErrorKind, prefix string, err error) *Error {
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return errorf(kind, "%s: %s", prefix, msg)
}

// IsMalformedInput returns true if the error rejects the input module.
func (e *Error) IsMalformedInput() bool {
	return e.Kind.Category() == CategoryMalformedInput
}

// IsCapacity returns true if the error is ErrorKindSetSlotsExhausted.
func (e *Error) IsCapacity() bool {
	return e.Kind.Category() == CategoryCapacity
}

// IsMutationBounds returns true if a mutation was rejected before any write.
func (e *Error) IsMutationBounds() bool {
	return e.Kind.Category() == CategoryMutationBounds
}

// IsEntryPointNotFound returns true if the error is ErrorKindEntryPointNotFound.
func (e *Error) IsEntryPointNotFound() bool {
	return e.Kind == ErrorKindEntryPointNotFound
}
