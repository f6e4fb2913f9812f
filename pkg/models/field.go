package models

// State tells whether a field carries a usable value.
type State int

const (
	// Absent means the source never offered the column.
	Absent State = iota
	// Invalid means the column existed but the row's value failed to parse.
	Invalid
	// Valid means the value parsed.
	Valid
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Field is a typed value or an explicit absent/invalid marker.
type Field[T any] struct {
	State State
	value T
}

// ValidField wraps a parsed value.
func ValidField[T any](v T) Field[T] {
	return Field[T]{State: Valid, value: v}
}

// InvalidField marks a value that was present but could not be parsed.
func InvalidField[T any]() Field[T] {
	return Field[T]{State: Invalid}
}

// AbsentField marks a value whose column was never offered.
func AbsentField[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is valid.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.State == Valid
}

func (f Field[T]) IsValid() bool {
	return f.State == Valid
}
