package instantiate

import (
	"errors"
	"fmt"
)

var (
	ErrTypeResolution    = errors.New("type not registered")
	ErrInstantiation     = errors.New("instantiation failed")
	ErrConversion        = errors.New("conversion failed")
	ErrMemberNotFound    = errors.New("member not found")
	ErrParameterMismatch = errors.New("parameter mismatch")
	ErrDuplicateType     = errors.New("type already registered")
	ErrRegistryFrozen    = errors.New("registry frozen")
	ErrInvalidDescriptor = errors.New("invalid type descriptor")
)

// TypeResolutionError is returned when a type name has no descriptor.
type TypeResolutionError struct {
	TypeName string
}

func (e *TypeResolutionError) Error() string {
	return fmt.Sprintf("type %q not registered", e.TypeName)
}

func (e *TypeResolutionError) Is(target error) bool { return target == ErrTypeResolution }

// InstantiationError reports a failure to build an instance or to drive a
// member or behavior on it. Member is empty for constructor failures.
type InstantiationError struct {
	TypeName string
	Member   string
	Err      error
}

func (e *InstantiationError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("failed to create object of type %q: member %q: %v", e.TypeName, e.Member, e.Err)
	}
	return fmt.Sprintf("failed to create object of type %q: %v", e.TypeName, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }

// ConversionError is returned when a string cannot be parsed as Target.
type ConversionError struct {
	Value  string
	Target Type
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Target, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Target)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// MemberNotFoundError is returned when a key matches neither a member nor a
// behavior of the type.
type MemberNotFoundError struct {
	Key      string
	TypeName string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("member %q not found for type %q", e.Key, e.TypeName)
}

func (e *MemberNotFoundError) Is(target error) bool { return target == ErrMemberNotFound }

// ParameterMismatchError is returned when a behavior value does not assign
// a declared parameter, or assigns one twice.
type ParameterMismatchError struct {
	TypeName  string
	Behavior  string
	Parameter string
	Duplicate bool
}

func (e *ParameterMismatchError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("parameter mismatch: %s.%s assigns %q more than once", e.TypeName, e.Behavior, e.Parameter)
	}
	return fmt.Sprintf("parameter mismatch: %s.%s requires %q", e.TypeName, e.Behavior, e.Parameter)
}

func (e *ParameterMismatchError) Is(target error) bool { return target == ErrParameterMismatch }
