package action

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the action package.
var (
	// ErrNotFound is returned when a name is not bound in a registry.
	ErrNotFound = errors.New("action not found")

	// ErrNotImplemented is returned by Base.Execute; a handler that reaches it
	// was declared without behavior.
	ErrNotImplemented = errors.New("action: execute not implemented")

	// ErrInvalidDeclaration is returned when a registry cannot be built.
	ErrInvalidDeclaration = errors.New("invalid action declaration")

	// ErrReservedName refines ErrInvalidDeclaration for declarations that try
	// to define a lifecycle action.
	ErrReservedName = errors.New("reserved lifecycle action name")

	// ErrUnrecognizedKind refines ErrInvalidDeclaration for values that no
	// coercion rule accepts.
	ErrUnrecognizedKind = errors.New("unrecognized declaration kind")
)

// NotFoundError reports a lookup miss together with close registered names.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("action %s not found", e.Name)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DeclarationError reports which declaration aborted registry construction.
type DeclarationError struct {
	Name string
	Err  error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrInvalidDeclaration, e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidDeclaration) hold for every cause.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclaration
}
