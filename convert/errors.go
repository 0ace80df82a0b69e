package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking. Every conversion error is
// terminal: no partial output is produced.
var (
	// ErrNoContent means the input module had no body at all.
	ErrNoContent = errors.New("module has no content to convert")

	// ErrUnknownForeignItem means a foreign-linkage block contained an
	// item kind the rewrite rules do not recognize. Only function
	// declarations are understood.
	ErrUnknownForeignItem = errors.New("unrecognized item in foreign-linkage block")
)

// UnsafeTrivialError means a caller-requested plain-data type could not be
// proven trivially copyable.
type UnsafeTrivialError struct {
	TypeName string
	Cause    error
}

// Error implements the error interface.
func (e *UnsafeTrivialError) Error() string {
	return fmt.Sprintf("unsafe non-trivial type %s requested as plain data", e.TypeName)
}

// Unwrap returns the classifier's underlying error.
func (e *UnsafeTrivialError) Unwrap() error {
	return e.Cause
}
