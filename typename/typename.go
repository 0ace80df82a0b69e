// Package typename provides the canonical identifier for a foreign type.
//
// A TypeName is an immutable value with equality and hashing by canonical
// name, so it can key maps directly. It renders two ways: the bridge-side
// identifier and the original foreign-language spelling.
package typename

import (
	"encoding/json"
	"strings"

	"github.com/termfx/bridgec/ast"
)

// knownTypes maps non-canonical binding spellings to the canonical bridge
// identifiers the strict bridge understands natively.
var knownTypes = map[string]string{
	"std_unique_ptr": "UniquePtr",
	"std_string":     "CxxString",
}

// cppNames maps canonical bridge identifiers back to their foreign
// spellings. Types absent here spell the same on both sides.
var cppNames = map[string]string{
	"UniquePtr": "std::unique_ptr",
	"CxxString": "std::string",
}

// TypeName is the canonical, hashable name of a foreign type.
type TypeName struct {
	name string
}

// New builds a TypeName, canonicalizing known binding spellings such as
// std_string.
func New(name string) TypeName {
	if canonical, ok := knownTypes[name]; ok {
		return TypeName{name: canonical}
	}
	return TypeName{name: name}
}

// FromType extracts the TypeName of the outermost named type. It reports
// false for pointer or reference types, which have no single name.
func FromType(t ast.Type) (TypeName, bool) {
	named, ok := t.(*ast.NamedType)
	if !ok {
		return TypeName{}, false
	}
	return New(named.Name), true
}

// Name returns the canonical name.
func (t TypeName) Name() string {
	return t.name
}

// Ident returns the bridge-side identifier.
func (t TypeName) Ident() string {
	return t.name
}

// CppName returns the original foreign-language spelling.
func (t TypeName) CppName() string {
	if cpp, ok := cppNames[t.name]; ok {
		return cpp
	}
	return t.name
}

// Prefixes reports whether this type's name, followed by an underscore,
// prefixes fnName, returning the remaining method suffix. Binding
// generators encode methods as {class}_{method}; the suffix becomes the
// bridge-facing method identifier. When two discovered types prefix the
// same function name (Foo and FooBar), the caller's discovery order
// decides: first match wins.
func (t TypeName) Prefixes(fnName string) (string, bool) {
	prefix := t.name + "_"
	if !strings.HasPrefix(fnName, prefix) {
		return "", false
	}
	suffix := strings.TrimPrefix(fnName, prefix)
	if suffix == "" {
		return "", false
	}
	return suffix, true
}

// String implements fmt.Stringer.
func (t TypeName) String() string {
	return t.name
}

// MarshalJSON encodes the canonical name as a JSON string.
func (t TypeName) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.name)
}

// UnmarshalJSON decodes and canonicalizes a JSON string.
func (t *TypeName) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*t = New(name)
	return nil
}
