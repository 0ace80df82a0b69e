// Package trivial decides which aggregate types are safe to pass or return
// by value across the bridge.
//
// Classification runs in two sub-steps: ingest every declaration first,
// building a name-to-fields table, then resolve triviality on demand with
// memoized recursive lookup. Forward references and mutual containment
// resolve correctly regardless of declaration order.
package trivial

import (
	"fmt"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/typename"
)

// scalars are the primitive foreign types that are always safe to copy.
// Both the C spellings and the binding-generator aliases appear, since
// generated field types use either.
var scalars = map[string]bool{
	"bool": true, "char": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"f32": true, "f64": true,
	"usize": true, "isize": true,
	"c_char": true, "c_uchar": true, "c_schar": true,
	"c_short": true, "c_ushort": true,
	"c_int": true, "c_uint": true,
	"c_long": true, "c_ulong": true,
	"c_longlong": true, "c_ulonglong": true,
	"c_float": true, "c_double": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"size_t": true, "int": true, "float": true, "double": true,
}

type state uint8

const (
	stateUnknown state = iota
	stateResolving
	stateTrivial
	stateOpaque
)

// RequestError names a requested plain-data type that could not be proven
// trivially copyable.
type RequestError struct {
	TypeName typename.TypeName
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("type %s cannot be safely represented as plain data", e.TypeName)
}

// Checker classifies aggregate types as trivial or opaque.
type Checker struct {
	fields  map[string][]string
	results map[string]state
}

// NewChecker returns an empty checker.
func NewChecker() *Checker {
	return &Checker{
		fields:  make(map[string][]string),
		results: make(map[string]state),
	}
}

// IngestStruct records a struct declaration's field types for later
// resolution. Field types that are not plain named types (pointers,
// references) make the struct opaque.
func (c *Checker) IngestStruct(s *ast.StructDecl) {
	name := typename.New(s.Name).Name()
	fieldTypes := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		tn, ok := typename.FromType(f.Type)
		if !ok {
			// Pointer-typed field: the aggregate can never be copied
			// safely. Record an unresolvable sentinel.
			fieldTypes = append(fieldTypes, "*")
			continue
		}
		fieldTypes = append(fieldTypes, tn.Name())
	}
	c.fields[name] = fieldTypes
}

// IngestTrivial records a type that is trivial by construction, such as a
// dataless enum.
func (c *Checker) IngestTrivial(tn typename.TypeName) {
	c.results[tn.Name()] = stateTrivial
}

// IsTrivial reports whether the named type is safe to pass by value.
// Unknown types resolve opaque.
func (c *Checker) IsTrivial(tn typename.TypeName) bool {
	return c.resolve(tn.Name()) == stateTrivial
}

// SatisfyRequests confirms every requested type resolves trivial. It
// returns the first offending type's name otherwise, so the caller can
// fail the whole conversion before any rewriting starts.
func (c *Checker) SatisfyRequests(requests []typename.TypeName) error {
	for _, req := range requests {
		if c.resolve(req.Name()) != stateTrivial {
			return &RequestError{TypeName: req}
		}
	}
	return nil
}

func (c *Checker) resolve(name string) state {
	if s, ok := c.results[name]; ok && s != stateUnknown {
		if s == stateResolving {
			// Self-referential containment can never be by-value.
			return stateOpaque
		}
		return s
	}
	if scalars[name] {
		c.results[name] = stateTrivial
		return stateTrivial
	}
	fieldTypes, ok := c.fields[name]
	if !ok {
		c.results[name] = stateOpaque
		return stateOpaque
	}
	c.results[name] = stateResolving
	result := stateTrivial
	for _, ft := range fieldTypes {
		if ft == "*" || c.resolve(ft) != stateTrivial {
			result = stateOpaque
			break
		}
	}
	c.results[name] = result
	return result
}
