package convert

import (
	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/typename"
)

// ConversionKind says how a value crosses the bridge at one parameter or
// return slot.
type ConversionKind string

const (
	// Unconverted passes the value through unchanged.
	Unconverted ConversionKind = "unconverted"
	// ToUniquePtr wraps a foreign return value in a unique-ownership
	// handle on the way into the bridge.
	ToUniquePtr ConversionKind = "to_unique_ptr"
	// FromUniquePtr unwraps a unique-ownership handle into a foreign
	// value on the way out of the bridge.
	FromUniquePtr ConversionKind = "from_unique_ptr"
)

// Conversion records what one parameter or return slot needs. Derived only
// from the slot's triviality record, never hand-authored.
type Conversion struct {
	Kind ConversionKind `json:"kind"`
	Type ast.Type       `json:"-"`
	// TypeText is the rendered slot type, carried for persistence.
	TypeText string `json:"type"`
}

func unconverted(t ast.Type) Conversion {
	return Conversion{Kind: Unconverted, Type: t, TypeText: ast.RenderType(t)}
}

func toUniquePtr(t ast.Type) Conversion {
	return Conversion{Kind: ToUniquePtr, Type: t, TypeText: ast.RenderType(t)}
}

func fromUniquePtr(t ast.Type) Conversion {
	return Conversion{Kind: FromUniquePtr, Type: t, TypeText: ast.RenderType(t)}
}

// WorkNeeded reports whether the secondary generator must synthesize glue
// for this slot.
func (c Conversion) WorkNeeded() bool {
	return c.Kind != Unconverted
}

// NeedKind discriminates extra-work items.
type NeedKind string

const (
	// NeedMakeUnique asks the secondary generator for a factory function
	// returning a unique-ownership handle.
	NeedMakeUnique NeedKind = "make_unique"
	// NeedByValueWrapper asks for a shim around a function that passes or
	// returns a non-trivial type by value.
	NeedByValueWrapper NeedKind = "by_value_wrapper"
)

// Need is one queued piece of work the syntax tree alone cannot express,
// deferred to the secondary glue-code generator. MakeUnique items carry
// Type and ArgTypes; ByValueWrapper items carry Name, Return and Params.
type Need struct {
	Kind NeedKind `json:"kind"`

	Type     typename.TypeName   `json:"type,omitempty"`
	ArgTypes []typename.TypeName `json:"arg_types,omitempty"`

	Name   string       `json:"name,omitempty"`
	Return *Conversion  `json:"return,omitempty"`
	Params []Conversion `json:"params,omitempty"`
}

func makeUniqueNeed(tn typename.TypeName, argTypes []typename.TypeName) Need {
	return Need{
		Kind:     NeedMakeUnique,
		Type:     tn,
		ArgTypes: argTypes,
	}
}

func byValueWrapperNeed(name string, ret *Conversion, params []Conversion) Need {
	return Need{
		Kind:   NeedByValueWrapper,
		Name:   name,
		Return: ret,
		Params: params,
	}
}
