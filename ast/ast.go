// Package ast defines the syntax tree for machine-generated C/C++ binding
// modules: the shape emitted by automatic header-to-source binding generators
// (flat functions behind a foreign-linkage block, raw pointers, opaque or
// plain-old-data structs) and the stricter bridge shape the converter
// produces from it.
package ast

// Module is a top-level container of binding items.
type Module struct {
	Name  string `json:"name"`
	Doc   string `json:"doc,omitempty"`
	Items []Item `json:"items"`
}

// Item is implemented by every top-level module item kind.
type Item interface {
	item()
}

// ForeignBlock groups declarations implemented outside the module's own
// language, with a fixed calling convention.
type ForeignBlock struct {
	ABI   string        `json:"abi"`
	Items []ForeignItem `json:"items"`
}

// StructDecl declares an aggregate type. An opaque struct in converter
// output has a nil field list: the type becomes a marker only.
type StructDecl struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields,omitempty"`
	Attrs  []Attr  `json:"attrs,omitempty"`
}

// Field is a single named struct field.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// EnumDecl declares a dataless enumeration. Enums are always safe to copy
// by value.
type EnumDecl struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants,omitempty"`
	Attrs    []Attr   `json:"attrs,omitempty"`
}

// ImplBlock attaches methods to a self type.
type ImplBlock struct {
	SelfType Type     `json:"self_type"`
	Unsafe   bool     `json:"unsafe,omitempty"`
	Methods  []Method `json:"methods"`
}

// Method is a function with an optional verbatim body. Declarations inside
// foreign blocks never carry bodies; rewritten factory methods do.
type Method struct {
	Sig  FnSig  `json:"sig"`
	Body string `json:"body,omitempty"`
}

// ModuleDecl nests a module as an item. Converter output holds exactly two:
// the reclassified input module followed by the strict-bridge module.
type ModuleDecl struct {
	Mod   Module `json:"mod"`
	Attrs []Attr `json:"attrs,omitempty"`
}

// Verbatim is an item the converter passes through untouched.
type Verbatim struct {
	Text string `json:"text"`
}

// TypeKind tags a crossing type as safe to copy by value or as
// reference-only.
type TypeKind string

const (
	KindTrivial TypeKind = "Trivial"
	KindOpaque  TypeKind = "Opaque"
)

// ExternTypeAssert links a reclassified type to its stable cross-language
// identity: the foreign spelling plus the triviality tag.
type ExternTypeAssert struct {
	Ident   string   `json:"ident"`
	CppName string   `json:"cpp_name"`
	Kind    TypeKind `json:"type_kind"`
}

// UniquePtrStub is the placeholder ownership capability emitted for every
// declared type so downstream generated owning handles compile.
type UniquePtrStub struct {
	Ident string `json:"ident"`
}

func (*ForeignBlock) item()     {}
func (*StructDecl) item()       {}
func (*EnumDecl) item()         {}
func (*ImplBlock) item()        {}
func (*ModuleDecl) item()       {}
func (*Verbatim) item()         {}
func (*ExternTypeAssert) item() {}
func (*UniquePtrStub) item()    {}

// ForeignItem is implemented by every foreign-linkage block member kind.
type ForeignItem interface {
	foreignItem()
}

// ForeignFn declares a function implemented behind the block's ABI.
type ForeignFn struct {
	Sig   FnSig  `json:"sig"`
	Attrs []Attr `json:"attrs,omitempty"`
}

// Include renders as an inclusion directive inside a foreign block.
type Include struct {
	Path string `json:"path"`
}

// TypeAlias binds a bridge-side type name to the reclassified module's
// declaration of the same type.
type TypeAlias struct {
	Ident  string   `json:"ident"`
	Target string   `json:"target"`
	Kind   TypeKind `json:"type_kind"`
}

// RawForeign is a foreign-linkage member the rewrite rules do not
// understand. Conversion rejects any block containing one.
type RawForeign struct {
	Text string `json:"text"`
}

func (*ForeignFn) foreignItem()  {}
func (*Include) foreignItem()    {}
func (*TypeAlias) foreignItem()  {}
func (*RawForeign) foreignItem() {}

// FnSig is a function signature. Return is nil for functions that return
// nothing.
type FnSig struct {
	Name   string  `json:"name"`
	Params []Param `json:"params,omitempty"`
	Return Type    `json:"return,omitempty"`
	Unsafe bool    `json:"unsafe,omitempty"`
}

// Param is a single function parameter. IsSelf marks the receiver after the
// converter normalizes the conventional "this" name; callers never set it.
type Param struct {
	Name   string `json:"name"`
	Type   Type   `json:"type"`
	IsSelf bool   `json:"is_self,omitempty"`
}
