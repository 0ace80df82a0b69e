package ast

import (
	"encoding/json"
	"fmt"
)

// Item and type variants encode as kind-discriminated envelopes so that
// modules round-trip through the CLI and the staging store.

type itemEnvelope struct {
	Kind string          `json:"kind"`
	Node json.RawMessage `json:"node"`
}

const (
	kindForeignBlock  = "foreign_block"
	kindStruct        = "struct"
	kindEnum          = "enum"
	kindImpl          = "impl"
	kindModule        = "module"
	kindVerbatim      = "verbatim"
	kindExternType    = "extern_type"
	kindUniquePtrStub = "unique_ptr_stub"

	kindForeignFn  = "fn"
	kindInclude    = "include"
	kindTypeAlias  = "type_alias"
	kindRawForeign = "raw"
)

func marshalItem(it Item) (json.RawMessage, error) {
	var kind string
	switch it.(type) {
	case *ForeignBlock:
		kind = kindForeignBlock
	case *StructDecl:
		kind = kindStruct
	case *EnumDecl:
		kind = kindEnum
	case *ImplBlock:
		kind = kindImpl
	case *ModuleDecl:
		kind = kindModule
	case *Verbatim:
		kind = kindVerbatim
	case *ExternTypeAssert:
		kind = kindExternType
	case *UniquePtrStub:
		kind = kindUniquePtrStub
	default:
		return nil, fmt.Errorf("unknown item kind %T", it)
	}
	node, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemEnvelope{Kind: kind, Node: node})
}

func unmarshalItem(data json.RawMessage) (Item, error) {
	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var it Item
	switch env.Kind {
	case kindForeignBlock:
		it = &ForeignBlock{}
	case kindStruct:
		it = &StructDecl{}
	case kindEnum:
		it = &EnumDecl{}
	case kindImpl:
		it = &ImplBlock{}
	case kindModule:
		it = &ModuleDecl{}
	case kindVerbatim:
		it = &Verbatim{}
	case kindExternType:
		it = &ExternTypeAssert{}
	case kindUniquePtrStub:
		it = &UniquePtrStub{}
	default:
		return nil, fmt.Errorf("unknown item kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Node, it); err != nil {
		return nil, err
	}
	return it, nil
}

func marshalForeignItem(it ForeignItem) (json.RawMessage, error) {
	var kind string
	switch it.(type) {
	case *ForeignFn:
		kind = kindForeignFn
	case *Include:
		kind = kindInclude
	case *TypeAlias:
		kind = kindTypeAlias
	case *RawForeign:
		kind = kindRawForeign
	default:
		return nil, fmt.Errorf("unknown foreign item kind %T", it)
	}
	node, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemEnvelope{Kind: kind, Node: node})
}

func unmarshalForeignItem(data json.RawMessage) (ForeignItem, error) {
	var env itemEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	var it ForeignItem
	switch env.Kind {
	case kindForeignFn:
		it = &ForeignFn{}
	case kindInclude:
		it = &Include{}
	case kindTypeAlias:
		it = &TypeAlias{}
	case kindRawForeign:
		it = &RawForeign{}
	default:
		return nil, fmt.Errorf("unknown foreign item kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Node, it); err != nil {
		return nil, err
	}
	return it, nil
}

// MarshalItems encodes an item list as a JSON array of kind-discriminated
// envelopes.
func MarshalItems(items []Item) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		raw, err := marshalItem(it)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

// UnmarshalItems decodes an item list produced by MarshalItems.
func UnmarshalItems(data []byte) ([]Item, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	var items []Item
	for _, raw := range raws {
		it, err := unmarshalItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

type typeJSON struct {
	Kind    string      `json:"kind"`
	Name    string      `json:"name,omitempty"`
	Args    []*typeJSON `json:"args,omitempty"`
	Elem    *typeJSON   `json:"elem,omitempty"`
	Const   bool        `json:"const,omitempty"`
	Mutable bool        `json:"mutable,omitempty"`
}

func typeToJSON(t Type) *typeJSON {
	switch v := t.(type) {
	case nil:
		return nil
	case *NamedType:
		var args []*typeJSON
		for _, a := range v.GenericArgs {
			args = append(args, typeToJSON(a))
		}
		return &typeJSON{Kind: "named", Name: v.Name, Args: args}
	case *PointerType:
		return &typeJSON{Kind: "pointer", Elem: typeToJSON(v.Elem), Const: v.Const}
	case *ReferenceType:
		return &typeJSON{Kind: "reference", Elem: typeToJSON(v.Elem), Mutable: v.Mutable}
	default:
		return nil
	}
}

func typeFromJSON(j *typeJSON) (Type, error) {
	if j == nil {
		return nil, nil
	}
	switch j.Kind {
	case "named":
		var args []Type
		for _, a := range j.Args {
			t, err := typeFromJSON(a)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		return &NamedType{Name: j.Name, GenericArgs: args}, nil
	case "pointer":
		elem, err := typeFromJSON(j.Elem)
		if err != nil {
			return nil, err
		}
		return &PointerType{Elem: elem, Const: j.Const}, nil
	case "reference":
		elem, err := typeFromJSON(j.Elem)
		if err != nil {
			return nil, err
		}
		return &ReferenceType{Elem: elem, Mutable: j.Mutable}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", j.Kind)
	}
}

// MarshalJSON implements json.Marshaler.
func (m Module) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(m.Items))
	for _, it := range m.Items {
		raw, err := marshalItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return json.Marshal(struct {
		Name  string            `json:"name"`
		Doc   string            `json:"doc,omitempty"`
		Items []json.RawMessage `json:"items"`
	}{m.Name, m.Doc, items})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Module) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string            `json:"name"`
		Doc   string            `json:"doc"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Name = raw.Name
	m.Doc = raw.Doc
	m.Items = nil
	for _, r := range raw.Items {
		it, err := unmarshalItem(r)
		if err != nil {
			return err
		}
		m.Items = append(m.Items, it)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b ForeignBlock) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(b.Items))
	for _, it := range b.Items {
		raw, err := marshalForeignItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return json.Marshal(struct {
		ABI   string            `json:"abi"`
		Items []json.RawMessage `json:"items"`
	}{b.ABI, items})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *ForeignBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		ABI   string            `json:"abi"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ABI = raw.ABI
	b.Items = nil
	for _, r := range raw.Items {
		it, err := unmarshalForeignItem(r)
		if err != nil {
			return err
		}
		b.Items = append(b.Items, it)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string    `json:"name"`
		Type *typeJSON `json:"type"`
	}{f.Name, typeToJSON(f.Type)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string    `json:"name"`
		Type *typeJSON `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := typeFromJSON(raw.Type)
	if err != nil {
		return err
	}
	f.Name = raw.Name
	f.Type = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string    `json:"name"`
		Type   *typeJSON `json:"type"`
		IsSelf bool      `json:"is_self,omitempty"`
	}{p.Name, typeToJSON(p.Type), p.IsSelf})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Param) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string    `json:"name"`
		Type   *typeJSON `json:"type"`
		IsSelf bool      `json:"is_self"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := typeFromJSON(raw.Type)
	if err != nil {
		return err
	}
	p.Name = raw.Name
	p.Type = t
	p.IsSelf = raw.IsSelf
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s FnSig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string    `json:"name"`
		Params []Param   `json:"params,omitempty"`
		Return *typeJSON `json:"return,omitempty"`
		Unsafe bool      `json:"unsafe,omitempty"`
	}{s.Name, s.Params, typeToJSON(s.Return), s.Unsafe})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *FnSig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string    `json:"name"`
		Params []Param   `json:"params"`
		Return *typeJSON `json:"return"`
		Unsafe bool      `json:"unsafe"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ret, err := typeFromJSON(raw.Return)
	if err != nil {
		return err
	}
	s.Name = raw.Name
	s.Params = raw.Params
	s.Return = ret
	s.Unsafe = raw.Unsafe
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b ImplBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SelfType *typeJSON `json:"self_type"`
		Unsafe   bool      `json:"unsafe,omitempty"`
		Methods  []Method  `json:"methods"`
	}{typeToJSON(b.SelfType), b.Unsafe, b.Methods})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *ImplBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		SelfType *typeJSON `json:"self_type"`
		Unsafe   bool      `json:"unsafe"`
		Methods  []Method  `json:"methods"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := typeFromJSON(raw.SelfType)
	if err != nil {
		return err
	}
	b.SelfType = t
	b.Unsafe = raw.Unsafe
	b.Methods = raw.Methods
	return nil
}
