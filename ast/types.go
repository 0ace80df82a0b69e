package ast

// Type is implemented by every type expression kind.
type Type interface {
	typ()
}

// NamedType references a type by name, optionally with generic arguments
// (e.g. UniquePtr<Widget>).
type NamedType struct {
	Name        string
	GenericArgs []Type
}

// PointerType is a raw foreign pointer. Const pointers convert to immutable
// references, non-const pointers to mutable ones.
type PointerType struct {
	Elem  Type
	Const bool
}

// ReferenceType is a bridge-safe reference.
type ReferenceType struct {
	Elem    Type
	Mutable bool
}

func (*NamedType) typ()     {}
func (*PointerType) typ()   {}
func (*ReferenceType) typ() {}

// CloneType returns a deep copy of t.
func CloneType(t Type) Type {
	switch v := t.(type) {
	case nil:
		return nil
	case *NamedType:
		args := make([]Type, len(v.GenericArgs))
		for i, a := range v.GenericArgs {
			args[i] = CloneType(a)
		}
		if len(args) == 0 {
			args = nil
		}
		return &NamedType{Name: v.Name, GenericArgs: args}
	case *PointerType:
		return &PointerType{Elem: CloneType(v.Elem), Const: v.Const}
	case *ReferenceType:
		return &ReferenceType{Elem: CloneType(v.Elem), Mutable: v.Mutable}
	default:
		return t
	}
}
