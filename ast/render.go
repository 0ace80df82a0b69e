package ast

import (
	"fmt"
	"strings"
)

// Render produces a stable textual form of a module, used for diffs, golden
// comparisons and CLI output. The syntax is declarative, not compilable.
func Render(m Module) string {
	var b strings.Builder
	renderModule(&b, m, nil, "")
	return b.String()
}

// RenderItems renders a converter output item list.
func RenderItems(items []Item) string {
	var b strings.Builder
	for _, it := range items {
		renderItem(&b, it, "")
	}
	return b.String()
}

func renderModule(b *strings.Builder, m Module, attrs []Attr, indent string) {
	renderAttrs(b, attrs, indent)
	if m.Doc != "" {
		fmt.Fprintf(b, "%s// %s\n", indent, m.Doc)
	}
	fmt.Fprintf(b, "%smod %s {\n", indent, m.Name)
	for _, it := range m.Items {
		renderItem(b, it, indent+"    ")
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func renderItem(b *strings.Builder, it Item, indent string) {
	switch v := it.(type) {
	case *ForeignBlock:
		fmt.Fprintf(b, "%sextern %q {\n", indent, v.ABI)
		for _, fi := range v.Items {
			renderForeignItem(b, fi, indent+"    ")
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case *StructDecl:
		renderAttrs(b, v.Attrs, indent)
		if len(v.Fields) == 0 {
			fmt.Fprintf(b, "%sstruct %s;\n", indent, v.Name)
			return
		}
		fmt.Fprintf(b, "%sstruct %s {\n", indent, v.Name)
		for _, f := range v.Fields {
			fmt.Fprintf(b, "%s    %s: %s,\n", indent, f.Name, RenderType(f.Type))
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case *EnumDecl:
		renderAttrs(b, v.Attrs, indent)
		fmt.Fprintf(b, "%senum %s { %s }\n", indent, v.Name, strings.Join(v.Variants, ", "))
	case *ImplBlock:
		kw := "impl"
		if v.Unsafe {
			kw = "unsafe impl"
		}
		fmt.Fprintf(b, "%s%s %s {\n", indent, kw, RenderType(v.SelfType))
		for _, m := range v.Methods {
			renderMethod(b, m, indent+"    ")
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case *ModuleDecl:
		renderModule(b, v.Mod, v.Attrs, indent)
	case *Verbatim:
		fmt.Fprintf(b, "%s%s\n", indent, v.Text)
	case *ExternTypeAssert:
		fmt.Fprintf(b, "%sextern_type!(%s = %q, %s);\n", indent, v.Ident, v.CppName, v.Kind)
	case *UniquePtrStub:
		fmt.Fprintf(b, "%simpl UniquePtr<%s> {}\n", indent, v.Ident)
	}
}

func renderForeignItem(b *strings.Builder, it ForeignItem, indent string) {
	switch v := it.(type) {
	case *ForeignFn:
		renderAttrs(b, v.Attrs, indent)
		fmt.Fprintf(b, "%s%s;\n", indent, RenderSig(v.Sig))
	case *Include:
		fmt.Fprintf(b, "%sinclude!(%q);\n", indent, v.Path)
	case *TypeAlias:
		fmt.Fprintf(b, "%stype %s = %s; // %s\n", indent, v.Ident, v.Target, v.Kind)
	case *RawForeign:
		fmt.Fprintf(b, "%s%s\n", indent, v.Text)
	}
}

func renderMethod(b *strings.Builder, m Method, indent string) {
	if m.Body == "" {
		fmt.Fprintf(b, "%s%s;\n", indent, RenderSig(m.Sig))
		return
	}
	fmt.Fprintf(b, "%s%s { %s }\n", indent, RenderSig(m.Sig), m.Body)
}

// RenderSig renders a function signature.
func RenderSig(s FnSig) string {
	var b strings.Builder
	if s.Unsafe {
		b.WriteString("unsafe ")
	}
	b.WriteString("fn ")
	b.WriteString(s.Name)
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", p.Name, RenderType(p.Type))
	}
	b.WriteString(")")
	if s.Return != nil {
		b.WriteString(" -> ")
		b.WriteString(RenderType(s.Return))
	}
	return b.String()
}

// RenderType renders a type expression.
func RenderType(t Type) string {
	switch v := t.(type) {
	case nil:
		return "()"
	case *NamedType:
		if len(v.GenericArgs) == 0 {
			return v.Name
		}
		args := make([]string, len(v.GenericArgs))
		for i, a := range v.GenericArgs {
			args[i] = RenderType(a)
		}
		return fmt.Sprintf("%s<%s>", v.Name, strings.Join(args, ", "))
	case *PointerType:
		if v.Const {
			return "*const " + RenderType(v.Elem)
		}
		return "*mut " + RenderType(v.Elem)
	case *ReferenceType:
		if v.Mutable {
			return "&mut " + RenderType(v.Elem)
		}
		return "&" + RenderType(v.Elem)
	default:
		return fmt.Sprintf("<?%T>", t)
	}
}

func renderAttrs(b *strings.Builder, attrs []Attr, indent string) {
	for _, a := range attrs {
		if a.Value == "" {
			fmt.Fprintf(b, "%s#[%s]\n", indent, a.Name)
			continue
		}
		fmt.Fprintf(b, "%s#[%s = %q]\n", indent, a.Name, a.Value)
	}
}
