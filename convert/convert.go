// Package convert rewrites machine-generated C/C++ binding modules into a
// strict-bridge form.
//
// Conversion runs in two phases. Phase one classifies every declared
// aggregate as trivially copyable or opaque and confirms any caller
// requests; it must succeed before any rewriting starts. Phase two is a
// single linear pass over the module body, dispatching per item kind:
// pointers become references, class-prefixed foreign functions become
// methods, constructors become unique-handle factories, and anything the
// tree alone cannot express is queued for the secondary glue generator.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/trivial"
	"github.com/termfx/bridgec/typename"
)

// Result holds a completed conversion: the reclassified module and the
// strict-bridge module (in that order, at the tail of Items, after any
// passthrough items and extern-type assertions), plus the extra-work queue
// for the secondary generator.
type Result struct {
	Items []ast.Item
	Needs []Need
	Diff  string
}

// Converter rewrites binding modules. One Converter may run any number of
// conversions; each Convert call is independent and synchronous.
type Converter struct {
	includeList     []string
	trivialRequests []typename.TypeName
}

// New builds a Converter. includeList names the foreign headers rendered as
// inclusion directives; trivialRequests are type names the caller insists
// must be plain data.
func New(includeList []string, trivialRequests []typename.TypeName) *Converter {
	return &Converter{
		includeList:     includeList,
		trivialRequests: trivialRequests,
	}
}

// Convert consumes mod and produces the reclassified and strict-bridge
// modules. extraInclude optionally appends one more inclusion directive
// after the configured list; renames maps original foreign function names
// to desired bridge identifiers. On error no output is produced.
func (c *Converter) Convert(mod ast.Module, extraInclude string, renames map[string]string) (*Result, error) {
	if len(mod.Items) == 0 {
		return nil, ErrNoContent
	}
	before := ast.Render(mod)
	cv := &conversion{
		conv:    c,
		renames: renames,
		checker: trivial.NewChecker(),
		shell:   ast.Module{Name: mod.Name, Doc: mod.Doc},
	}
	if err := cv.classify(mod.Items); err != nil {
		return nil, err
	}
	cv.foreignItems = c.includeItems(extraInclude)
	if err := cv.run(mod.Items); err != nil {
		return nil, err
	}
	items := cv.assemble()
	return &Result{
		Items: items,
		Needs: cv.needs,
		Diff:  unifiedDiff(before, ast.RenderItems(items)),
	}, nil
}

func (c *Converter) includeItems(extraInclude string) []ast.ForeignItem {
	var items []ast.ForeignItem
	for _, inc := range c.includeList {
		items = append(items, &ast.Include{Path: inc})
	}
	if extraInclude != "" {
		items = append(items, &ast.Include{Path: extraInclude})
	}
	return items
}

// conversion is the state threaded through one Convert call. It owns every
// intermediate collection exclusively until assemble transfers them out.
type conversion struct {
	conv    *Converter
	renames map[string]string
	checker *trivial.Checker

	shell        ast.Module // emptied copy of the input module
	allItems     []ast.Item
	bridgeItems  []ast.Item
	foreignShell *ast.ForeignBlock
	foreignItems []ast.ForeignItem
	reclassified []ast.Item
	typesFound   []typename.TypeName
	needs        []Need
}

// classify is phase one: ingest every aggregate, then confirm the caller's
// plain-data requests before any rewriting happens.
func (cv *conversion) classify(items []ast.Item) error {
	for _, it := range items {
		switch v := it.(type) {
		case *ast.StructDecl:
			cv.checker.IngestStruct(v)
		case *ast.EnumDecl:
			cv.checker.IngestTrivial(typename.New(v.Name))
		}
	}
	if err := cv.checker.SatisfyRequests(cv.conv.trivialRequests); err != nil {
		var reqErr *trivial.RequestError
		if errors.As(err, &reqErr) {
			return &UnsafeTrivialError{TypeName: reqErr.TypeName.Name(), Cause: err}
		}
		return err
	}
	return nil
}

// run is phase two: one linear dispatch over the module body. Every input
// item lands in exactly one output collection.
func (cv *conversion) run(items []ast.Item) error {
	for _, it := range items {
		switch v := it.(type) {
		case *ast.ForeignBlock:
			blockItems := v.Items
			v.Items = nil
			if cv.foreignShell == nil {
				// The first foreign block keeps its ABI and shell; the
				// contents of every block end up merged into it.
				cv.foreignShell = v
			}
			if err := cv.convertForeignItems(blockItems); err != nil {
				return err
			}
		case *ast.StructDecl:
			tn := typename.New(v.Name)
			isTrivial := cv.checker.IsTrivial(tn)
			cv.generateTypeAlias(tn, isTrivial)
			if !isTrivial {
				// Opaque aggregates must never be copied or inspected
				// across the bridge; the reclassified type keeps only
				// its name.
				v.Fields = nil
			}
			cv.reclassified = append(cv.reclassified, v)
		case *ast.EnumDecl:
			cv.generateTypeAlias(typename.New(v.Name), true)
			cv.reclassified = append(cv.reclassified, v)
		case *ast.ImplBlock:
			tn, ok := typename.FromType(v.SelfType)
			if !ok {
				continue
			}
			for _, m := range v.Methods {
				if m.Sig.Name == "new" {
					cv.convertNewMethod(m, tn, v)
				}
			}
		default:
			cv.allItems = append(cv.allItems, it)
		}
	}
	return nil
}

// generateTypeAlias emits the three declarations every aggregate gets: a
// bridge-side type alias, a UniquePtr capability stub, and the extern-type
// assertion binding the reclassified type to its foreign identity. It also
// appends the type to the discovered-types ledger used for method-name
// demangling and constructor recognition.
func (cv *conversion) generateTypeAlias(tn typename.TypeName, isTrivial bool) {
	kind := ast.KindOpaque
	if isTrivial {
		kind = ast.KindTrivial
	}
	cv.foreignItems = append(cv.foreignItems, &ast.TypeAlias{
		Ident:  tn.Ident(),
		Target: fmt.Sprintf("super::%s::%s", cv.shell.Name, tn.Ident()),
		Kind:   kind,
	})
	cv.bridgeItems = append(cv.bridgeItems, &ast.UniquePtrStub{Ident: tn.Ident()})
	cv.allItems = append(cv.allItems, &ast.ExternTypeAssert{
		Ident:   tn.Ident(),
		CppName: tn.CppName(),
		Kind:    kind,
	})
	cv.typesFound = append(cv.typesFound, tn)
}

func (cv *conversion) convertForeignItems(items []ast.ForeignItem) error {
	for _, it := range items {
		fn, ok := it.(*ast.ForeignFn)
		if !ok {
			return ErrUnknownForeignItem
		}
		cv.convertForeignFn(fn)
	}
	return nil
}

// convertForeignFn rewrites one foreign declaration into its bridge form,
// or drops it when it is a synthetic default-constructor declaration for a
// discovered type (the factory path replaces those).
func (cv *conversion) convertForeignFn(fn *ast.ForeignFn) {
	oldName := fn.Sig.Name
	for _, tn := range cv.typesFound {
		if oldName == tn.Ident()+"_"+tn.Ident() {
			return
		}
	}

	sig := fn.Sig
	sig.Return = cv.convertType(sig.Return)

	params := make([]ast.Param, 0, len(sig.Params))
	analyses := make([]paramAnalysis, 0, len(sig.Params))
	for _, p := range sig.Params {
		np, a := cv.convertParam(p)
		params = append(params, np)
		analyses = append(analyses, a)
	}
	sig.Params = params

	isMethod := false
	for _, a := range analyses {
		if a.wasSelf {
			isMethod = true
			break
		}
	}
	if isMethod {
		// Binding generators name methods {class}_{method}; the bridge
		// wants just the method name. First discovered prefix wins.
		for _, tn := range cv.typesFound {
			if suffix, ok := tn.Prefixes(oldName); ok {
				sig.Name = suffix
				break
			}
		}
	}

	wrapperNeeded := false
	conversions := make([]Conversion, 0, len(analyses))
	for _, a := range analyses {
		conversions = append(conversions, a.conversion)
		if a.conversion.WorkNeeded() {
			wrapperNeeded = true
		}
	}
	retConv := cv.returnConversion(sig.Return)
	if wrapperNeeded || (retConv != nil && retConv.WorkNeeded()) {
		cv.needs = append(cv.needs, byValueWrapperNeed(sig.Name, retConv, conversions))
	}

	attrs := ast.StripAttr(fn.Attrs, "link_name")
	if newName, ok := cv.renames[oldName]; ok {
		attrs = append(attrs, ast.Attr{Name: "rust_name", Value: newName})
	}

	cv.foreignItems = append(cv.foreignItems, &ast.ForeignFn{Sig: sig, Attrs: attrs})
}

type paramAnalysis struct {
	conversion Conversion
	wasSelf    bool
}

// convertParam normalizes the conventional "this" parameter into the
// receiver convention, rewrites the parameter type, and derives its
// conversion descriptor. The sentinel name is recognized only here; from
// this point on the typed IsSelf flag carries the fact.
func (cv *conversion) convertParam(p ast.Param) (ast.Param, paramAnalysis) {
	wasSelf := false
	if p.Name == "this" {
		p.Name = "self"
		p.IsSelf = true
		wasSelf = true
	}
	p.Type = cv.convertType(p.Type)
	return p, paramAnalysis{
		conversion: cv.conversionRequired(p.Type),
		wasSelf:    wasSelf,
	}
}

// conversionRequired derives the descriptor for a bridge-to-foreign slot:
// non-trivial named types must arrive through a unique-ownership handle.
func (cv *conversion) conversionRequired(t ast.Type) Conversion {
	if tn, ok := typename.FromType(t); ok && !cv.checker.IsTrivial(tn) {
		return fromUniquePtr(t)
	}
	return unconverted(t)
}

// returnConversion derives the descriptor for the return slot: non-trivial
// by-value returns must come back via a unique-ownership handle. Nil means
// the function returns nothing.
func (cv *conversion) returnConversion(t ast.Type) *Conversion {
	if t == nil {
		return nil
	}
	var conv Conversion
	if tn, ok := typename.FromType(t); ok && !cv.checker.IsTrivial(tn) {
		conv = toUniquePtr(t)
	} else {
		conv = unconverted(t)
	}
	return &conv
}

// convertType rewrites raw pointers to references, preserving constness,
// recursing through references and generic arguments so nested pointers
// convert at every level. Named types are canonicalized.
func (cv *conversion) convertType(t ast.Type) ast.Type {
	switch v := t.(type) {
	case nil:
		return nil
	case *ast.NamedType:
		args := make([]ast.Type, len(v.GenericArgs))
		for i, a := range v.GenericArgs {
			args[i] = cv.convertType(a)
		}
		if len(args) == 0 {
			args = nil
		}
		return &ast.NamedType{Name: typename.New(v.Name).Ident(), GenericArgs: args}
	case *ast.ReferenceType:
		return &ast.ReferenceType{Elem: cv.convertType(v.Elem), Mutable: v.Mutable}
	case *ast.PointerType:
		return &ast.ReferenceType{Elem: cv.convertType(v.Elem), Mutable: !v.Const}
	default:
		return t
	}
}

// convertNewMethod rewrites a constructor into a static factory returning
// a unique-ownership handle. The method body delegates to the generated
// {Type}_make_unique bridge function, and a matching factory need is
// queued for the secondary generator.
func (cv *conversion) convertNewMethod(m ast.Method, tn typename.TypeName, impl *ast.ImplBlock) {
	if m.Sig.Return == nil {
		return
	}
	var argTypes []typename.TypeName
	var argNames []string
	for _, p := range m.Sig.Params {
		if p.IsSelf {
			continue
		}
		at, ok := typename.FromType(p.Type)
		if !ok {
			continue
		}
		argTypes = append(argTypes, at)
		argNames = append(argNames, p.Name)
	}
	cv.needs = append(cv.needs, makeUniqueNeed(tn, argTypes))

	callName := tn.Ident() + "_make_unique"
	m.Body = fmt.Sprintf("super::cxxbridge::%s(%s)", callName, strings.Join(argNames, ", "))
	m.Sig.Name = "make_unique"
	m.Sig.Unsafe = false
	m.Sig.Return = &ast.NamedType{
		Name:        "UniquePtr",
		GenericArgs: []ast.Type{m.Sig.Return},
	}

	cv.reclassified = append(cv.reclassified, &ast.ImplBlock{
		SelfType: impl.SelfType,
		Methods:  []ast.Method{m},
	})
}

// assemble finishes the conversion: the pending foreign declarations join
// the (possibly synthesized) foreign block, the block joins the bridge
// module, and the two sibling modules land at the tail of the item list.
func (cv *conversion) assemble() []ast.Item {
	shell := cv.foreignShell
	if shell == nil {
		// The input declared only types. The bridge still needs a
		// foreign block so those types are known to it.
		shell = &ast.ForeignBlock{ABI: "C"}
	}
	shell.Items = append(shell.Items, cv.foreignItems...)
	cv.bridgeItems = append(cv.bridgeItems, shell)

	reclassified := cv.shell
	reclassified.Items = cv.reclassified

	items := cv.allItems
	items = append(items, &ast.ModuleDecl{Mod: reclassified})
	items = append(items, &ast.ModuleDecl{
		Mod:   ast.Module{Name: "cxxbridge", Items: cv.bridgeItems},
		Attrs: []ast.Attr{{Name: "cxx::bridge"}},
	})
	return items
}

func unifiedDiff(before, after string) string {
	if before == after {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        strings.Split(before, "\n"),
		B:        strings.Split(after, "\n"),
		FromFile: "bindings",
		ToFile:   "bridge",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- bindings\n+++ bridge\n@@ changes @@\n%d bytes -> %d bytes",
			len(before), len(after))
	}
	return text
}
