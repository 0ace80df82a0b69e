package trivial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/typename"
)

func named(name string) ast.Type {
	return &ast.NamedType{Name: name}
}

func structDecl(name string, fieldTypes ...ast.Type) *ast.StructDecl {
	s := &ast.StructDecl{Name: name}
	for i, ft := range fieldTypes {
		s.Fields = append(s.Fields, ast.Field{Name: "f" + string(rune('a'+i)), Type: ft})
	}
	return s
}

func TestScalarFieldsAreTrivial(t *testing.T) {
	c := NewChecker()
	c.IngestStruct(structDecl("Point", named("u32"), named("u32")))

	assert.True(t, c.IsTrivial(typename.New("Point")))
}

func TestEnumIsTrivial(t *testing.T) {
	c := NewChecker()
	c.IngestTrivial(typename.New("Mode"))

	assert.True(t, c.IsTrivial(typename.New("Mode")))
}

func TestUnknownTypeIsOpaque(t *testing.T) {
	c := NewChecker()

	assert.False(t, c.IsTrivial(typename.New("Mystery")))
}

func TestPointerFieldMakesStructOpaque(t *testing.T) {
	c := NewChecker()
	c.IngestStruct(structDecl("Handle", &ast.PointerType{Elem: named("u8")}))

	assert.False(t, c.IsTrivial(typename.New("Handle")))
}

func TestTrivialityIsTransitive(t *testing.T) {
	c := NewChecker()
	c.IngestStruct(structDecl("Inner", named("u32")))
	c.IngestStruct(structDecl("Outer", named("Inner"), named("f64")))

	assert.True(t, c.IsTrivial(typename.New("Outer")))
}

func TestOpaqueFieldCascades(t *testing.T) {
	// Flipping one leaf field to an opaque type must flip every aggregate
	// that embeds it, however deep.
	c := NewChecker()
	c.IngestStruct(structDecl("Leaf", &ast.PointerType{Elem: named("u8")}))
	c.IngestStruct(structDecl("Mid", named("Leaf")))
	c.IngestStruct(structDecl("Top", named("Mid"), named("u32")))

	assert.False(t, c.IsTrivial(typename.New("Leaf")))
	assert.False(t, c.IsTrivial(typename.New("Mid")))
	assert.False(t, c.IsTrivial(typename.New("Top")))
}

func TestForwardReferenceResolves(t *testing.T) {
	// Outer declared before Inner: resolution must not depend on
	// declaration order.
	c := NewChecker()
	c.IngestStruct(structDecl("Outer", named("Inner")))
	c.IngestStruct(structDecl("Inner", named("u32")))

	assert.True(t, c.IsTrivial(typename.New("Outer")))
}

func TestMutualContainmentResolvesOpaque(t *testing.T) {
	c := NewChecker()
	c.IngestStruct(structDecl("A", named("B")))
	c.IngestStruct(structDecl("B", named("A")))

	assert.False(t, c.IsTrivial(typename.New("A")))
	assert.False(t, c.IsTrivial(typename.New("B")))
}

func TestSatisfyRequests(t *testing.T) {
	c := NewChecker()
	c.IngestStruct(structDecl("Point", named("u32")))
	c.IngestStruct(structDecl("Tree", &ast.PointerType{Elem: named("Tree")}))

	require.NoError(t, c.SatisfyRequests([]typename.TypeName{typename.New("Point")}))

	err := c.SatisfyRequests([]typename.TypeName{
		typename.New("Point"),
		typename.New("Tree"),
	})
	require.Error(t, err)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Tree", reqErr.TypeName.Name())
	assert.Contains(t, err.Error(), "Tree")
}

func TestCanonicalizedFieldTypes(t *testing.T) {
	// A std_string field resolves through its canonical name and is never
	// trivially copyable.
	c := NewChecker()
	c.IngestStruct(structDecl("Named", named("std_string")))

	assert.False(t, c.IsTrivial(typename.New("Named")))
}
