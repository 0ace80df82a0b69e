package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/typename"
)

func declModule(names ...string) ast.Module {
	mod := ast.Module{Name: "bindgen"}
	for _, n := range names {
		mod.Items = append(mod.Items, &ast.StructDecl{Name: n})
	}
	return mod
}

func namesOf(tns []typename.TypeName) []string {
	var out []string
	for _, tn := range tns {
		out = append(out, tn.Name())
	}
	return out
}

func TestExpandTrivialPatterns(t *testing.T) {
	mod := declModule("Point", "PointF", "Widget")
	mod.Items = append(mod.Items, &ast.EnumDecl{Name: "Mode"})

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{"literal", []string{"Widget"}, []string{"Widget"}},
		{"glob", []string{"Point*"}, []string{"Point", "PointF"}},
		{"enums match too", []string{"M*"}, []string{"Mode"}},
		{"match all keeps declaration order", []string{"*"}, []string{"Point", "PointF", "Widget", "Mode"}},
		{"unmatched kept as literal", []string{"Gadget"}, []string{"Gadget"}},
		{"none", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, namesOf(ExpandTrivialPatterns(tt.patterns, mod)))
		})
	}
}

func TestExpandTrivialPatternsDedupes(t *testing.T) {
	mod := declModule("Point", "PointF")

	got := ExpandTrivialPatterns([]string{"Point", "Point*"}, mod)
	assert.Equal(t, []string{"Point", "PointF"}, namesOf(got))
}

func TestExpandTrivialPatternsCanonicalizes(t *testing.T) {
	got := ExpandTrivialPatterns([]string{"std_string"}, declModule())
	assert.Equal(t, []string{"CxxString"}, namesOf(got))
}
