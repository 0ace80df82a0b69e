package convert

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/termfx/bridgec/ast"
	"github.com/termfx/bridgec/typename"
)

// ExpandTrivialPatterns resolves caller-supplied plain-data patterns
// against the module's declared struct and enum names. Glob patterns
// expand to every declared name they match, in declaration order; a
// pattern matching nothing is kept as a literal request so the classifier
// can reject it instead of silently dropping it.
func ExpandTrivialPatterns(patterns []string, mod ast.Module) []typename.TypeName {
	var declared []typename.TypeName
	for _, it := range mod.Items {
		switch v := it.(type) {
		case *ast.StructDecl:
			declared = append(declared, typename.New(v.Name))
		case *ast.EnumDecl:
			declared = append(declared, typename.New(v.Name))
		}
	}

	var out []typename.TypeName
	seen := make(map[string]bool)
	add := func(tn typename.TypeName) {
		if !seen[tn.Name()] {
			seen[tn.Name()] = true
			out = append(out, tn)
		}
	}
	for _, pattern := range patterns {
		matched := false
		for _, tn := range declared {
			if ok, err := doublestar.Match(pattern, tn.Name()); err == nil && ok {
				add(tn)
				matched = true
			}
		}
		if !matched {
			add(typename.New(pattern))
		}
	}
	return out
}
