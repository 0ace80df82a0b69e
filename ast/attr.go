package ast

// Attr is structured declaration metadata. Linkage hints arrive on bindings
// from the upstream generator; the converter strips those and attaches
// rename hints of its own.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// StripAttr returns attrs without any attribute named name. The input slice
// is not modified.
func StripAttr(attrs []Attr, name string) []Attr {
	var out []Attr
	for _, a := range attrs {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}

// FindAttr returns the value of the first attribute named name.
func FindAttr(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
