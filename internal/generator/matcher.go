package generator

import "jsongen/internal/model"

// Match reports whether t implements the capability identified by
// definition, directly or transitively, and returns the type argument bound
// by the first such capability. It does not check that the argument is t.
func Match(t *model.TypeDecl, definition string) (model.TypeRef, bool) {
	for _, c := range t.AllCapabilities() {
		if c.Definition == definition && len(c.Args) == 1 {
			return c.Args[0], true
		}
	}
	return model.TypeRef{}, false
}
