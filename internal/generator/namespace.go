package generator

import (
	"strings"

	"jsongen/internal/model"
)

// NamespacePath returns the dot-joined namespace path of t, outermost first.
// Types in the global namespace get "".
func NamespacePath(t *model.TypeDecl) string {
	var segs []string
	for ns := t.Namespace; !ns.IsGlobal(); ns = ns.Parent {
		segs = append([]string{ns.Name}, segs...)
	}
	return strings.Join(segs, ".")
}
