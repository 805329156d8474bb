package weave

import (
	"go/ast"
	"strings"
)

// IgnoreDirective in a method doc comment keeps the method as is.
const IgnoreDirective = "//spanweave:ignore"

func hasIgnoreDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		if text == IgnoreDirective || strings.HasPrefix(text, IgnoreDirective+" ") {
			return true
		}
	}
	return false
}
