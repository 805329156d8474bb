package rewrite

import (
	"go/ast"
)

// Method describes a method declaration selected for rewriting.
type Method struct {
	Decl  *ast.FuncDecl
	Name  string
	Class string
	Shape Shape

	// Ctx is the name of the context parameter or empty if there is none.
	Ctx string

	Private bool
}

// HasBody reports whether the declaration has a body to rewrite.
func (m *Method) HasBody() bool {
	return m.Decl.Body != nil
}

// Describe builds a method descriptor. It returns false for free functions.
func Describe(decl *ast.FuncDecl, names Names) (*Method, bool) {
	class := ReceiverClass(decl)
	if class == "" {
		return nil, false
	}

	return &Method{
		Decl:    decl,
		Name:    decl.Name.Name,
		Class:   class,
		Shape:   Classify(decl, names),
		Ctx:     ContextParam(decl, names.Context),
		Private: isPrivate(decl.Name.Name),
	}, true
}

// ReceiverClass returns the base type name of the method receiver, stripping
// pointers and type parameters. It returns an empty string for functions.
func ReceiverClass(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}

	expr := decl.Recv.List[0].Type
	for {
		switch v := expr.(type) {
		case *ast.Ident:
			return v.Name
		case *ast.StarExpr:
			expr = v.X
		case *ast.ParenExpr:
			expr = v.X
		case *ast.IndexExpr:
			expr = v.X
		case *ast.IndexListExpr:
			expr = v.X
		default:
			return ""
		}
	}
}

// ContextParam returns the name of the first named parameter of type
// <contextName>.Context.
func ContextParam(decl *ast.FuncDecl, contextName string) string {
	if contextName == "" || decl.Type.Params == nil {
		return ""
	}

	for _, field := range decl.Type.Params.List {
		if !isQualified(unparen(field.Type), contextName, "Context") {
			continue
		}
		for _, name := range field.Names {
			if !isBlank(name) {
				return name.Name
			}
		}
	}

	return ""
}
