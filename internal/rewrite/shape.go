package rewrite

import (
	"go/ast"
	"go/token"
)

// Shape is a control-flow shape of a method. Its implementations are Plain,
// Async, Generator and AsyncGenerator.
type Shape interface {
	isShape()
	String() string
}

// Plain is a method that finishes when it returns.
type Plain struct{}

// Async is a method returning a receive-only channel, optionally followed by
// an error. A bidirectional channel is plain: callers may send on it, so it
// cannot be replaced with a relay.
type Async struct {
	// Elem is the channel element type.
	Elem ast.Expr

	// WithError is set when the channel is followed by an error result.
	WithError bool
}

// Generator is a method returning iter.Seq[Value] or iter.Seq2[Key, Value].
type Generator struct {
	// Key is nil for iter.Seq.
	Key   ast.Expr
	Value ast.Expr
}

// AsyncGenerator is a method returning iter.Seq2[Elem, error].
type AsyncGenerator struct {
	Elem ast.Expr
}

func (Plain) isShape()          {}
func (Async) isShape()          {}
func (Generator) isShape()      {}
func (AsyncGenerator) isShape() {}

func (Plain) String() string          { return "plain" }
func (Async) String() string          { return "async" }
func (Generator) String() string      { return "generator" }
func (AsyncGenerator) String() string { return "async generator" }

// Classify detects the shape of a function declaration from its result list.
// The detection is syntactic: iter is recognized by the local name under which
// the file imports it.
func Classify(decl *ast.FuncDecl, names Names) Shape {
	results := resultTypes(decl.Type)

	switch len(results) {
	case 1:
		if ch, ok := recvChan(results[0]); ok {
			return Async{Elem: ch.Value}
		}
		if shape, ok := iterShape(results[0], names.Iter); ok {
			return shape
		}
	case 2:
		if !isErrorType(results[1]) {
			break
		}
		if ch, ok := recvChan(results[0]); ok {
			return Async{Elem: ch.Value, WithError: true}
		}
	}

	return Plain{}
}

// resultTypes lists result types, repeating a type for every name sharing it.
func resultTypes(ft *ast.FuncType) []ast.Expr {
	if ft.Results == nil {
		return nil
	}

	var res []ast.Expr
	for _, field := range ft.Results.List {
		n := max(len(field.Names), 1)
		for range n {
			res = append(res, field.Type)
		}
	}
	return res
}

func recvChan(expr ast.Expr) (*ast.ChanType, bool) {
	ch, ok := unparen(expr).(*ast.ChanType)
	if !ok || ch.Dir != ast.RECV {
		return nil, false
	}
	return ch, true
}

func iterShape(expr ast.Expr, iterName string) (Shape, bool) {
	if iterName == "" {
		return nil, false
	}

	switch v := unparen(expr).(type) {
	case *ast.IndexExpr:
		if isQualified(v.X, iterName, "Seq") {
			return Generator{Value: v.Index}, true
		}
	case *ast.IndexListExpr:
		if !isQualified(v.X, iterName, "Seq2") || len(v.Indices) != 2 {
			return nil, false
		}
		if isErrorType(v.Indices[1]) {
			return AsyncGenerator{Elem: v.Indices[0]}, true
		}
		return Generator{Key: v.Indices[0], Value: v.Indices[1]}, true
	}

	return nil, false
}

func isQualified(expr ast.Expr, pkg, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == pkg && sel.Sel.Name == name
}

func isErrorType(expr ast.Expr) bool {
	id, ok := unparen(expr).(*ast.Ident)
	return ok && id.Name == "error"
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

// isBlank reports whether the identifier is absent or the blank identifier.
func isBlank(id *ast.Ident) bool {
	return id == nil || id.Name == "_"
}

// isPrivate reports whether a method name is unexported.
func isPrivate(name string) bool {
	return !token.IsExported(name)
}
