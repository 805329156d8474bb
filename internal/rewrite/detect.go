package rewrite

import (
	"go/ast"
)

// IsInstrumented reports whether the body already starts a span on the tracer:
// either its first statement does, or it returns an iterator whose first
// statement does.
func IsInstrumented(decl *ast.FuncDecl, tracer string) bool {
	if decl.Body == nil {
		return false
	}
	if startsSpan(decl.Body, tracer) {
		return true
	}

	for _, stmt := range decl.Body.List {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}
		if lit, ok := ret.Results[0].(*ast.FuncLit); ok && startsSpan(lit.Body, tracer) {
			return true
		}
	}

	return false
}

func startsSpan(body *ast.BlockStmt, tracer string) bool {
	if body == nil || len(body.List) == 0 {
		return false
	}

	assign, ok := body.List[0].(*ast.AssignStmt)
	if !ok || len(assign.Rhs) != 1 {
		return false
	}
	call, ok := assign.Rhs[0].(*ast.CallExpr)
	if !ok {
		return false
	}
	return isQualified(call.Fun, tracer, "Start")
}
