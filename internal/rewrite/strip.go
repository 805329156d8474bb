package rewrite

import (
	"go/ast"
	"go/token"
)

// stripPositions drops every position under n. Generated nodes come from a
// scratch file set and must not be placed against the target file.
func stripPositions(n ast.Node) {
	reset := func(ps ...*token.Pos) {
		for _, p := range ps {
			*p = token.NoPos
		}
	}

	ast.Inspect(n, func(node ast.Node) bool {
		switch x := node.(type) {
		case *ast.Ident:
			reset(&x.NamePos)
		case *ast.BasicLit:
			reset(&x.ValuePos)
		case *ast.Ellipsis:
			reset(&x.Ellipsis)
		case *ast.FieldList:
			reset(&x.Opening, &x.Closing)
		case *ast.CompositeLit:
			reset(&x.Lbrace, &x.Rbrace)
		case *ast.ParenExpr:
			reset(&x.Lparen, &x.Rparen)
		case *ast.IndexExpr:
			reset(&x.Lbrack, &x.Rbrack)
		case *ast.IndexListExpr:
			reset(&x.Lbrack, &x.Rbrack)
		case *ast.SliceExpr:
			reset(&x.Lbrack, &x.Rbrack)
		case *ast.TypeAssertExpr:
			reset(&x.Lparen, &x.Rparen)
		case *ast.CallExpr:
			reset(&x.Lparen, &x.Ellipsis, &x.Rparen)
		case *ast.StarExpr:
			reset(&x.Star)
		case *ast.UnaryExpr:
			reset(&x.OpPos)
		case *ast.BinaryExpr:
			reset(&x.OpPos)
		case *ast.KeyValueExpr:
			reset(&x.Colon)
		case *ast.ArrayType:
			reset(&x.Lbrack)
		case *ast.StructType:
			reset(&x.Struct)
		case *ast.FuncType:
			reset(&x.Func)
		case *ast.InterfaceType:
			reset(&x.Interface)
		case *ast.MapType:
			reset(&x.Map)
		case *ast.ChanType:
			reset(&x.Begin, &x.Arrow)
		case *ast.EmptyStmt:
			reset(&x.Semicolon)
		case *ast.LabeledStmt:
			reset(&x.Colon)
		case *ast.SendStmt:
			reset(&x.Arrow)
		case *ast.IncDecStmt:
			reset(&x.TokPos)
		case *ast.AssignStmt:
			reset(&x.TokPos)
		case *ast.GoStmt:
			reset(&x.Go)
		case *ast.DeferStmt:
			reset(&x.Defer)
		case *ast.ReturnStmt:
			reset(&x.Return)
		case *ast.BranchStmt:
			reset(&x.TokPos)
		case *ast.BlockStmt:
			reset(&x.Lbrace, &x.Rbrace)
		case *ast.IfStmt:
			reset(&x.If)
		case *ast.CaseClause:
			reset(&x.Case, &x.Colon)
		case *ast.SwitchStmt:
			reset(&x.Switch)
		case *ast.TypeSwitchStmt:
			reset(&x.Switch)
		case *ast.CommClause:
			reset(&x.Case, &x.Colon)
		case *ast.SelectStmt:
			reset(&x.Select)
		case *ast.ForStmt:
			reset(&x.For)
		case *ast.RangeStmt:
			reset(&x.For, &x.TokPos, &x.Range)
		case *ast.GenDecl:
			reset(&x.TokPos, &x.Lparen, &x.Rparen)
		case *ast.TypeSpec:
			reset(&x.Assign)
		}
		return true
	})
}
