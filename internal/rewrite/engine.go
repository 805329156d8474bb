package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/sirkon/spanweave/internal/config"
)

// Attributes every span carries, followed by common attributes from the configuration.
const (
	AttrNamespace      = "code.namespace"
	AttrFunction       = "code.function"
	AttrLibraryName    = "spanweave.library.name"
	AttrLibraryVersion = "spanweave.library.version"
)

// Library identity recorded on spans and used as the tracer name.
const (
	LibraryName    = "spanweave"
	LibraryVersion = "0.1.0"
	TracerName     = "github.com/sirkon/spanweave"
)

// ErrNoBody is returned when a method has no body to rewrite.
var ErrNoBody = errors.New("method has no body")

// Attribute is a span attribute set at span start.
type Attribute struct {
	Key   string
	Value string
}

// Engine rewrites method bodies.
type Engine struct {
	prefix string
	common []Attribute
	names  Names
}

// NewEngine creates an engine for the given configuration and local names.
func NewEngine(cfg *config.Config, names Names) *Engine {
	common := make([]Attribute, 0, len(cfg.CommonAttributeKeys()))
	for _, key := range cfg.CommonAttributeKeys() {
		value, _ := cfg.CommonAttribute(key)
		common = append(common, Attribute{Key: key, Value: value})
	}

	return &Engine{
		prefix: cfg.SpanNamePrefix(),
		common: common,
		names:  names,
	}
}

// Names returns local names the engine generates code with.
func (e *Engine) Names() Names {
	return e.names
}

// SpanName returns "<prefix>.<Class>.<Method>".
func (e *Engine) SpanName(m *Method) string {
	return e.prefix + "." + m.Class + "." + m.Name
}

// Attributes returns attributes of spans started for the method in the order
// they are set.
func (e *Engine) Attributes(m *Method) []Attribute {
	res := []Attribute{
		{Key: AttrNamespace, Value: m.Class},
		{Key: AttrFunction, Value: m.Name},
		{Key: AttrLibraryName, Value: LibraryName},
		{Key: AttrLibraryVersion, Value: LibraryVersion},
	}
	return append(res, e.common...)
}

// Rewrite returns a new body for the method. The original body becomes part of
// the result and must not be modified afterwards; the declaration itself is
// left untouched.
func (e *Engine) Rewrite(m *Method) (*ast.BlockStmt, error) {
	if !m.HasBody() {
		return nil, ErrNoBody
	}

	src, err := e.Source(m, "{\n\t"+placeholder+"()\n}")
	if err != nil {
		return nil, err
	}

	file, err := parser.ParseFile(token.NewFileSet(), "", "package p\n\nfunc _() "+src+"\n", parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse generated code for %s.%s: %w", m.Class, m.Name, err)
	}
	body := file.Decls[0].(*ast.FuncDecl).Body
	stripPositions(body)

	if !splice(body, m.Decl.Body) {
		return nil, fmt.Errorf("generated code for %s.%s has no place for the original body", m.Class, m.Name)
	}
	body.Lbrace = m.Decl.Body.Lbrace
	body.Rbrace = m.Decl.Body.Rbrace

	return body, nil
}

// Source renders a new body for the method as source text, braces included.
// The given body text, braces included as well, is placed verbatim into the
// closure that runs the original code, so comments inside it survive.
func (e *Engine) Source(m *Method, body string) (string, error) {
	if !m.HasBody() {
		return "", ErrNoBody
	}

	data := e.data(m)
	data.Body = body

	var name string
	switch s := m.Shape.(type) {
	case Plain:
		name = "plain"
	case Async:
		name = "async"
		data.Chan = data.Vars[0]
		data.Out = data.namer.fresh("out")
		data.V = data.namer.fresh("v")
		data.Elem = types.ExprString(s.Elem)
		if isErrorType(s.Elem) {
			data.ElemError = true
			data.Failed = data.namer.fresh("failed")
		}
	case Generator:
		name = "generator"
		data.iterate()
		if s.Key != nil {
			data.RangeVars = []string{data.namer.fresh("k"), data.namer.fresh("v")}
			data.YieldType = fmt.Sprintf("func(%s, %s) bool", types.ExprString(s.Key), types.ExprString(s.Value))
		} else {
			data.RangeVars = []string{data.namer.fresh("v")}
			data.YieldType = fmt.Sprintf("func(%s) bool", types.ExprString(s.Value))
		}
	case AsyncGenerator:
		name = "generator"
		data.iterate()
		data.V = data.Err
		data.RangeVars = []string{data.namer.fresh("v"), data.V}
		data.Failed = data.namer.fresh("failed")
		data.YieldType = fmt.Sprintf("func(%s, error) bool", types.ExprString(s.Elem))
	default:
		return "", fmt.Errorf("unsupported shape %T", m.Shape)
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", name, err)
	}
	buf.WriteString("\n}")

	return buf.String(), nil
}

type templateData struct {
	namer *namer

	Pkg      Names
	SpanCtx  string
	Span     string
	StartCtx string
	SpanName string
	Attrs    []Attribute

	R   string
	Err string
	OK  string

	EndOnPanic bool

	Body    string
	Param   string
	Arg     string
	Results string
	Vars    []string
	ErrVar  string

	Chan      string
	Out       string
	Elem      string
	ElemError bool
	V         string
	Failed    string

	Seq       string
	Yield     string
	YieldType string
	RangeVars []string
}

func (e *Engine) data(m *Method) *templateData {
	n := newNamer(m.Decl, e.names)
	n.taken[placeholder] = struct{}{}

	d := &templateData{
		namer:    n,
		Pkg:      e.names,
		SpanName: strconv.Quote(e.SpanName(m)),
		Results:  resultList(m.Decl.Type),
	}
	for _, attr := range e.Attributes(m) {
		d.Attrs = append(d.Attrs, Attribute{Key: strconv.Quote(attr.Key), Value: strconv.Quote(attr.Value)})
	}

	d.Span = n.fresh("span")
	if m.Ctx != "" {
		d.SpanCtx = n.fresh("spanCtx")
		d.StartCtx = m.Ctx
		d.Param = m.Ctx + " " + types.ExprString(contextType(m))
		d.Arg = d.SpanCtx
	} else {
		d.SpanCtx = "_"
		d.StartCtx = e.names.Context + ".Background()"
	}
	d.R = n.fresh("r")
	d.Err = n.fresh("err")
	d.OK = n.fresh("ok")

	results := resultTypes(m.Decl.Type)
	for i := range results {
		d.Vars = append(d.Vars, n.fresh("res"+strconv.Itoa(i)))
	}
	if len(results) > 0 && isErrorType(results[len(results)-1]) {
		d.ErrVar = d.Vars[len(d.Vars)-1]
	}

	_, async := m.Shape.(Async)
	d.EndOnPanic = async

	return d
}

// iterate switches the template data to the iterator layout: the body is
// evaluated without a span and the span starts when iteration does.
func (d *templateData) iterate() {
	d.Seq = d.namer.fresh("seq")
	d.Yield = d.namer.fresh("yield")
	d.SpanCtx = "_"
	d.Param = ""
	d.Arg = ""
}

func contextType(m *Method) ast.Expr {
	for _, field := range m.Decl.Type.Params.List {
		for _, name := range field.Names {
			if name.Name == m.Ctx {
				return field.Type
			}
		}
	}
	return nil
}

// resultList renders the result list of a function type, keeping names.
func resultList(ft *ast.FuncType) string {
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ft.Results.List))
	for _, field := range ft.Results.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typ)
			continue
		}
		names := make([]string, len(field.Names))
		for i, name := range field.Names {
			names[i] = name.Name
		}
		parts = append(parts, strings.Join(names, ", ")+" "+typ)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// splice replaces the body of the placeholder closure with the original one.
func splice(body *ast.BlockStmt, original *ast.BlockStmt) bool {
	var done bool
	ast.Inspect(body, func(n ast.Node) bool {
		if done {
			return false
		}
		lit, ok := n.(*ast.FuncLit)
		if !ok || !isPlaceholder(lit.Body) {
			return true
		}
		lit.Body = original
		done = true
		return false
	})
	return done
}

func isPlaceholder(b *ast.BlockStmt) bool {
	if len(b.List) != 1 {
		return false
	}
	stmt, ok := b.List[0].(*ast.ExprStmt)
	if !ok {
		return false
	}
	call, ok := stmt.X.(*ast.CallExpr)
	if !ok {
		return false
	}
	id, ok := call.Fun.(*ast.Ident)
	return ok && id.Name == placeholder
}
