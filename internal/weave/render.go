package weave

import (
	"bytes"
	"cmp"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"slices"

	"github.com/sirkon/spanweave/internal/rewrite"
)

// pick is a method selected for rewriting.
type pick struct {
	index  int
	method *rewrite.Method
}

// edit replaces src[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

// render builds the transformed file. The input is printed, bodies of picked
// methods are replaced with generated code embedding their original text and
// the outcome is parsed back into the file set. Comments inside bodies thus
// stay where they were and every position of the output is real.
func (c *fileContext) render(file *ast.File, picked []pick, res *Result) (*ast.File, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, c.fset, file); err != nil {
		return nil, fmt.Errorf("print %s: %w", c.path, err)
	}
	src := buf.Bytes()

	scratch := token.NewFileSet()
	printed, err := parser.ParseFile(scratch, c.path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse printed %s: %w", c.path, err)
	}
	offset := func(pos token.Pos) int {
		return scratch.Position(pos).Offset
	}

	var (
		edits       []edit
		needContext bool
	)
	for _, p := range picked {
		body := printed.Decls[p.index].(*ast.FuncDecl).Body
		start, end := offset(body.Lbrace), offset(body.Rbrace)+1

		text, err := c.engine.Source(p.method, string(src[start:end]))
		if err != nil {
			return nil, fmt.Errorf("%s: rewrite %s.%s: %w", c.position(p.method.Decl.Pos()), p.method.Class, p.method.Name, err)
		}
		edits = append(edits, edit{start: start, end: end, text: text})
		if p.method.Ctx == "" {
			needContext = true
		}
	}

	if decl, ok := c.entryPoint(file, res); ok {
		at := offset(printed.Name.End())
		for _, d := range printed.Decls {
			if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
				at = offset(gd.End())
			}
		}
		at = lineEnd(src, at)
		edits = append(edits, edit{start: at, end: at, text: "\n\n" + decl})
	}

	filename := c.path
	if f := c.fset.File(file.Pos()); f != nil {
		filename = f.Name()
	}
	out, err := parser.ParseFile(c.fset, filename, apply(src, edits), parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse generated code of %s: %w", c.path, err)
	}

	paths := []string{rewrite.PathAttribute, rewrite.PathCodes, rewrite.PathTrace, rewrite.PathFmt}
	if needContext {
		paths = append(paths, rewrite.PathContext)
	}
	if res.EntryPointInjected {
		paths = append(paths, rewrite.PathOtel)
	}
	for _, path := range paths {
		c.imports.ensure(c.fset, out, path)
	}

	return out, nil
}

// apply returns src with non-overlapping edits applied.
func apply(src []byte, edits []edit) []byte {
	slices.SortFunc(edits, func(a, b edit) int {
		return cmp.Compare(a.start, b.start)
	})

	var out bytes.Buffer
	var last int
	for _, e := range edits {
		out.Write(src[last:e.start])
		out.WriteString(e.text)
		last = e.end
	}
	out.Write(src[last:])
	return out.Bytes()
}

// lineEnd returns the offset of the line break ending the line at offset.
func lineEnd(src []byte, offset int) int {
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(src)
}
