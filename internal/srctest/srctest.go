// Package srctest holds helpers for tests comparing Go source code.
package srctest

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/scanner"
	"go/token"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// Parse parses a file with comments.
func Parse(t testing.TB, name, src string) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, src, parser.ParseComments|parser.SkipObjectResolution)
	require.NoError(t, err, "parse %s", name)
	return fset, file
}

// Print renders node.
func Print(t testing.TB, fset *token.FileSet, node any) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, fset, node))
	return buf.String()
}

// Tokens splits source into tokens, dropping comments and automatically
// inserted semicolons so layout differences do not matter.
func Tokens(src string) []string {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, 0)

	var res []string
	for {
		_, tok, lit := s.Scan()
		switch {
		case tok == token.EOF:
			return res
		case tok == token.SEMICOLON && lit == "\n":
			continue
		case lit != "":
			res = append(res, lit)
		default:
			res = append(res, tok.String())
		}
	}
}

// Equal fails the test if want and got differ in anything but layout and comments.
func Equal(t testing.TB, want, got string) {
	t.Helper()

	if diff := cmp.Diff(Tokens(want), Tokens(got)); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s\ngot:\n%s", diff, got)
	}
}

// Format renders a file the way gofmt does.
func Format(t testing.TB, fset *token.FileSet, file *ast.File) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, format.Node(&buf, fset, file))
	return buf.String()
}

// Imports returns sorted import specs of a file as `name "path"` or `"path"`.
func Imports(t testing.TB, src string) []string {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ImportsOnly)
	require.NoError(t, err)

	res := make([]string, 0, len(file.Imports))
	for _, spec := range file.Imports {
		if spec.Name != nil {
			res = append(res, spec.Name.Name+" "+spec.Path.Value)
			continue
		}
		res = append(res, spec.Path.Value)
	}
	slices.Sort(res)
	return res
}

// EqualFile is like Equal for whole files, except imports are compared as
// sets since their order and grouping depend on the formatter.
func EqualFile(t testing.TB, want, got string) {
	t.Helper()

	if diff := cmp.Diff(Imports(t, want), Imports(t, got)); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(withoutImports(Tokens(want)), withoutImports(Tokens(got))); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s\ngot:\n%s", diff, got)
	}
}

func withoutImports(tokens []string) []string {
	res := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if tokens[i] != token.IMPORT.String() {
			res = append(res, tokens[i])
			continue
		}

		i++
		if i < len(tokens) && tokens[i] == token.LPAREN.String() {
			for i < len(tokens) && tokens[i] != token.RPAREN.String() {
				i++
			}
			continue
		}
		// import name "path" or import "path"
		if i < len(tokens) && !strings.HasPrefix(tokens[i], `"`) {
			i++
		}
	}
	return res
}
