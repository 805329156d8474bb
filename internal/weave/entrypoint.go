package weave

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/rewrite"
)

// DeclaresTracer reports whether the file declares the package level tracer
// variable.
func DeclaresTracer(file *ast.File) bool {
	return declaresVar(file, rewrite.TracerVar)
}

func declaresVar(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			for _, id := range spec.(*ast.ValueSpec).Names {
				if id.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// entryPoint decides whether the file gets the tracer declaration and returns
// its source if so.
func (c *fileContext) entryPoint(file *ast.File, res *Result) (string, bool) {
	pos := c.position(file.Package)
	tracer := c.imports.names.Tracer
	switch {
	case c.hasEntryPoint:
		c.inject.Report(diag.SW111EntryPointPresent, "", pos)
		return "", false
	case !c.cfg.AutoInjectEntryPoint():
		return "", false
	case tracer == rewrite.TracerVar && c.platformSpecific:
		res.NeedsEntryPoint = true
		c.inject.Report(diag.SW112EntryPointDeferred, "", pos)
		return "", false
	}

	c.hasEntryPoint = true
	res.EntryPointInjected = true
	c.inject.Report(diag.SW110EntryPointInjected, "", pos)
	return tracerDecl(tracer, c.imports.otel), true
}

// tracerDecl renders the tracer variable declaration.
func tracerDecl(name, otel string) string {
	return fmt.Sprintf("var %s = %s.Tracer(%s)", name, otel, strconv.Quote(rewrite.TracerName))
}

// EntryPointSource returns a file of package pkg declaring the shared tracer.
// It is meant for packages whose instrumented files are all built for some
// platforms only. The scope lists top-level names of the package.
func EntryPointSource(pkg string, scope []string) []byte {
	taken := make(map[string]struct{}, len(scope))
	for _, name := range scope {
		taken[name] = struct{}{}
	}

	otel := defaultName(rewrite.PathOtel)
	for i := 1; ; i++ {
		if _, ok := taken[otel]; !ok {
			break
		}
		otel = defaultName(rewrite.PathOtel) + strconv.Itoa(i)
	}

	var alias string
	if otel != defaultName(rewrite.PathOtel) {
		alias = otel + " "
	}
	return fmt.Appendf(nil, "%s\n\npackage %s\n\nimport %s%q\n\n%s\n",
		EntryPointHeader, pkg, alias, rewrite.PathOtel, tracerDecl(rewrite.TracerVar, otel))
}

// EntryPointHeader opens files made by EntryPointSource.
const EntryPointHeader = "// Code generated by spanweave. DO NOT EDIT."
