package weave

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sirkon/spanweave/internal/rewrite"
)

// importPlan decides local names generated code refers to before any rewrite
// happens, so every method of a file uses the same names.
type importPlan struct {
	existing map[string]string
	names    rewrite.Names
	otel     string
}

func planImports(file *ast.File, opts Options) *importPlan {
	existing := map[string]string{}
	taken := map[string]struct{}{}
	for _, name := range opts.PackageScope {
		taken[name] = struct{}{}
	}
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		local := defaultName(path)
		if spec.Name != nil {
			local = spec.Name.Name
		}
		if local == "_" || local == "." {
			continue
		}
		taken[local] = struct{}{}
		if _, ok := existing[path]; !ok {
			existing[path] = local
		}
	}

	selected := map[*ast.Ident]struct{}{}
	ast.Inspect(file, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.SelectorExpr:
			selected[x.Sel] = struct{}{}
		case *ast.Ident:
			if _, ok := selected[x]; !ok && x != file.Name {
				taken[x.Name] = struct{}{}
			}
		}
		return true
	})

	pick := func(path string) string {
		if name, ok := existing[path]; ok {
			return name
		}
		base := defaultName(path)
		candidate := base
		for i := 0; ; i++ {
			switch i {
			case 0:
			case 1:
				candidate = "otel" + base
			default:
				candidate = base + strconv.Itoa(i)
			}
			if _, ok := taken[candidate]; !ok {
				taken[candidate] = struct{}{}
				return candidate
			}
		}
	}

	p := &importPlan{existing: existing}
	p.names = rewrite.Names{
		Context:   pick(rewrite.PathContext),
		Fmt:       pick(rewrite.PathFmt),
		Attribute: pick(rewrite.PathAttribute),
		Codes:     pick(rewrite.PathCodes),
		Trace:     pick(rewrite.PathTrace),
		Iter:      existing[rewrite.PathIter],
		Tracer:    pickTracer(file, opts),
	}
	taken[p.names.Tracer] = struct{}{}
	p.otel = pick(rewrite.PathOtel)

	return p
}

// local returns the planned local name of an import path.
func (p *importPlan) local(path string) string {
	switch path {
	case rewrite.PathContext:
		return p.names.Context
	case rewrite.PathFmt:
		return p.names.Fmt
	case rewrite.PathAttribute:
		return p.names.Attribute
	case rewrite.PathCodes:
		return p.names.Codes
	case rewrite.PathTrace:
		return p.names.Trace
	case rewrite.PathOtel:
		return p.otel
	default:
		return p.existing[path]
	}
}

// ensure adds the import of path to file unless the file already has it.
func (p *importPlan) ensure(fset *token.FileSet, file *ast.File, path string) {
	if _, ok := p.existing[path]; ok {
		return
	}

	name := p.local(path)
	if name == defaultName(path) {
		name = ""
	}
	astutil.AddNamedImport(fset, file, name, path)
	p.existing[path] = p.local(path)
}

// defaultName guesses the package name of an import path from its last element.
func defaultName(path string) string {
	name := path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
