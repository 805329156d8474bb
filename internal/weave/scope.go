package weave

import (
	"go/ast"
	"go/build/constraint"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirkon/spanweave/internal/rewrite"
)

// TopLevelNames returns package level names the file declares.
func TopLevelNames(file *ast.File) []string {
	var names []string
	add := func(id *ast.Ident) {
		if id != nil && id.Name != "_" {
			names = append(names, id.Name)
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name != "init" {
				add(d.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, id := range s.Names {
						add(id)
					}
				case *ast.TypeSpec:
					add(s.Name)
				}
			}
		}
	}
	return names
}

// pickTracer chooses the name generated code refers to the tracer with. The
// shared package level tracer is used unless its name means something else in
// the file or the package, a file level fallback is declared then.
func pickTracer(file *ast.File, opts Options) string {
	declared := declaredNames(file)
	scope := make(map[string]struct{}, len(opts.PackageScope))
	for _, name := range opts.PackageScope {
		scope[name] = struct{}{}
	}

	usable := func(name string) bool {
		if _, ok := declared[name]; ok {
			return false
		}
		if _, ok := scope[name]; ok {
			return name == rewrite.TracerVar && opts.EntryPointProvided
		}
		return true
	}

	if usable(rewrite.TracerVar) {
		return rewrite.TracerVar
	}
	for i := 0; ; i++ {
		name := "spanweaveTracer"
		if i > 0 {
			name += strconv.Itoa(i)
		}
		if usable(name) {
			return name
		}
	}
}

// declaredNames collects every name the file declares except package level
// variables, whose declaration is reused when it has the right name.
func declaredNames(file *ast.File) map[string]struct{} {
	names := map[string]struct{}{}
	add := func(ids ...*ast.Ident) {
		for _, id := range ids {
			if id != nil {
				names[id.Name] = struct{}{}
			}
		}
	}
	fields := func(list *ast.FieldList) {
		if list == nil {
			return
		}
		for _, field := range list.List {
			add(field.Names...)
		}
	}

	topVars := map[*ast.ValueSpec]struct{}{}
	for _, decl := range file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.VAR {
			for _, spec := range gd.Specs {
				topVars[spec.(*ast.ValueSpec)] = struct{}{}
			}
		}
	}

	for _, spec := range file.Imports {
		if spec.Name != nil {
			add(spec.Name)
			continue
		}
		if path, err := strconv.Unquote(spec.Path.Value); err == nil {
			names[defaultName(path)] = struct{}{}
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.FuncDecl:
			if x.Recv == nil {
				add(x.Name)
			}
			fields(x.Recv)
		case *ast.FuncType:
			fields(x.TypeParams)
			fields(x.Params)
			fields(x.Results)
		case *ast.TypeSpec:
			add(x.Name)
			fields(x.TypeParams)
		case *ast.ValueSpec:
			if _, ok := topVars[x]; !ok {
				add(x.Names...)
			}
		case *ast.AssignStmt:
			if x.Tok == token.DEFINE {
				for _, lhs := range x.Lhs {
					if id, ok := lhs.(*ast.Ident); ok {
						add(id)
					}
				}
			}
		case *ast.RangeStmt:
			if x.Tok == token.DEFINE {
				for _, e := range []ast.Expr{x.Key, x.Value} {
					if id, ok := e.(*ast.Ident); ok {
						add(id)
					}
				}
			}
		}
		return true
	})

	return names
}

// PlatformSpecific reports whether the file is built for some platforms only,
// either by a GOOS or GOARCH file name suffix or by a build constraint.
func PlatformSpecific(path string, file *ast.File) bool {
	if platformSuffix(filepath.Base(path)) {
		return true
	}

	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if constraint.IsGoBuild(comment.Text) || constraint.IsPlusBuild(comment.Text) {
				return true
			}
		}
	}
	return false
}

// platformSuffix follows the file name rules of go/build: name_GOOS,
// name_GOARCH and name_GOOS_GOARCH, with an optional _test after them.
func platformSuffix(name string) bool {
	name = strings.TrimSuffix(name, ".go")
	name = strings.TrimSuffix(name, "_test")

	i := strings.IndexByte(name, '_')
	if i < 0 {
		return false
	}
	parts := strings.Split(name[i:], "_")

	n := len(parts)
	if n >= 2 && knownOS[parts[n-2]] && knownArch[parts[n-1]] {
		return true
	}
	return knownOS[parts[n-1]] || knownArch[parts[n-1]]
}

// Lists of go/build, which keeps them internal.
var (
	knownOS = map[string]bool{
		"aix": true, "android": true, "darwin": true, "dragonfly": true, "freebsd": true,
		"hurd": true, "illumos": true, "ios": true, "js": true, "linux": true, "nacl": true,
		"netbsd": true, "openbsd": true, "plan9": true, "solaris": true, "wasip1": true,
		"windows": true, "zos": true,
	}
	knownArch = map[string]bool{
		"386": true, "amd64": true, "amd64p32": true, "arm": true, "armbe": true, "arm64": true,
		"arm64be": true, "loong64": true, "mips": true, "mipsle": true, "mips64": true,
		"mips64le": true, "mips64p32": true, "mips64p32le": true, "ppc": true, "ppc64": true,
		"ppc64le": true, "riscv": true, "riscv64": true, "s390": true, "s390x": true,
		"sparc": true, "sparc64": true, "wasm": true,
	}
)
