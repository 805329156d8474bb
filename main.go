package main

import (
	"go/ast"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/sirkon/spanweave/internal/config"
	"github.com/sirkon/spanweave/internal/weave"
)

const doc = `spanweave reports methods that would be wrapped into tracing spans

Every method passing file and method selection rules of the configuration is
reported together with the control-flow shape and the span name it would get.
The configuration is read from the file given with -config or from the closest
.spanweave.yaml, .spanweave.yml or .spanweave.json above the package.`

// Analyzer is the main entry point for the analysis.
var Analyzer = &analysis.Analyzer{
	Name:     "spanweave",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var configPath string

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "path to the configuration file")
}

func main() {
	singlechecker.Main(Analyzer)
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	var files []*ast.File
	pector.Preorder([]ast.Node{(*ast.File)(nil)}, func(node ast.Node) {
		files = append(files, node.(*ast.File))
	})
	if len(files) == 0 {
		return nil, nil
	}

	cfg, err := loadConfig(filepath.Dir(pass.Fset.File(files[0].Pos()).Name()))
	if err != nil {
		return nil, err
	}
	w := weave.New(cfg)

	// The tracer is package level, so any file of the package may provide it.
	current := slices.Clone(files)
	for i, file := range files {
		var opts weave.Options
		for j, other := range current {
			if j == i || other.Name.Name != file.Name.Name {
				continue
			}
			opts.PackageScope = append(opts.PackageScope, weave.TopLevelNames(other)...)
			if weave.DeclaresTracer(other) {
				opts.EntryPointProvided = true
			}
		}

		path := relPath(pass.Fset.File(file.Pos()).Name())
		res, err := w.Transform(pass.Fset, path, file, opts)
		if err != nil {
			return nil, err
		}

		for _, m := range res.Methods {
			if m.Outcome != weave.Instrumented {
				continue
			}
			pass.Reportf(
				m.Decl.Name.Pos(),
				"method %s.%s would be instrumented as %s span %q",
				m.Class, m.Name, m.Shape, m.SpanName,
			)
		}
		if res.Changed {
			current[i] = res.File
		}
	}

	return nil, nil
}

var configs sync.Map

// loadConfig returns the configuration for a package directory.
func loadConfig(dir string) (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Find(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return config.Default(), nil
	}

	if cfg, ok := configs.Load(path); ok {
		return cfg.(*config.Config), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	configs.Store(path, cfg)
	return cfg, nil
}

// relPath makes path relative to the working directory so that patterns
// like "internal/**" work as expected.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
