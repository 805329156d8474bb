package main

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/sirkon/spanweave/internal/weave"
)

// runner weaves packages in parallel.
type runner struct {
	weavers *weavers
	log     *zap.Logger
	jobs    int

	// render asks for formatted sources of changed files.
	render bool
}

type fileResult struct {
	path   string
	result *weave.Result

	// src is the formatted output of a changed file.
	src []byte
}

// run discovers packages under paths and transforms their files. Results are
// ordered by directory, then by file name.
func (r *runner) run(ctx context.Context, paths []string) ([]fileResult, error) {
	pkgs, err := discover(paths)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	dirs := slices.Sorted(maps.Keys(pkgs))
	r.log.Debug("discovered packages", zap.Int("count", len(dirs)))

	results := make([][]fileResult, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	if r.jobs > 0 {
		g.SetLimit(r.jobs)
	}
	for i, dir := range dirs {
		g.Go(func() error {
			res, err := r.processPackage(ctx, dir, pkgs[dir])
			if err != nil {
				return fmt.Errorf("process %s: %w", dir, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}

// entryPointFileName names the file declaring the shared tracer of a package
// whose instrumented files are all platform specific.
const entryPointFileName = "spanweave_tracer.go"

// processPackage transforms files of a single directory. Files built on every
// platform go first, so the shared tracer lands in one of them, and test files
// go last. Each file sees the current state of the others. Results keep the
// file order, a generated tracer file comes after them.
func (r *runner) processPackage(ctx context.Context, dir string, files []string) ([]fileResult, error) {
	w, err := r.weavers.forDir(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	current := make([]*ast.File, len(files))
	platform := make([]bool, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		current[i] = file
		platform[i] = weave.PlatformSpecific(path, file)
	}

	var regular, tests []int
	for i, path := range files {
		if isTestFile(path) {
			tests = append(tests, i)
		} else {
			regular = append(regular, i)
		}
	}
	slices.SortStableFunc(regular, func(a, b int) int {
		return cmp.Compare(b2i(platform[a]), b2i(platform[b]))
	})

	out := make([]fileResult, len(files))
	transform := func(i int) (*weave.Result, error) {
		opts := packageOptions(files, current, i)
		opts.PlatformSpecific = platform[i]
		res, err := w.Transform(fset, relPath(files[i]), current[i], opts)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}

		out[i] = fileResult{
			path:   files[i],
			result: res,
		}
		if res.Changed {
			current[i] = res.File
			if r.render {
				src, err := render(fset, files[i], res.File)
				if err != nil {
					return nil, fmt.Errorf("render %s: %w", files[i], err)
				}
				out[i].src = src
			}
		}
		return res, nil
	}

	var deferred *ast.File
	for _, i := range regular {
		res, err := transform(i)
		if err != nil {
			return nil, err
		}
		if res.NeedsEntryPoint && deferred == nil {
			deferred = current[i]
		}
	}

	if deferred != nil {
		fr, err := entryPointFile(fset, dir, deferred.Name.Name, files, current)
		if err != nil {
			return nil, err
		}
		r.log.Debug("tracer declared in a separate file", zap.String("path", fr.path))
		files = append(files, fr.path)
		current = append(current, fr.result.File)
		out = append(out, fr)
	}

	for _, i := range tests {
		if _, err := transform(i); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// packageOptions describes other files of the package to the transformation
// of files[i]. Test files do not provide the tracer to regular ones.
func packageOptions(files []string, current []*ast.File, i int) weave.Options {
	var opts weave.Options
	test := isTestFile(files[i])
	for j, other := range current {
		if j == i || other.Name.Name != current[i].Name.Name {
			continue
		}
		opts.PackageScope = append(opts.PackageScope, weave.TopLevelNames(other)...)
		if (test || !isTestFile(files[j])) && weave.DeclaresTracer(other) {
			opts.EntryPointProvided = true
		}
	}
	return opts
}

// entryPointFile creates the file declaring the shared tracer of package pkg.
func entryPointFile(fset *token.FileSet, dir, pkg string, files []string, current []*ast.File) (fileResult, error) {
	path := filepath.Join(dir, entryPointFileName)
	if slices.Contains(files, path) {
		return fileResult{}, fmt.Errorf("%s exists and does not declare the tracer", path)
	}

	var scope []string
	for j, file := range current {
		if file.Name.Name == pkg && !isTestFile(files[j]) {
			scope = append(scope, weave.TopLevelNames(file)...)
		}
	}

	src := weave.EntryPointSource(pkg, scope)
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return fileResult{}, fmt.Errorf("parse generated %s: %w", path, err)
	}

	return fileResult{
		path: path,
		result: &weave.Result{
			File:               file,
			Changed:            true,
			Eligible:           true,
			EntryPointInjected: true,
		},
		src: src,
	}, nil
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.go")
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

// render prints a transformed file and formats it the way goimports does,
// without touching the import set.
func render(fset *token.FileSet, path string, file *ast.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}

	src, err := imports.Process(path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return src, nil
}
