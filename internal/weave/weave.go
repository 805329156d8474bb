package weave

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"go.uber.org/zap"

	"github.com/sirkon/spanweave/internal/config"
	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/rewrite"
)

// Weaver instruments files according to a configuration.
type Weaver struct {
	cfg      *config.Config
	log      *zap.Logger
	reporter *diag.Reporter
}

// Option configures a Weaver.
type Option func(w *Weaver)

// WithLogger sets the logger. Notices are mirrored into it unless a reporter
// is given too.
func WithLogger(log *zap.Logger) Option {
	return func(w *Weaver) {
		w.log = log
	}
}

// WithReporter sets the reporter collecting notices.
func WithReporter(r *diag.Reporter) Option {
	return func(w *Weaver) {
		w.reporter = r
	}
}

// New creates a Weaver. Configuration warnings are reported right away.
func New(cfg *config.Config, opts ...Option) *Weaver {
	w := &Weaver{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	if w.reporter == nil {
		w.reporter = diag.NewReporter(w.log)
	}

	pr := w.reporter.Phase(diag.PhaseConfig)
	for _, warn := range cfg.Warnings() {
		pr.Report(warn.Code, warn.String(), token.Position{})
	}

	return w
}

// Config returns the configuration of the weaver.
func (w *Weaver) Config() *config.Config {
	return w.cfg
}

// Reporter returns the reporter collecting notices.
func (w *Weaver) Reporter() *diag.Reporter {
	return w.reporter
}

// Options tunes a single Transform call.
type Options struct {
	// EntryPointProvided says another file of the package declares the tracer.
	EntryPointProvided bool

	// PackageScope lists top-level names declared by other files of the
	// package. Generated names never collide with them.
	PackageScope []string

	// PlatformSpecific says the file is built for some platforms only. The
	// shared tracer is never declared in such a file, Result.NeedsEntryPoint
	// asks the caller to declare it elsewhere.
	PlatformSpecific bool
}

// Transform instruments eligible methods of file. The path is matched against
// include and exclude patterns and used in notices. The input file is never
// modified, a changed result is parsed into fset as a new file.
func (w *Weaver) Transform(fset *token.FileSet, path string, file *ast.File, opts Options) (*Result, error) {
	if file == nil {
		return nil, errors.New("nil file")
	}
	if fset == nil {
		return nil, errors.New("nil file set")
	}

	c := &fileContext{
		cfg:              w.cfg,
		fset:             fset,
		path:             path,
		platformSpecific: opts.PlatformSpecific,
		traverse:         w.reporter.Phase(diag.PhaseTraverse),
		rewrite:          w.reporter.Phase(diag.PhaseRewrite),
		inject:           w.reporter.Phase(diag.PhaseInject),
	}

	if !w.cfg.ShouldTransformFile(path) {
		c.traverse.Report(diag.SW100FileExcluded, "", c.position(file.Package))
		return &Result{File: file}, nil
	}

	w.log.Debug("transform file", zap.String("path", path))

	c.imports = planImports(file, opts)
	c.engine = rewrite.NewEngine(w.cfg, c.imports.names)
	tracer := c.imports.names.Tracer
	c.hasEntryPoint = declaresVar(file, tracer) || (tracer == rewrite.TracerVar && opts.EntryPointProvided)

	res := &Result{
		File:     file,
		Eligible: true,
	}
	var picked []pick
	for i, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		m, ok := rewrite.Describe(fd, c.imports.names)
		if !ok {
			continue
		}

		mr, ok := w.visit(c, m)
		res.Methods = append(res.Methods, mr)
		if ok {
			picked = append(picked, pick{index: i, method: m})
		}
	}

	if len(picked) == 0 {
		c.traverse.Report(diag.SW101FileUnchanged, "", c.position(file.Package))
		return res, nil
	}

	out, err := c.render(file, picked, res)
	if err != nil {
		return nil, err
	}

	res.File = out
	res.Changed = true
	return res, nil
}

// visit decides what to do with a method. It reports whether the method is to
// be rewritten.
func (w *Weaver) visit(c *fileContext, m *rewrite.Method) (MethodResult, bool) {
	leave := c.enterClass(m.Class)
	defer leave()
	m.Class = c.class()

	mr := MethodResult{
		Class: m.Class,
		Name:  m.Name,
		Shape: m.Shape,
		Pos:   c.position(m.Decl.Pos()),
		Decl:  m.Decl,
	}
	qualified := m.Class + "." + m.Name

	if hasIgnoreDirective(m.Decl.Doc) {
		mr.Outcome = Ignored
		c.traverse.Report(diag.SW202MethodIgnored, qualified+" has "+IgnoreDirective, mr.Pos)
		return mr, false
	}

	if !c.cfg.ShouldInstrumentMethod(m.Name) {
		mr.Outcome = Excluded
		mr.Verdict = c.cfg.DecideMethod(m.Name)
		c.traverse.Report(diag.SW201MethodExcluded, qualified+" is "+mr.Verdict.String(), mr.Pos)
		return mr, false
	}

	if !m.HasBody() {
		mr.Outcome = NoBody
		c.traverse.Report(diag.SW203MethodNoBody, qualified+" has no body", mr.Pos)
		return mr, false
	}

	if rewrite.IsInstrumented(m.Decl, c.imports.names.Tracer) {
		mr.Outcome = AlreadyInstrumented
		c.traverse.Report(diag.SW220MethodAlreadyInstrumented, qualified+" already starts a span", mr.Pos)
		return mr, false
	}

	if c.limitReached() {
		mr.Outcome = LimitReached
		if !c.limitReported {
			c.limitReported = true
			c.traverse.Report(
				diag.SW210MethodLimitReached,
				fmt.Sprintf("%s: more than %d methods to instrument, %s and the rest are left as is",
					c.path, c.cfg.MaxMethodsPerFile(), qualified),
				mr.Pos,
			)
		}
		return mr, false
	}

	c.rewritten++
	mr.Outcome = Instrumented
	mr.SpanName = c.engine.SpanName(m)
	c.rewrite.Report(diag.SW200MethodInstrumented, fmt.Sprintf("%s as %s span %q", qualified, m.Shape, mr.SpanName), mr.Pos)

	return mr, true
}
