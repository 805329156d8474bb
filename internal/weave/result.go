package weave

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/sirkon/spanweave/internal/config"
	"github.com/sirkon/spanweave/internal/rewrite"
)

// Outcome is what happened to a method.
type Outcome int

const (
	outcomeInvalid Outcome = iota

	// Instrumented means the method body was rewritten.
	Instrumented

	// Excluded means selection rules rejected the method.
	Excluded

	// Ignored means the method opted out with a directive.
	Ignored

	// AlreadyInstrumented means the body already starts a span.
	AlreadyInstrumented

	// LimitReached means the per-file rewrite limit was hit before the method.
	LimitReached

	// NoBody means the method is declared without a body.
	NoBody
)

func (o Outcome) String() string {
	switch o {
	case Instrumented:
		return "instrumented"
	case Excluded:
		return "excluded"
	case Ignored:
		return "ignored"
	case AlreadyInstrumented:
		return "already instrumented"
	case LimitReached:
		return "limit reached"
	case NoBody:
		return "no body"
	default:
		return fmt.Sprintf("outcome-invalid(%d)", o)
	}
}

// MethodResult describes a visited method.
type MethodResult struct {
	Class   string
	Name    string
	Shape   rewrite.Shape
	Outcome Outcome

	// Verdict is set for Excluded methods.
	Verdict config.MethodVerdict

	// SpanName is set for Instrumented methods.
	SpanName string

	Pos token.Position

	// Decl is the declaration from the input file.
	Decl *ast.FuncDecl
}

// Result is the outcome of a file transformation.
type Result struct {
	// File is the transformed file, or the input itself when Changed is false.
	File *ast.File

	Changed  bool
	Eligible bool

	// EntryPointInjected is set when a tracer declaration was added.
	EntryPointInjected bool

	// NeedsEntryPoint is set when the file uses the shared tracer, nothing
	// declares it and the file is platform specific. See EntryPointSource.
	NeedsEntryPoint bool

	// Methods lists visited methods in declaration order.
	Methods []MethodResult
}

// Count returns the number of methods with the given outcome.
func (r *Result) Count(o Outcome) int {
	var n int
	for _, m := range r.Methods {
		if m.Outcome == o {
			n++
		}
	}
	return n
}
