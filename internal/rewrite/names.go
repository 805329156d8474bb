package rewrite

import (
	"go/ast"
	"strconv"
)

// Import paths generated code depends on.
const (
	PathContext   = "context"
	PathFmt       = "fmt"
	PathIter      = "iter"
	PathOtel      = "go.opentelemetry.io/otel"
	PathAttribute = "go.opentelemetry.io/otel/attribute"
	PathCodes     = "go.opentelemetry.io/otel/codes"
	PathTrace     = "go.opentelemetry.io/otel/trace"
)

// TracerVar is the name of the package level tracer variable.
const TracerVar = "tracer"

// Names holds local names generated code uses to refer to packages and to
// the package level tracer.
type Names struct {
	Context   string
	Fmt       string
	Attribute string
	Codes     string
	Trace     string

	// Iter is the local name of the iter package in the file or empty when
	// the file does not import it.
	Iter string

	// Tracer is the name of the tracer variable, TracerVar unless the name is taken.
	Tracer string
}

// DefaultNames returns names used when a file imports nothing that clashes.
func DefaultNames() Names {
	return Names{
		Context:   "context",
		Fmt:       "fmt",
		Attribute: "attribute",
		Codes:     "codes",
		Trace:     "trace",
		Iter:      "iter",
		Tracer:    TracerVar,
	}
}

func (n Names) all() []string {
	return []string{n.Context, n.Fmt, n.Attribute, n.Codes, n.Trace, n.Iter, n.Tracer}
}

// namer hands out identifiers not used anywhere in a declaration.
type namer struct {
	taken map[string]struct{}
}

func newNamer(decl *ast.FuncDecl, names Names) *namer {
	n := &namer{taken: map[string]struct{}{}}
	ast.Inspect(decl, func(node ast.Node) bool {
		if id, ok := node.(*ast.Ident); ok {
			n.taken[id.Name] = struct{}{}
		}
		return true
	})
	for _, name := range names.all() {
		if name != "" {
			n.taken[name] = struct{}{}
		}
	}
	return n
}

// fresh returns base, or base followed by the smallest number that makes it
// unused, and reserves it.
func (n *namer) fresh(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, ok := n.taken[name]; !ok {
			break
		}
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = struct{}{}
	return name
}
