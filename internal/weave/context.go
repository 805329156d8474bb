package weave

import (
	"go/token"

	"github.com/sirkon/spanweave/internal/config"
	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/rewrite"
)

// fileContext is the traversal state of a single file.
type fileContext struct {
	cfg  *config.Config
	fset *token.FileSet
	path string

	hasEntryPoint    bool
	platformSpecific bool
	classes          []string
	rewritten        int
	limitReported    bool

	imports *importPlan
	engine  *rewrite.Engine

	traverse *diag.PhaseReporter
	rewrite  *diag.PhaseReporter
	inject   *diag.PhaseReporter
}

// enterClass pushes the class scope and returns the function restoring the
// enclosing one.
func (c *fileContext) enterClass(name string) (leave func()) {
	c.classes = append(c.classes, name)
	depth := len(c.classes)
	return func() {
		c.classes = c.classes[:depth-1]
	}
}

// class returns the enclosing class name or an empty string outside of one.
func (c *fileContext) class() string {
	if len(c.classes) == 0 {
		return ""
	}
	return c.classes[len(c.classes)-1]
}

// limitReached reports whether no more methods may be rewritten in the file.
func (c *fileContext) limitReached() bool {
	return c.rewritten >= c.cfg.MaxMethodsPerFile()
}

func (c *fileContext) position(pos token.Pos) token.Position {
	p := c.fset.Position(pos)
	if p.Filename == "" {
		p.Filename = c.path
	}
	return p
}
