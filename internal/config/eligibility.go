package config

import (
	"fmt"
	"go/token"

	"github.com/sirkon/spanweave/internal/glob"
)

// ShouldTransformFile reports whether path matches an include pattern and no
// exclude pattern.
func (c *Config) ShouldTransformFile(path string) bool {
	path = glob.NormalizePath(path)
	return c.include.MatchAny(path) && !c.exclude.MatchAny(path)
}

// MethodVerdict is the outcome of method selection rules.
type MethodVerdict int

const (
	verdictInvalid MethodVerdict = iota

	// MethodAccepted means the method is to be instrumented.
	MethodAccepted

	// MethodPrivate means the method is unexported and private methods are off.
	MethodPrivate

	// MethodNotIncluded means includeMethods is set and the name matches none of it.
	MethodNotIncluded

	// MethodExcluded means the name matches excludeMethods.
	MethodExcluded
)

func (v MethodVerdict) String() string {
	switch v {
	case MethodAccepted:
		return "accepted"
	case MethodPrivate:
		return "private"
	case MethodNotIncluded:
		return "not included"
	case MethodExcluded:
		return "excluded"
	default:
		return fmt.Sprintf("verdict-invalid(%d)", v)
	}
}

// DecideMethod applies method selection rules to a method name.
func (c *Config) DecideMethod(name string) MethodVerdict {
	if name == "" || name == "_" {
		return MethodExcluded
	}

	if !c.instrumentPrivateMethods && !token.IsExported(name) {
		return MethodPrivate
	}

	if len(c.includeMethods) > 0 {
		if c.includeMethods.MatchAny(name) {
			return MethodAccepted
		}
		return MethodNotIncluded
	}

	if c.excludeMethods.MatchAny(name) {
		return MethodExcluded
	}

	return MethodAccepted
}

// ShouldInstrumentMethod reports whether a method with the given name passes
// selection rules.
func (c *Config) ShouldInstrumentMethod(name string) bool {
	return c.DecideMethod(name) == MethodAccepted
}
