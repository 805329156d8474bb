package glob

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for empty or malformed patterns.
var ErrBadPattern = errors.New("bad pattern")

// Kind distinguishes path patterns from method name patterns.
type Kind int

const (
	kindInvalid Kind = iota
	KindPath
	KindName
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindName:
		return "name"
	default:
		return fmt.Sprintf("kind-invalid(%d)", k)
	}
}

// Pattern is a compiled glob.
type Pattern struct {
	src     string
	kind    Kind
	literal bool
	expr    string

	// exprs are doublestar forms of a wildcard pattern, any of them may match.
	exprs []string
}

// CompilePath compiles a file path pattern.
func CompilePath(pattern string) (*Pattern, error) {
	return compile(KindPath, pattern)
}

// CompileName compiles a method name pattern.
func CompileName(pattern string) (*Pattern, error) {
	return compile(KindName, pattern)
}

// MustCompilePath is like CompilePath but panics on error.
func MustCompilePath(pattern string) *Pattern {
	p, err := CompilePath(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// MustCompileName is like CompileName but panics on error.
func MustCompileName(pattern string) *Pattern {
	p, err := CompileName(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(kind Kind, pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty %s pattern", ErrBadPattern, kind)
	}

	src := pattern
	if kind == KindPath {
		pattern = NormalizePath(pattern)
	}

	if !strings.ContainsAny(pattern, "*?") {
		return &Pattern{src: src, kind: kind, literal: true, expr: pattern}, nil
	}

	expr := escape(pattern)
	exprs := []string{expr}
	if kind == KindPath {
		exprs = expandDoubleStar(expr)
	}
	for _, e := range exprs {
		if !doublestar.ValidatePattern(e) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, src)
		}
	}

	return &Pattern{src: src, kind: kind, expr: expr, exprs: exprs}, nil
}

// expandDoubleStar rewrites every "**" sharing a segment with other characters
// into whole-segment forms. doublestar reads such a "**" as "*", while here it
// matches any run of characters separators included: "src/**.go" becomes
// "src/*.go" and "src/*/**/*.go".
func expandDoubleStar(expr string) []string {
	i := inSegmentDoubleStar(expr)
	if i < 0 {
		return []string{expr}
	}

	head, tail := expr[:i], expr[i+2:]
	var res []string
	for _, e := range []string{head + "*" + tail, head + "*/**/*" + tail} {
		res = append(res, expandDoubleStar(e)...)
	}
	return res
}

// inSegmentDoubleStar returns the index of the first "**" that is not a whole
// path segment, or -1.
func inSegmentDoubleStar(expr string) int {
	for i := 0; i+1 < len(expr); i++ {
		if expr[i] != '*' || expr[i+1] != '*' {
			continue
		}
		start := i == 0 || expr[i-1] == '/'
		end := i+2 == len(expr) || expr[i+2] == '/'
		if !start || !end {
			return i
		}
		i++
	}
	return -1
}

// escape quotes everything doublestar would treat specially apart from the
// wildcards we support.
func escape(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 4)
	for _, r := range pattern {
		switch r {
		case '\\', '[', ']', '{', '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePath converts separators to forward slashes and drops a leading "./".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}

// Match reports whether the whole candidate matches the pattern.
func (p *Pattern) Match(candidate string) bool {
	if p.kind == KindPath {
		candidate = NormalizePath(candidate)
	}

	if p.literal {
		return candidate == p.expr
	}

	for _, expr := range p.exprs {
		ok, err := doublestar.Match(expr, candidate)
		if err != nil {
			// Patterns are validated on compile.
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

// Kind returns the pattern kind.
func (p *Pattern) Kind() Kind {
	return p.kind
}

// Literal reports whether the pattern has no wildcards.
func (p *Pattern) Literal() bool {
	return p.literal
}

func (p *Pattern) String() string {
	return p.src
}

// Set is an ordered list of patterns.
type Set []*Pattern

// MatchAny reports whether any pattern of the set matches the candidate.
func (s Set) MatchAny(candidate string) bool {
	for _, p := range s {
		if p.Match(candidate) {
			return true
		}
	}
	return false
}

// Strings returns source forms of the set's patterns.
func (s Set) Strings() []string {
	res := make([]string, len(s))
	for i, p := range s {
		res[i] = p.src
	}
	return res
}
